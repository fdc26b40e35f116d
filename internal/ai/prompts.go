package ai

import "fmt"

const translationSystem = `Você é um tradutor bíblico. Responda somente com um objeto JSON no formato {"translation": "<texto>"}.`

func translateVersePrompt(verse, reference string) string {
	if reference != "" {
		return fmt.Sprintf("Traduza APENAS o texto do verso abaixo para português brasileiro. IMPORTANTE: NÃO inclua a referência bíblica (%s) no texto traduzido. Retorne SOMENTE o texto do verso traduzido, sem a referência, sem explicações, sem formatação markdown. Apenas o texto puro do verso.\n\nVerso: %q", reference, verse)
	}
	return fmt.Sprintf("Traduza APENAS o texto abaixo para português brasileiro. Retorne SOMENTE o texto traduzido, sem explicações, sem formatação markdown. Apenas o texto puro.\n\n%q", verse)
}

func translateReferencePrompt(reference string) string {
	return "Traduza APENAS a referência para português. Retorne SOMENTE o texto traduzido, sem explicações: " + reference
}

func verseText(verse, reference string) string {
	if reference != "" {
		return fmt.Sprintf("%s: %q", reference, verse)
	}
	return fmt.Sprintf("%q", verse)
}

func summaryPrompt(verse, reference, language string) string {
	if language == "en" {
		return `You are a biblical assistant. Based on the following Bible verse, generate a JSON object with exactly this structure:

{
  "summary": "Brief and inspiring summary (2-3 sentences) explaining the meaning and importance of this verse",
  "relatedVerses": [
    {
      "reference": "John 3:16",
      "text": "For God so loved the world that he gave his one and only Son..."
    },
    {
      "reference": "Romans 5:8",
      "text": "But God demonstrates his own love for us..."
    }
  ]
}

IMPORTANT:
- Return ONLY a JSON object, not an array
- The field must be "relatedVerses" (camelCase), not "related_verses"
- Each related verse must be an object with "reference" and "text" separated
- Generate between 3 and 5 related verses
- Do not include a "verse" field in the returned object

Bible verse: ` + verseText(verse, reference)
	}
	return `Você é um assistente bíblico especializado. Com base no seguinte verso bíblico, gere um objeto JSON com exatamente esta estrutura:

{
  "summary": "Resumo breve e inspirador (2-3 frases) explicando o significado e a importância do verso",
  "relatedVerses": [
    {
      "reference": "João 3:16",
      "text": "Porque Deus amou o mundo de tal maneira que deu o seu Filho unigênito, para que todo aquele que nele crê não pereça, mas tenha a vida eterna."
    },
    {
      "reference": "Romanos 5:8",
      "text": "Mas Deus prova o seu amor para conosco em que Cristo morreu por nós, sendo nós ainda pecadores."
    },
    {
      "reference": "1 João 4:9",
      "text": "Nisto se manifestou o amor de Deus para conosco: que Deus enviou seu Filho unigênito ao mundo, para que por ele vivamos."
    }
  ]
}

REGRAS OBRIGATÓRIAS:
1. Retorne APENAS um objeto JSON válido, NUNCA um array
2. O campo deve ser "relatedVerses" (camelCase), não "related_verses" ou qualquer outra variação
3. "relatedVerses" deve ser um ARRAY DE OBJETOS, não um array de strings
4. Cada objeto dentro de "relatedVerses" DEVE ter exatamente dois campos: "reference" (string) e "text" (string)
5. Gere entre 3 e 5 versículos relacionados (objetos completos com referências e textos reais)
6. NÃO retorne strings como "reference" ou "text" - retorne objetos completos com valores reais de versículos bíblicos
7. Não inclua o campo "verse" no objeto retornado

Verso bíblico: ` + verseText(verse, reference)
}

func relatedVersesPrompt(verse, reference, language string) string {
	if language == "en" {
		return `Based on the following Bible verse, generate ONLY a list of 3-5 related Bible verses. Return a JSON array of objects, where each object has "reference" and "text".

Example format:
[
  { "reference": "John 3:16", "text": "For God so loved the world..." },
  { "reference": "Romans 5:8", "text": "But God demonstrates his love..." }
]

Verse: ` + verseText(verse, reference) + `

Return ONLY the JSON array, no explanations.`
	}
	return `Com base no seguinte verso bíblico, gere APENAS uma lista de 3-5 versículos bíblicos relacionados. Retorne um array JSON de objetos, onde cada objeto tem "reference" e "text".

Exemplo de formato:
[
  { "reference": "João 3:16", "text": "Porque Deus amou o mundo..." },
  { "reference": "Romanos 5:8", "text": "Mas Deus prova o seu amor..." }
]

Verso: ` + verseText(verse, reference) + `

Retorne APENAS o array JSON, sem explicações.`
}
