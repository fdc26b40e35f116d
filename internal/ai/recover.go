package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tbourn/bible-study-backend/internal/domain"
)

var (
	refField     = regexp.MustCompile(`"reference"\s*:\s*"([^"]+)"`)
	textField    = regexp.MustCompile(`"text"\s*:\s*"([^"]+)"`)
	summaryField = regexp.MustCompile(`"summary"\s*:\s*"((?:[^"\\]|\\.)+)"`)
	quotedVerse  = regexp.MustCompile(`^(.+?):\s*["'](.+?)["']\.?$`)
	bookVerse    = regexp.MustCompile(`^([A-Za-zÀ-ÿ\s]+\s\d+:\d+):\s*(.+)$`)
	bookPrefix   = regexp.MustCompile(`^([A-Za-zÀ-ÿ\s]+\s\d+:\d+)`)
	labelPrefix  = regexp.MustCompile(`^[^:]+:\s*`)
	edgeQuotes   = regexp.MustCompile(`^["']|["']\.?$`)
)

// Recovered is what could be salvaged from a model answer that failed
// validation.
type Recovered struct {
	Summary string
	Verses  []domain.RelatedVerse
	// NeedsVerses is set when the answer had a summary but its verse list
	// was only placeholder strings; a second, narrower call may fill it.
	NeedsVerses bool
}

// Recover salvages a summary and related verses from a malformed answer.
//
// Accepted shapes: an array whose first element is the payload, the
// related_verses alias, verse lists of objects, of JSON-ish strings, of
// "Ref: "text"" or "Book 1:2: text" strings. Items with a reference of two
// runes or fewer or a text of five runes or fewer are dropped; at most five
// are kept. Non-JSON answers fall back to scanning for quoted fields.
func Recover(raw string) Recovered {
	var parsed any
	if err := json.Unmarshal([]byte(jsonFragment(raw)), &parsed); err != nil {
		return scanFields(raw)
	}
	if arr, ok := parsed.([]any); ok {
		if len(arr) == 0 {
			return Recovered{}
		}
		parsed = arr[0]
	}
	data, ok := parsed.(map[string]any)
	if !ok {
		return Recovered{}
	}

	out := Recovered{Summary: strings.TrimSpace(str(data["summary"]))}
	versesData, ok := data["relatedVerses"]
	if !ok || versesData == nil {
		versesData = data["related_verses"]
	}
	items, isArr := versesData.([]any)
	if !isArr {
		return out
	}

	if out.Summary != "" && malformedStrings(items) {
		if vs := pairsFromStrings(items); len(vs) >= minRelated {
			out.Verses = capVerses(vs)
			return out
		}
	}
	if placeholderStrings(items) {
		out.NeedsVerses = out.Summary != ""
		return out
	}

	vs := make([]domain.RelatedVerse, 0, len(items))
	for i, it := range items {
		if v, ok := recoverItem(i, it); ok {
			vs = append(vs, v)
		}
	}
	out.Verses = capVerses(filterVerses(vs))
	return out
}

// placeholderStrings matches lists like ["reference","text"]; an empty list
// counts as well.
func placeholderStrings(items []any) bool {
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return false
		}
		if s != "reference" && s != "text" && utf8.RuneCountInString(s) >= 10 {
			return false
		}
	}
	return true
}

// malformedStrings matches lists of strings that each embed both a
// "reference" and a "text" field.
func malformedStrings(items []any) bool {
	if len(items) == 0 || placeholderStrings(items) {
		return false
	}
	for _, it := range items {
		s, ok := it.(string)
		if !ok || utf8.RuneCountInString(s) <= 10 {
			return false
		}
		hasRef := strings.Contains(s, `"reference"`) || strings.Contains(s, `reference":`)
		hasText := strings.Contains(s, `"text"`) || strings.Contains(s, `text":`)
		if !hasRef || !hasText {
			return false
		}
	}
	return true
}

func pairsFromStrings(items []any) []domain.RelatedVerse {
	out := make([]domain.RelatedVerse, 0, len(items))
	for _, it := range items {
		s, _ := it.(string)
		if v, ok := pairFromString(s); ok {
			out = append(out, v)
		}
	}
	return filterVerses(out)
}

func pairFromString(s string) (domain.RelatedVerse, bool) {
	r := refField.FindStringSubmatch(s)
	t := textField.FindStringSubmatch(s)
	if r == nil || t == nil {
		return domain.RelatedVerse{}, false
	}
	return domain.RelatedVerse{Reference: strings.TrimSpace(r[1]), Text: strings.TrimSpace(t[1])}, true
}

func recoverItem(i int, it any) (domain.RelatedVerse, bool) {
	switch v := it.(type) {
	case string:
		if v == "reference" || v == "text" || utf8.RuneCountInString(v) <= 5 {
			return domain.RelatedVerse{}, false
		}
		var obj map[string]any
		if json.Unmarshal([]byte("{"+v+"}"), &obj) == nil {
			if ref, txt := str(obj["reference"]), str(obj["text"]); ref != "" && txt != "" {
				return domain.RelatedVerse{Reference: ref, Text: txt}, true
			}
		}
		if rv, ok := pairFromString(v); ok {
			return rv, true
		}
		if m := quotedVerse.FindStringSubmatch(v); m != nil {
			return domain.RelatedVerse{Reference: strings.TrimSpace(m[1]), Text: strings.TrimSpace(m[2])}, true
		}
		if m := bookVerse.FindStringSubmatch(v); m != nil {
			return domain.RelatedVerse{Reference: strings.TrimSpace(m[1]), Text: strings.TrimSpace(m[2])}, true
		}
		ref := fmt.Sprintf("Versículo %d", i+1)
		if m := bookPrefix.FindStringSubmatch(v); m != nil {
			ref = m[1]
		}
		txt := strings.TrimSpace(edgeQuotes.ReplaceAllString(labelPrefix.ReplaceAllString(v, ""), ""))
		if txt == "" {
			txt = v
		}
		return domain.RelatedVerse{Reference: ref, Text: txt}, true
	case map[string]any:
		ref, txt := str(v["reference"]), str(v["text"])
		if ref != "" && txt != "" {
			return domain.RelatedVerse{Reference: ref, Text: txt}, true
		}
		alt := str(v["verse"])
		if alt == "" {
			alt = str(v["versiculo"])
		}
		if alt == "" {
			return domain.RelatedVerse{}, false
		}
		if ref == "" {
			ref = firstNonEmpty(str(v["ref"]), str(v["versiculo"]), fmt.Sprintf("Versículo %d", i+1))
		}
		if txt == "" {
			txt = alt
		}
		return domain.RelatedVerse{Reference: ref, Text: txt}, true
	}
	return domain.RelatedVerse{}, false
}

// scanFields is the last resort for answers that are not valid JSON at all.
func scanFields(raw string) Recovered {
	var out Recovered
	if m := summaryField.FindStringSubmatch(raw); m != nil {
		var s string
		if json.Unmarshal([]byte(`"`+m[1]+`"`), &s) == nil {
			out.Summary = strings.TrimSpace(s)
		}
	}
	refs := refField.FindAllStringSubmatch(raw, -1)
	texts := textField.FindAllStringSubmatch(raw, -1)
	vs := make([]domain.RelatedVerse, 0, len(refs))
	for i := 0; i < len(refs) && i < len(texts); i++ {
		vs = append(vs, domain.RelatedVerse{Reference: strings.TrimSpace(refs[i][1]), Text: strings.TrimSpace(texts[i][1])})
	}
	out.Verses = capVerses(filterVerses(vs))
	return out
}

func filterVerses(vs []domain.RelatedVerse) []domain.RelatedVerse {
	out := vs[:0]
	for _, v := range vs {
		if utf8.RuneCountInString(v.Reference) > 2 && utf8.RuneCountInString(v.Text) > 5 {
			out = append(out, v)
		}
	}
	return out
}

func capVerses(vs []domain.RelatedVerse) []domain.RelatedVerse {
	if len(vs) > maxRelated {
		return vs[:maxRelated]
	}
	return vs
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
