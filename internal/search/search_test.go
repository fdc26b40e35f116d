package search

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeTerm(t *testing.T) {
	cases := map[string]string{
		"  Love ":         "love",
		"JOÃO   3:16":     "joão 3:16",
		"":                "",
		"\tGod\nis love ": "god is love",
	}
	for in, want := range cases {
		if got := NormalizeTerm(in); got != want {
			t.Fatalf("NormalizeTerm(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestItemReferenceAndText(t *testing.T) {
	cases := []struct {
		name, raw, ref, text string
	}{
		{"direct fields", `{"reference":"John 3:16","text":"For God so loved"}`, "John 3:16", "For God so loved"},
		{"human alias", `{"human":"Rom 8:28","content":"And we know"}`, "Rom 8:28", "And we know"},
		{"html with sid", `{"id":"x","text":"<p><span data-sid=\"MAT 22:22\">22</span>Quando ouviram &amp; se maravilharam</p>"}`, "MAT 22:22", "Quando ouviram & se maravilharam"},
		{"id fallback", `{"id":"GEN.1.1","text":"1 In the beginning"}`, "GEN.1.1", "In the beginning"},
		{"nothing", `{}`, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := json.RawMessage(tc.raw)
			if got := ItemReference(item); got != tc.ref {
				t.Fatalf("reference = %q, want %q", got, tc.ref)
			}
			if got := ItemText(item); got != tc.text {
				t.Fatalf("text = %q, want %q", got, tc.text)
			}
		})
	}
}

func TestDedupe(t *testing.T) {
	long := strings.Repeat("a", 60)
	items := []json.RawMessage{
		json.RawMessage(`{"reference":"John 3:16","text":"For God so loved"}`),
		json.RawMessage(`{"reference":"john 3:16","text":"FOR GOD SO LOVED"}`),
		json.RawMessage(`{"reference":"Gen 1:1","text":"` + long + `x"}`),
		json.RawMessage(`{"reference":"Gen 1:1","text":"` + long + `y"}`),
		json.RawMessage(`{"reference":"Gen 1:2","text":"And the earth"}`),
		json.RawMessage(`{"foo":1}`),
		json.RawMessage(`{"foo":1}`),
	}
	got := Dedupe(items)
	if len(got) != 4 {
		t.Fatalf("expected 4 unique items, got %d: %s", len(got), got)
	}
	if string(got[0]) != string(items[0]) || string(got[2]) != string(items[4]) {
		t.Fatalf("first occurrence must be kept in order: %s", got)
	}
}

func TestParseReference(t *testing.T) {
	cases := []struct {
		in   string
		want Reference
	}{
		{"João 3:16", Reference{Kind: KindVerse, Book: "João", Chapter: 3, Verse: 16}},
		{"John 3:16-18", Reference{Kind: KindVerseRange, Book: "John", Chapter: 3, Verse: 16, EndVerse: 18}},
		{"1 Coríntios 13:4", Reference{Kind: KindVerse, Book: "1 Coríntios", Chapter: 13, Verse: 4}},
		{"Salmos 23", Reference{Kind: KindChapter, Book: "Salmos", Chapter: 23}},
		{"Song of Songs 2:4", Reference{Kind: KindVerse, Book: "Song of Songs", Chapter: 2, Verse: 4}},
		{"love", Reference{Kind: KindText}},
		{"God is love", Reference{Kind: KindText}},
		{"John 3:18-16", Reference{Kind: KindText}},
		{"John 0", Reference{Kind: KindText}},
		{"", Reference{Kind: KindText}},
	}
	for _, tc := range cases {
		if got := ParseReference(tc.in); got != tc.want {
			t.Fatalf("ParseReference(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}
