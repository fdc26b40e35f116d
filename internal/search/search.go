// Package search holds the pure helpers around Bible text search: cache key
// normalization, field extraction from opaque provider records, duplicate
// suppression and classification of reference-style queries.
package search

import (
	"encoding/json"
	"html"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// NormalizeTerm returns the cache key form of a query: trimmed, lowercased,
// inner whitespace collapsed. The provider still receives the original query.
func NormalizeTerm(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

var (
	htmlTag      = regexp.MustCompile(`<[^>]*>`)
	dataSID      = regexp.MustCompile(`data-sid="([^"]+)"`)
	leadingNum   = regexp.MustCompile(`^\d+\s+`)
	numBeforeTxt = regexp.MustCompile(`^\d+([A-Za-zÀ-ÿ])`)
	anyLeadNum   = regexp.MustCompile(`^\d+`)
)

// referenceFields are tried in order to find a human readable reference.
var referenceFields = []string{"reference", "human", "osis"}

// ItemReference extracts the reference of a provider record: a direct field,
// the data-sid attribute of embedded HTML, or an id as a last resort.
func ItemReference(item json.RawMessage) string {
	r := gjson.ParseBytes(item)
	for _, f := range referenceFields {
		if v := r.Get(f).String(); v != "" {
			return v
		}
	}
	if m := dataSID.FindStringSubmatch(rawContent(r)); m != nil {
		return m[1]
	}
	for _, f := range []string{"verseId", "id", "passageId"} {
		if v := r.Get(f).String(); v != "" {
			return v
		}
	}
	return ""
}

// ItemText extracts the plain verse text of a provider record, with HTML
// markup and leading verse numbers removed.
func ItemText(item json.RawMessage) string {
	return CleanText(rawContent(gjson.ParseBytes(item)))
}

// CleanText strips HTML and a leading verse number ("22 ", "22Quando").
func CleanText(s string) string {
	if strings.Contains(s, "<") && strings.Contains(s, ">") {
		s = html.UnescapeString(htmlTag.ReplaceAllString(s, ""))
		s = strings.Join(strings.Fields(s), " ")
	}
	s = leadingNum.ReplaceAllString(s, "")
	s = numBeforeTxt.ReplaceAllString(s, "$1")
	s = anyLeadNum.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func rawContent(r gjson.Result) string {
	if v := r.Get("text"); v.Exists() {
		return v.String()
	}
	return r.Get("content").String()
}

// dedupPrefix is the number of text runes that take part in the key.
const dedupPrefix = 50

// DedupKey identifies a record for duplicate suppression: reference plus the
// first 50 runes of its text, case-insensitive. Records without both fall
// back to their raw content, then to the raw bytes.
func DedupKey(item json.RawMessage) string {
	ref, text := ItemReference(item), ItemText(item)
	if ref != "" && text != "" {
		return strings.ToLower(ref + "-" + prefix(text, dedupPrefix))
	}
	if raw := rawContent(gjson.ParseBytes(item)); raw != "" {
		return strings.ToLower(prefix(raw, 2*dedupPrefix))
	}
	return prefix(string(item), 2*dedupPrefix)
}

// Dedupe returns items with later duplicates removed, preserving order.
func Dedupe(items []json.RawMessage) []json.RawMessage {
	seen := make(map[string]struct{}, len(items))
	out := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		k := DedupKey(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
