package ai

import (
	"encoding/json"
	"strings"
)

// jsonFragment returns the JSON value embedded in a model answer: code fences
// are dropped and the text is cut to the outermost object or array.
func jsonFragment(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}

// decodeFragment unmarshals the JSON fragment of raw into v.
func decodeFragment(raw string, v any) error {
	return json.Unmarshal([]byte(jsonFragment(raw)), v)
}
