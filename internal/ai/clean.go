package ai

import (
	"regexp"
	"strings"
)

var (
	// leading "Livro 3:16:" echo, optionally quoted: captures the outer and
	// inner quote so the matching closing quotes can be dropped too.
	leadingRef = regexp.MustCompile(`(?i)^(['"]?)[a-záàâãéêíóôõúç]+ [0-9]+:[0-9]+:?\s*(['"]?)\s*`)
	loneRef    = regexp.MustCompile(`(?i)^[a-záàâãéêíóôõúç]+ [0-9]+:[0-9]+$`)
	boldMark   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicMark = regexp.MustCompile(`\*(.+?)\*`)
	spaces     = regexp.MustCompile(`\s+`)
)

// preamble lines the model tends to add before the actual translation.
var preamblePrefixes = []string{"aqui está", "tradução", "**"}

// CleanTranslation strips the artifacts models add around a translated verse:
// a leading reference echo, markdown emphasis, preamble lines, one layer of
// wrapping quotes and repeated whitespace.
func CleanTranslation(text string) string {
	s := strings.TrimSpace(text)

	if m := leadingRef.FindStringSubmatch(s); m != nil {
		s = s[len(m[0]):]
		for _, q := range []string{m[1], m[2]} {
			if q != "" {
				s = strings.TrimSuffix(strings.TrimSpace(s), q)
			}
		}
	}

	s = boldMark.ReplaceAllString(s, "$1")
	s = italicMark.ReplaceAllString(s, "$1")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		low := strings.ToLower(strings.TrimSpace(line))
		if low == "" || loneRef.MatchString(low) || hasAnyPrefix(low, preamblePrefixes) {
			continue
		}
		kept = append(kept, line)
	}
	s = strings.TrimSpace(strings.Join(kept, "\n"))

	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// startsWithReference reports whether text begins with a "Livro 3:16" echo.
func startsWithReference(text string) bool {
	return leadingRef.MatchString(strings.TrimSpace(text))
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
