package search

import (
	"regexp"
	"strconv"
	"strings"
)

// QueryKind classifies a search query.
type QueryKind string

const (
	KindVerse      QueryKind = "verse"
	KindVerseRange QueryKind = "verse_range"
	KindChapter    QueryKind = "chapter"
	KindText       QueryKind = "text"
)

// Reference is a parsed "Book C:V-E" query. Zero fields are absent.
type Reference struct {
	Kind     QueryKind `json:"kind"`
	Book     string    `json:"book,omitempty"`
	Chapter  int       `json:"chapter,omitempty"`
	Verse    int       `json:"verse,omitempty"`
	EndVerse int       `json:"end_verse,omitempty"`
}

// book: optional leading 1-3, then letters/spaces; chapter; optional :verse
// and -end.
var referencePattern = regexp.MustCompile(`^((?:[1-3]\s*)?[A-Za-zÀ-ÿ][A-Za-zÀ-ÿ.\s]*?)\s+(\d{1,3})(?:\s*:\s*(\d{1,3})(?:\s*-\s*(\d{1,3}))?)?$`)

// ParseReference classifies q as a verse ("João 3:16"), a verse range
// ("John 3:16-18"), a chapter ("Salmos 23") or free text.
func ParseReference(q string) Reference {
	m := referencePattern.FindStringSubmatch(strings.TrimSpace(q))
	if m == nil {
		return Reference{Kind: KindText}
	}
	ref := Reference{
		Book:    strings.Join(strings.Fields(m[1]), " "),
		Chapter: atoi(m[2]),
	}
	switch {
	case m[4] != "":
		ref.Kind = KindVerseRange
		ref.Verse, ref.EndVerse = atoi(m[3]), atoi(m[4])
		if ref.EndVerse < ref.Verse {
			return Reference{Kind: KindText}
		}
	case m[3] != "":
		ref.Kind = KindVerse
		ref.Verse = atoi(m[3])
	default:
		ref.Kind = KindChapter
	}
	if ref.Chapter == 0 {
		return Reference{Kind: KindText}
	}
	return ref
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
