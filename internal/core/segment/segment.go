// Package segment splits free text into sentences
// A boundary is a run of '.', '!', '?' or '\n'. The run stays on the sentence
// it closes and any whitespace after it is swallowed as the separator.
// This is a heuristic splitter, abbreviations and decimals split too.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence is one trimmed, non-empty fragment of the input
// Ordinal is 1-based over the emitted sentences, skipped fragments leave no gaps
type Sentence struct {
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text"`
}

// isBoundary reports whether b closes a sentence, all boundaries are ASCII
// so byte scanning stays UTF-8 safe
func isBoundary(b byte) bool {
	switch b {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}

// Split returns the sentences of text in order
// whitespace only input yields nil
func Split(text string) []Sentence {
	var out []Sentence
	start, i, n := 0, 0, len(text)

	for i < n {
		if !isBoundary(text[i]) {
			i++
			continue
		}
		for i < n && isBoundary(text[i]) {
			i++
		}
		end := i
		i = skipSpace(text, i)
		out = appendFragment(out, text[start:end])
		start = i
	}
	return appendFragment(out, text[start:])
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func appendFragment(out []Sentence, frag string) []Sentence {
	frag = strings.TrimSpace(frag)
	if frag == "" {
		return out
	}
	return append(out, Sentence{Ordinal: len(out) + 1, Text: frag})
}
