// Package matcher finds denylist terms in a sentence as case-insensitive whole words
// and produces highlighted and masked copies of it
package matcher

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultPlaceholder replaces masked terms
	DefaultPlaceholder = "[MODERATED]"

	// MarkOpen and MarkClose wrap highlighted spans
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// Result is the outcome of checking one sentence
type Result struct {
	Sentence    string
	Terms       []string
	Highlighted string
}

// HasMatches reports whether any term matched
func (r Result) HasMatches() bool { return len(r.Terms) > 0 }

type pattern struct {
	term string
	re   *regexp.Regexp
}

// Set is a compiled, immutable list of term patterns in match order
// safe for concurrent use
type Set struct {
	pats  []pattern
	index map[string]int
}

// Pattern builds the whole word, case-insensitive matcher for one term
// the term is quoted so pattern metacharacters match literally
func Pattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + regexp.QuoteMeta(term) + `)\b`)
}

// Compile builds a Set from terms kept in the given order
// empty and repeated terms are skipped
func Compile(terms []string) *Set {
	s := &Set{
		pats:  make([]pattern, 0, len(terms)),
		index: make(map[string]int, len(terms)),
	}
	for _, t := range terms {
		if t == "" {
			continue
		}
		if _, dup := s.index[t]; dup {
			continue
		}
		s.index[t] = len(s.pats)
		s.pats = append(s.pats, pattern{term: t, re: Pattern(t)})
	}
	return s
}

// Len returns the number of compiled terms
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.pats)
}

// Check runs every term against sentence in set order
// each matching term is recorded once and every occurrence is wrapped in markers
func (s *Set) Check(sentence string) Result {
	res := Result{Sentence: sentence, Highlighted: sentence}
	if s == nil || sentence == "" {
		return res
	}

	var spans [][2]int
	for _, p := range s.pats {
		locs := p.re.FindAllStringIndex(sentence, -1)
		if len(locs) == 0 {
			continue
		}
		res.Terms = append(res.Terms, p.term)
		for _, l := range locs {
			spans = append(spans, [2]int{l[0], l[1]})
		}
	}
	if len(spans) > 0 {
		res.Highlighted = highlight(sentence, spans)
	}
	return res
}

// highlight inserts markers for every span against the untouched sentence
// so a term can never match inside marker markup, overlapping spans nest
func highlight(s string, spans [][2]int) string {
	opens := make([]int, len(s)+1)
	closes := make([]int, len(s)+1)
	for _, sp := range spans {
		opens[sp[0]]++
		closes[sp[1]]++
	}

	var b strings.Builder
	b.Grow(len(s) + len(spans)*(len(MarkOpen)+len(MarkClose)))
	for i := 0; i <= len(s); i++ {
		for range closes[i] {
			b.WriteString(MarkClose)
		}
		if i == len(s) {
			break
		}
		for range opens[i] {
			b.WriteString(MarkOpen)
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Mask replaces every whole word occurrence of terms with placeholder
// terms are applied longest first and text already inside a placeholder is never touched,
// so masking the output again is a no-op
func (s *Set) Mask(sentence string, terms []string, placeholder string) string {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	for _, t := range longestFirst(terms) {
		sentence = maskOutside(sentence, s.lookup(t), placeholder)
	}
	return sentence
}

// lookup returns the compiled pattern for t, compiling on a miss
func (s *Set) lookup(t string) *regexp.Regexp {
	if s != nil {
		if i, ok := s.index[t]; ok {
			return s.pats[i].re
		}
	}
	return Pattern(t)
}

// maskOutside replaces matches of re that do not overlap an existing placeholder
// re runs on the whole string so word boundaries next to a placeholder stay real
func maskOutside(s string, re *regexp.Regexp, placeholder string) string {
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	held := placeholderSpans(s, placeholder)

	var b strings.Builder
	last, masked := 0, 0
	for _, l := range locs {
		if overlaps(held, l[0], l[1]) {
			continue
		}
		b.WriteString(s[last:l[0]])
		b.WriteString(placeholder)
		last = l[1]
		masked++
	}
	if masked == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// placeholderSpans returns the non overlapping byte ranges holding placeholder, in order
func placeholderSpans(s, placeholder string) [][2]int {
	var spans [][2]int
	for off := 0; ; {
		i := strings.Index(s[off:], placeholder)
		if i < 0 {
			return spans
		}
		start := off + i
		off = start + len(placeholder)
		spans = append(spans, [2]int{start, off})
	}
}

func overlaps(spans [][2]int, start, end int) bool {
	for _, sp := range spans {
		if start < sp[1] && sp[0] < end {
			return true
		}
	}
	return false
}

// longestFirst returns a copy of terms sorted by descending rune length, ties keep input order
func longestFirst(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i]) > utf8.RuneCountInString(out[j])
	})
	return out
}

// Check compiles terms and checks sentence in one call
func Check(sentence string, terms []string) Result {
	return Compile(terms).Check(sentence)
}

// Mask masks terms in sentence without a precompiled Set
func Mask(sentence string, terms []string, placeholder string) string {
	var s *Set
	return s.Mask(sentence, terms, placeholder)
}
