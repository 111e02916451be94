// Package normalize folds raw denylist lines into their canonical stored form
// Pipeline order
// 1 Drop control bytes and invalid UTF-8 (Sanitize)
// 2 Unicode NFC composition so precomposed and combining forms compare equal
// 3 Locale neutral lowercase
// 4 Trim surrounding whitespace
package normalize

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains, a cases.Caser keeps state between calls
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			cases.Lower(language.Und),
		)
	},
}

// Term returns the canonical form of a single denylist line
// an empty result means the line carries no term
func Term(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)
	if strings.TrimSpace(s) == "" {
		return ""
	}

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = strings.ToLower(s)
	}
	return strings.TrimSpace(ns)
}

// Terms folds every line and drops the ones that end up empty
// input order is preserved
func Terms(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := Term(l); t != "" {
			out = append(out, t)
		}
	}
	return out
}
