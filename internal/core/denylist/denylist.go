// Package denylist holds the process wide banned term list
// Readers take one immutable Snapshot per operation and writers publish a
// complete replacement with a single pointer swap, so a reader never sees a
// half updated list.
package denylist

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"rephraser/internal/core/matcher"
	"rephraser/internal/core/normalize"
)

// Snapshot is one published version of the denylist
// it must be treated as read only
type Snapshot struct {
	version  uint64
	terms    []string
	set      *matcher.Set
	loadedAt time.Time
}

// Terms returns the ordered terms, longest first
// the slice is shared with other readers and must not be modified
func (s *Snapshot) Terms() []string { return s.terms }

// Matcher returns the compiled patterns for this version
func (s *Snapshot) Matcher() *matcher.Set { return s.set }

// Len returns the number of terms
func (s *Snapshot) Len() int { return len(s.terms) }

// Version increases by one with every replace, the empty boot list is 0
func (s *Snapshot) Version() uint64 { return s.version }

// LoadedAt is when this version was published
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Store publishes denylist snapshots
// the zero value is not usable, call New
type Store struct {
	cur     atomic.Pointer[Snapshot]
	wmu     sync.Mutex // serializes writers so versions publish in order
	version uint64
	now     func() time.Time
	observe func(n int)
}

// Option configures a Store
type Option func(*Store)

// WithObserver registers a callback invoked with the term count after each replace
func WithObserver(fn func(n int)) Option {
	return func(s *Store) { s.observe = fn }
}

// WithClock overrides the clock used for LoadedAt
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a Store holding an empty list
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	s.cur.Store(&Snapshot{set: matcher.Compile(nil), loadedAt: s.now()})
	return s
}

// Replace normalizes lines and publishes them as the new list
// returns the number of terms kept
func (s *Store) Replace(lines []string) int {
	terms := Normalize(lines)
	set := matcher.Compile(terms)

	s.wmu.Lock()
	s.version++
	s.cur.Store(&Snapshot{
		version:  s.version,
		terms:    terms,
		set:      set,
		loadedAt: s.now(),
	})
	s.wmu.Unlock()
	if s.observe != nil {
		s.observe(len(terms))
	}
	return len(terms)
}

// ReplaceText is Replace over newline delimited text
func (s *Store) ReplaceText(text string) int { return s.Replace(ParseLines(text)) }

// Snapshot returns the current version
func (s *Store) Snapshot() *Snapshot { return s.cur.Load() }

// Current returns a copy of the ordered terms
func (s *Store) Current() []string {
	terms := s.Snapshot().terms
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}

// Len returns the number of terms currently loaded
func (s *Store) Len() int { return s.Snapshot().Len() }

// Normalize folds lines into terms: lowercase, trimmed, non-empty, first occurrence kept,
// sorted by descending length with ties in input order
func Normalize(lines []string) []string {
	folded := normalize.Terms(lines)
	seen := make(map[string]struct{}, len(folded))
	out := make([]string, 0, len(folded))
	for _, t := range folded {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i]) > utf8.RuneCountInString(out[j])
	})
	return out
}

// ParseLines splits newline delimited text into raw lines, accepting LF and CRLF
func ParseLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
