// Package config reads settings from the environment
// Malformed values are logged and replaced by the default so a typo never stops the process,
// except for enums, where a wrong value panics at startup
package config

import (
	"strconv"
	"strings"
	"time"

	"rephraser/internal/platform/config/raw"
	"rephraser/internal/platform/logger"
)

// Conf is a view of the environment under a key prefix, e.g. New().Prefix("CORE_API_")
type Conf struct{ r raw.Conf }

// New returns the unprefixed view
func New() Conf { return Conf{r: raw.New()} }

// Prefix returns a view under c's prefix followed by p
func (c Conf) Prefix(p string) Conf { return Conf{r: c.r.Prefix(p)} }

func (c Conf) key(k string) string { return c.r.Key(k) }

func parse[T any](c Conf, k string, def T, fn func(string) (T, error)) T {
	s, ok := c.r.Lookup(k)
	if !ok {
		return def
	}
	v, err := fn(s)
	if err != nil {
		logger.Get().Warn().Err(err).
			Str("key", c.key(k)).
			Str("value", s).
			Interface("default", def).
			Msg("invalid config value, using default")
		return def
	}
	return v
}

// MayString returns the trimmed value or def
func (c Conf) MayString(k, def string) string { return c.r.Get(k, def) }

// MayInt returns the value or def
func (c Conf) MayInt(k string, def int) int { return parse(c, k, def, strconv.Atoi) }

// MayFloat64 returns the value or def
func (c Conf) MayFloat64(k string, def float64) float64 {
	return parse(c, k, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool accepts what strconv.ParseBool does
func (c Conf) MayBool(k string, def bool) bool { return parse(c, k, def, strconv.ParseBool) }

// MayDuration takes Go duration syntax such as 750ms or 2m
func (c Conf) MayDuration(k string, def time.Duration) time.Duration {
	return parse(c, k, def, time.ParseDuration)
}

// MayCSV splits on commas and drops blank items, def when nothing is left
func (c Conf) MayCSV(k string, def []string) []string {
	s, ok := c.r.Lookup(k)
	if !ok {
		return def
	}
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value, matched case-insensitively and lowercased, or def
// a value outside allowed panics
func (c Conf) MayEnum(k, def string, allowed ...string) string {
	v, ok := c.r.Lookup(k)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	logger.Get().Panic().Str("key", c.key(k)).Str("value", v).Strs("allowed", allowed).Msg("invalid config value")
	return ""
}
