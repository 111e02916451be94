package module

import (
	"time"

	"rephraser/internal/platform/config"
)

// Options controls where the list comes from and how uploads are capped
type Options struct {
	Path     string
	Watch    bool
	Debounce time.Duration
	MaxBytes int64
	// NoWatch forces the watcher off even when config enables it
	NoWatch bool
}

// FromConfig reads with the DENYLIST_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("DENYLIST_")
	return Options{
		Path:     c.MayString("PATH", "banned_terms.txt"),
		Watch:    c.MayBool("WATCH", true),
		Debounce: c.MayDuration("DEBOUNCE", 250*time.Millisecond),
		MaxBytes: int64(c.MayInt("MAX_BYTES", 1<<20)),
	}
}

func merge(base, o Options) Options {
	if o.Path != "" {
		base.Path = o.Path
	}
	if o.Debounce > 0 {
		base.Debounce = o.Debounce
	}
	if o.MaxBytes > 0 {
		base.MaxBytes = o.MaxBytes
	}
	if o.NoWatch {
		base.Watch = false
	}
	return base
}
