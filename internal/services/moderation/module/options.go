package module

import (
	"time"

	"rephraser/internal/adapters/ollama"
	"rephraser/internal/core/matcher"
	"rephraser/internal/platform/config"
)

// Options controls the pipeline and its generator
type Options struct {
	Placeholder string
	MaxBytes    int64
	Generator   ollama.Options
}

// FromConfig reads MODERATION_ and GENERATOR_ keys under cfg
// the generator URL falls back to the bare OLLAMA_HOST variable
func FromConfig(cfg config.Conf) Options {
	mc := cfg.Prefix("MODERATION_")
	gc := cfg.Prefix("GENERATOR_")
	host := config.New().MayString("OLLAMA_HOST", "http://localhost:11434")
	return Options{
		Placeholder: mc.MayString("PLACEHOLDER", matcher.DefaultPlaceholder),
		MaxBytes:    int64(mc.MayInt("MAX_BYTES", 1<<20)),
		Generator: ollama.Options{
			BaseURL:      gc.MayString("URL", host),
			Model:        gc.MayString("MODEL", "llama3.2"),
			Temperature:  ollama.Temperature(gc.MayFloat64("TEMPERATURE", 0.3)),
			MaxTokens:    gc.MayInt("MAX_TOKENS", 200),
			Timeout:      gc.MayDuration("TIMEOUT", 30*time.Second),
			ProbeTimeout: gc.MayDuration("PROBE_TIMEOUT", 2*time.Second),
		},
	}
}

func merge(base, o Options) Options {
	if o.Placeholder != "" {
		base.Placeholder = o.Placeholder
	}
	if o.MaxBytes > 0 {
		base.MaxBytes = o.MaxBytes
	}
	g := o.Generator
	if g.BaseURL != "" {
		base.Generator.BaseURL = g.BaseURL
	}
	if g.Model != "" {
		base.Generator.Model = g.Model
	}
	if g.Temperature != nil {
		base.Generator.Temperature = g.Temperature
	}
	if g.MaxTokens > 0 {
		base.Generator.MaxTokens = g.MaxTokens
	}
	if g.Timeout > 0 {
		base.Generator.Timeout = g.Timeout
	}
	if g.ProbeTimeout > 0 {
		base.Generator.ProbeTimeout = g.ProbeTimeout
	}
	if g.HTTPClient != nil {
		base.Generator.HTTPClient = g.HTTPClient
	}
	return base
}
