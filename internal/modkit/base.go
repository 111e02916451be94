package modkit

import (
	"net/http"

	"rephraser/internal/modkit/httpkit"
	str "rephraser/internal/platform/strings"
)

// Option adjusts a module's Base
type Option func(*Base)

// Base is embedded by modules and carries what every module shares:
// its name, its route prefix, its middleware and the ports handed in by the caller
type Base struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	in     any
}

// WithMiddlewares appends middleware applied to the module's routes only
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mw = append(b.mw, mw...) }
}

// WithPorts hands the module the ports it consumes from other modules
func WithPorts[T any](p T) Option { return func(b *Base) { b.in = p } }

// Build returns a Base named name under prefix, then applies opts
func Build(name, prefix string, opts ...Option) Base {
	b := Base{name: name, prefix: prefix}
	for _, o := range opts {
		o(&b)
	}
	return b
}

// Name returns the module name
func (b Base) Name() string { return str.MustString(b.name, "module name") }

// Prefix returns the route prefix
func (b Base) Prefix() string { return str.MustPrefix(b.prefix) }

// Injected returns what WithPorts handed in, nil when nothing was
func (b Base) Injected() any { return b.in }

// Mount registers the module's routes under its prefix behind its middleware
func (b Base) Mount(r httpkit.Router, register func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix(), b.mw, register)
}
