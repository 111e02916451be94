package module

import (
	modkit "rephraser/internal/modkit"
	mmodule "rephraser/internal/modkit/module"
	dom "rephraser/internal/services/moderation/domain"
)

// WithDepsModules pulls the term source and, when present, the report recorder
// out of other modules so main never touches their port types
func WithDepsModules(terms mmodule.Module, reports mmodule.Module) modkit.Option {
	p := dom.Ports{Terms: mmodule.MustPortsOf[dom.TermSource](terms)}
	if reports != nil {
		if rec, ok := mmodule.PortsOf[dom.Recorder](reports); ok {
			p.Recorder = rec
		}
	}
	return modkit.WithPorts(p)
}
