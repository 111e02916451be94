package module

import dom "rephraser/internal/services/moderation/domain"

// Ports exposed by the moderation module
type Ports struct {
	Service dom.ServicePort
	// Prober is the generator availability check, used by readiness
	Prober dom.Prober
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
