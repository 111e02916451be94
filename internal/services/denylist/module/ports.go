package module

import (
	"rephraser/internal/core/denylist"
	moddom "rephraser/internal/services/moderation/domain"
)

// Ports exposes the live list to other modules
type Ports struct {
	// Terms hands out snapshots for the moderation pipeline
	Terms moddom.TermSource
	// Store is the writable list, used by tools that load it themselves
	Store *denylist.Store
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
