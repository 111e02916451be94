// Package modkit provides module wiring and core deps
package modkit

import (
	"rephraser/internal/modkit/repokit"
	"rephraser/internal/platform/config"
	"rephraser/internal/platform/logger"
	"rephraser/internal/platform/metrics"
)

// Deps holds core dependencies passed to modules
// PG and Metrics are optional and nil when disabled
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	Metrics *metrics.Registry
}

// HasPG reports whether a postgres seam is wired
func (d Deps) HasPG() bool { return d.PG != nil }
