package domain

import (
	"context"

	"rephraser/internal/core/denylist"
)

// Generator produces a completion for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Prober reports whether the generation service answers
type Prober interface {
	Ping(ctx context.Context) error
}

// TermSource hands out the denylist version a run works against
type TermSource interface {
	Snapshot() *denylist.Snapshot
}

// Recorder accepts finished reports for asynchronous persistence
// Submit never blocks and reports whether the report was queued
type Recorder interface {
	Submit(r Report) bool
}

// ServicePort is what the transport layers need
type ServicePort interface {
	Moderate(ctx context.Context, text string) (Report, error)
	Status(ctx context.Context) StatusResponse
}

// Ports are the collaborators the moderation module needs from other modules
// Recorder is optional
type Ports struct {
	Terms    TermSource
	Recorder Recorder
}
