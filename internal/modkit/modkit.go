package modkit

import (
	"context"

	"rephraser/internal/modkit/module"
)

// Module is what the api mounts
type Module = module.Module

// Lifecycle is implemented by modules that own background work
// Start runs once after wiring, Close drains and releases on shutdown
type Lifecycle interface {
	Start(ctx context.Context) error
	Close(ctx context.Context) error
}
