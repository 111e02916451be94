// Package domain defines the report persistence ports
package domain

import (
	"context"
	"time"

	moddom "rephraser/internal/services/moderation/domain"
)

// Report is the persisted moderation record
type Report = moddom.Report

// Sink persists one report somewhere
type Sink interface {
	Name() string
	Write(ctx context.Context, r Report) error
}

// RecorderPort queues reports for the sinks and drains on Close
type RecorderPort interface {
	moddom.Recorder
	Close(ctx context.Context) error
}

// Summary is one line of the report history
type Summary struct {
	ID        string    `json:"id"         example:"8b7c1d2e-5f9a-4c3b-9e21-1f0a7d6c5b4e"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-02T03:04:05.006Z"`
	Changes   int       `json:"changes"    example:"1"`
}

// ReaderPort serves stored reports, only available with postgres
type ReaderPort interface {
	Recent(ctx context.Context, limit int) ([]Summary, error)
	Get(ctx context.Context, id string) (Report, error)
}
