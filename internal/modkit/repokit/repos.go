// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"rephraser/internal/platform/store"
)

// Queryer is the minimal read and write surface for SQL repos
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

// WithTx runs fn inside a transaction when q can open one, otherwise directly on q
func WithTx(ctx context.Context, q Queryer, fn func(q Queryer) error) error {
	if tx, ok := q.(TxRunner); ok {
		return tx.Tx(ctx, fn)
	}
	return fn(q)
}
