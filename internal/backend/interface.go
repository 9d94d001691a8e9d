package backend

import (
	"context"

	"saba/internal/services"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the ledger wired to its record store and an
// optional cleanup function.
type BackendResult struct {
	Ledger  *services.Ledger
	Cleanup CleanupFunc
	// Ready reports whether the record store can serve requests.
	Ready func(ctx context.Context) error
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}
