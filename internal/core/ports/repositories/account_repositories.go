package repositories

import (
	"context"

	"github.com/kitaerp/glposting/internal/core/domain"
)

// AccountReader supplies read-only chart-of-accounts snapshots to the
// posting pipeline. Implementations own any I/O timeout; the engine itself
// has no cancellation semantics beyond the context it passes through.
type AccountReader interface {
	// GetAccountsInfo returns snapshots for the requested ids. Missing ids
	// are simply absent from the map; the caller decides how to fail.
	GetAccountsInfo(ctx context.Context, accountIDs []string) (map[string]domain.AccountSnapshot, error)
	// GetAllAccountsInfo returns every account in the chart. Used to compute
	// parent/child relationships for control-account checks.
	GetAllAccountsInfo(ctx context.Context) ([]domain.AccountSnapshot, error)
}
