package ports

import (
	"context"

	"roadside/internal/core/domain/model/kernel"
	"roadside/internal/core/domain/model/provider"
)

// ProviderRepository defines the persistence contract for provider
// aggregates, including the geo candidate search dispatch runs.
type ProviderRepository interface {
	// Add persists a new provider aggregate to storage.
	Add(ctx context.Context, aggregate *provider.Provider) error

	// Update persists changes to an existing provider aggregate.
	Update(ctx context.Context, aggregate *provider.Provider) error

	// Get retrieves a provider aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such provider exists.
	Get(ctx context.Context, id kernel.UUID) (*provider.Provider, error)

	// FindNearby runs the geo candidate search: online, approved providers
	// of the query's role within the radius, matching its requirement tags,
	// minus its excluded set, ordered nearest first up to the limit.
	FindNearby(ctx context.Context, query provider.NearbyQuery) ([]provider.Candidate, error)

	// ClearPushTokens removes the given dead push tokens from whichever
	// providers hold them. Returns the number of providers updated.
	ClearPushTokens(ctx context.Context, tokens []string) (int64, error)
}
