package ports

import (
	"context"

	"prospector/internal/domain"
)

// ListingSource fetches candidate business listings for a search query,
// capped at limit. Implementations must return a *domain.ProviderError when
// the upstream is unreachable or errors.
type ListingSource interface {
	Name() string
	Fetch(ctx context.Context, query string, limit int) ([]domain.Listing, error)
}
