package serpapi

import (
	"context"
	"fmt"
	"strings"

	"prospector/internal/domain"
)

// SyntheticSource produces a small deterministic set of placeholder
// listings for local development when no SerpAPI key is configured. It is
// selected at wiring time instead of the real client, never alongside it.
type SyntheticSource struct{}

func NewSynthetic() SyntheticSource { return SyntheticSource{} }

func (SyntheticSource) Name() string { return "synthetic" }

func (SyntheticSource) Fetch(_ context.Context, query string, limit int) ([]domain.Listing, error) {
	n := limit
	if n > 5 {
		n = 5
	}
	tag := query
	if fields := strings.Fields(query); len(fields) > 0 {
		tag = fields[0]
	}
	listings := make([]domain.Listing, 0, n)
	for i := 0; i < n; i++ {
		l := domain.Listing{
			Title:       fmt.Sprintf("Mock Business %d - %s", i+1, tag),
			Address:     fmt.Sprintf("%d Main St, Austin, TX", 100+i),
			Phone:       fmt.Sprintf("+1 555-000-%d", 1000+i),
			Rating:      3.5 + float64(i)*0.3,
			ReviewCount: 10 + i*15,
			Category:    "Service",
		}
		if i%2 == 0 {
			l.Website = fmt.Sprintf("https://mockbusiness%d.com", i+1)
		}
		listings = append(listings, l)
	}
	return listings, nil
}
