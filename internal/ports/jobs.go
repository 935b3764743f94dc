package ports

import (
	"context"
	"time"

	"prospector/internal/domain"
)

// JobRepository supports claiming and transitioning scrape jobs.
// Claims are lease-based: a PROCESSING job whose claim is older than the
// lease may be reclaimed, so a crashed worker does not strand its batch.
type JobRepository interface {
	ClaimNextBatch(ctx context.Context, limit int, lease time.Duration) ([]domain.ScrapeJob, error)
	GetJob(ctx context.Context, jobID string) (domain.ScrapeJob, error)
	Complete(ctx context.Context, jobID string, resultsCount int) error
	Fail(ctx context.Context, jobID string, reason string, resultsCount int) error
	// EnsureJobsForActiveCampaigns synthesizes a PENDING job for every ACTIVE
	// campaign that has no live job, returning how many were created.
	EnsureJobsForActiveCampaigns(ctx context.Context) (int, error)
}
