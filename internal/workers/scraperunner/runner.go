// Package scraperunner drives the scrape pipeline: it claims bounded
// batches of pending jobs and processes them one at a time. The same batch
// pass backs both the background loop and the HTTP worker trigger.
package scraperunner

import (
	"context"
	"log"
	"time"

	"prospector/internal/domain"
	"prospector/internal/ports"
)

// Processor runs one claimed job to a terminal state.
type Processor interface {
	Process(ctx context.Context, job domain.ScrapeJob) domain.JobOutcome
}

type Runner struct {
	jobs      ports.JobRepository
	processor Processor
	batchSize int
	lease     time.Duration
}

func New(jobs ports.JobRepository, processor Processor, batchSize int, lease time.Duration) *Runner {
	if batchSize < 1 {
		batchSize = 5
	}
	return &Runner{jobs: jobs, processor: processor, batchSize: batchSize, lease: lease}
}

// RunBatch performs one worker pass: synthesize jobs for active campaigns
// that lost theirs, claim the next batch of pending (or lease-expired) jobs
// in creation order, and process each sequentially.
func (r *Runner) RunBatch(ctx context.Context) (domain.RunSummary, error) {
	created, err := r.jobs.EnsureJobsForActiveCampaigns(ctx)
	if err != nil {
		// Bootstrapping is compensation, not a hard dependency; keep going.
		log.Printf("worker: ensure jobs failed: %v", err)
	} else if created > 0 {
		log.Printf("worker: created %d jobs for campaigns without one", created)
	}

	jobs, err := r.jobs.ClaimNextBatch(ctx, r.batchSize, r.lease)
	if err != nil {
		return domain.RunSummary{}, err
	}

	summary := domain.RunSummary{Outcomes: make([]domain.JobOutcome, 0, len(jobs))}
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		summary.Outcomes = append(summary.Outcomes, r.processor.Process(ctx, job))
		summary.Processed++
	}
	return summary, nil
}

// Run polls for work until the context is cancelled.
func (r *Runner) Run(ctx context.Context, pollInterval time.Duration) {
	log.Printf("worker started, polling every %s", pollInterval)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("worker shutting down")
			return
		case <-ticker.C:
			summary, err := r.RunBatch(ctx)
			if err != nil {
				log.Printf("worker: batch error: %v", err)
				continue
			}
			for _, o := range summary.Outcomes {
				if o.Status == domain.JobFailed {
					log.Printf("worker: job %s failed: %s", o.JobID, o.Error)
				} else {
					log.Printf("worker: job %s completed, %d leads, %d duplicates skipped", o.JobID, o.ResultsCount, o.Skipped)
				}
			}
		}
	}
}
