// Package scraper runs the scrape-job pipeline: fetch listings for a
// claimed job, drop duplicates against stored leads, qualify survivors and
// persist them, then drive the job to a terminal state.
package scraper

import (
	"context"
	"log"

	"prospector/internal/config"
	"prospector/internal/domain"
	"prospector/internal/ports"
	"prospector/internal/services/analyzer"
)

type Service struct {
	jobs       ports.JobRepository
	leads      ports.LeadRepository
	source     ports.ListingSource
	rules      config.Rules
	fetchLimit int
}

func New(jobs ports.JobRepository, leads ports.LeadRepository, source ports.ListingSource, rules config.Rules, fetchLimit int) *Service {
	if fetchLimit < 1 {
		fetchLimit = 20
	}
	return &Service{jobs: jobs, leads: leads, source: source, rules: rules, fetchLimit: fetchLimit}
}

// Process runs one already-claimed (PROCESSING) job to a terminal state.
// A provider failure fails the whole job; per-candidate failures are logged
// and the remaining candidates still run. The job's results count only ever
// reflects persisted leads, never fetched candidates.
func (s *Service) Process(ctx context.Context, job domain.ScrapeJob) domain.JobOutcome {
	out := domain.JobOutcome{JobID: job.ID}

	listings, err := s.source.Fetch(ctx, job.Query, s.fetchLimit)
	if err != nil {
		log.Printf("job %s: listing fetch failed: %v", job.ID, err)
		s.fail(ctx, job.ID, err.Error(), 0)
		out.Status = domain.JobFailed
		out.Error = err.Error()
		return out
	}

	saved := 0
	for _, l := range listings {
		if ctx.Err() != nil {
			// Leads persisted so far are committed; record the partial count.
			s.fail(ctx, job.ID, ctx.Err().Error(), saved)
			out.Status = domain.JobFailed
			out.ResultsCount = saved
			out.Error = ctx.Err().Error()
			return out
		}

		key, dup, err := s.leads.FindDuplicate(ctx, l)
		if err != nil {
			log.Printf("job %s: duplicate check failed for %q: %v", job.ID, l.Title, err)
			continue
		}
		if dup {
			log.Printf("job %s: skipping duplicate lead (%s match): %s", job.ID, key, l.Title)
			out.Skipped++
			continue
		}

		a := analyzer.Analyze(l, s.rules)
		if _, err := s.leads.CreateLead(ctx, job.CampaignID, l, a); err != nil {
			log.Printf("job %s: persist failed for %q: %v", job.ID, l.Title, err)
			continue
		}
		saved++
	}

	if err := s.jobs.Complete(ctx, job.ID, saved); err != nil {
		log.Printf("job %s: complete failed: %v", job.ID, err)
	}
	out.Status = domain.JobCompleted
	out.ResultsCount = saved
	return out
}

// fail records the terminal FAILED state. The write must survive a
// cancelled request context, hence WithoutCancel.
func (s *Service) fail(ctx context.Context, jobID, reason string, saved int) {
	if err := s.jobs.Fail(context.WithoutCancel(ctx), jobID, reason, saved); err != nil {
		log.Printf("job %s: fail transition error: %v", jobID, err)
	}
}
