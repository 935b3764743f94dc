package campaigns

import (
	"context"
	"errors"
	"strings"

	"prospector/internal/domain"
	"prospector/internal/ports"
)

var ErrInvalidInput = errors.New("name and query are required")

type Service struct {
	campaigns ports.CampaignRepository
	jobs      ports.JobRepository
}

func New(campaigns ports.CampaignRepository, jobs ports.JobRepository) *Service {
	return &Service{campaigns: campaigns, jobs: jobs}
}

// Create stores an ACTIVE campaign. The repository inserts the campaign and
// its initial PENDING scrape job atomically, so the worker never has to
// compensate for a campaign without a job.
func (s *Service) Create(ctx context.Context, name, query string, autoCallEnabled bool) (domain.Campaign, error) {
	name = strings.TrimSpace(name)
	query = strings.TrimSpace(query)
	if name == "" || query == "" {
		return domain.Campaign{}, ErrInvalidInput
	}
	return s.campaigns.CreateCampaign(ctx, name, query, autoCallEnabled)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Campaign, error) {
	return s.campaigns.GetCampaign(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.CampaignSummary, error) {
	return s.campaigns.ListCampaigns(ctx)
}

func (s *Service) Job(ctx context.Context, jobID string) (domain.ScrapeJob, error) {
	return s.jobs.GetJob(ctx, jobID)
}
