package leads

import (
	"context"
	"errors"
	"strings"

	"prospector/internal/domain"
	"prospector/internal/ports"
)

var ErrInvalidInput = errors.New("businessName and campaignId are required")

const defaultLimit = 50

type Service struct {
	leads ports.LeadRepository
}

func New(leads ports.LeadRepository) *Service { return &Service{leads: leads} }

func (s *Service) List(ctx context.Context, f ports.LeadFilter) ([]domain.Lead, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	return s.leads.ListLeads(ctx, f)
}

// Create inserts a manually supplied lead. Unlike pipeline persists it is
// not duplicate-checked; the caller is taking responsibility for the data.
func (s *Service) Create(ctx context.Context, campaignID string, l domain.Listing) (string, error) {
	if strings.TrimSpace(l.Title) == "" || strings.TrimSpace(campaignID) == "" {
		return "", ErrInvalidInput
	}
	return s.leads.CreateLead(ctx, campaignID, l, domain.Analysis{WeakPoints: []string{}})
}
