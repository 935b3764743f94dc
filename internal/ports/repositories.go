package ports

import (
	"context"

	"prospector/internal/domain"
)

// CampaignRepository stores campaigns. Create also inserts the campaign's
// initial PENDING scrape job in the same transaction.
type CampaignRepository interface {
	CreateCampaign(ctx context.Context, name, query string, autoCallEnabled bool) (domain.Campaign, error)
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
	ListCampaigns(ctx context.Context) ([]domain.CampaignSummary, error)
}

// LeadFilter narrows lead listings; zero values mean "no filter".
type LeadFilter struct {
	CampaignID string
	Status     domain.LeadStatus
	Limit      int
	Offset     int
}

// LeadRepository stores leads and answers duplicate checks against them.
type LeadRepository interface {
	// FindDuplicate checks the listing against stored leads in key priority
	// order: place id, then phone number, then exact business name. The
	// returned key names the first match and is empty when none matched.
	FindDuplicate(ctx context.Context, l domain.Listing) (key string, found bool, err error)
	CreateLead(ctx context.Context, campaignID string, l domain.Listing, a domain.Analysis) (leadID string, err error)
	ListLeads(ctx context.Context, f LeadFilter) ([]domain.Lead, error)
}
