package domain

import "time"

// Core domain models used internally. HTTP request/response shapes live in
// the http adapter; keep these decoupled where helpful.

// JobStatus is the lifecycle state of a scrape job.
type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobProcessing JobStatus = "PROCESSING"
	JobCompleted  JobStatus = "COMPLETED"
	JobFailed     JobStatus = "FAILED"
)

// Terminal reports whether no further transitions are allowed.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// LeadStatus tracks a lead through the outreach funnel.
type LeadStatus string

const (
	LeadNew         LeadStatus = "NEW"
	LeadContacted   LeadStatus = "CONTACTED"
	LeadQualified   LeadStatus = "QUALIFIED"
	LeadUnqualified LeadStatus = "UNQUALIFIED"
	LeadWon         LeadStatus = "WON"
	LeadLost        LeadStatus = "LOST"
)

// CampaignStatus gates whether the worker synthesizes jobs for a campaign.
type CampaignStatus string

const (
	CampaignActive CampaignStatus = "ACTIVE"
	CampaignPaused CampaignStatus = "PAUSED"
)

type Campaign struct {
	ID              string
	Name            string
	Query           string
	Status          CampaignStatus
	AutoCallEnabled bool
	CreatedAt       time.Time
}

// CampaignSummary is a campaign plus aggregates for list views.
type CampaignSummary struct {
	Campaign
	LeadCount     int
	LastJobStatus JobStatus
}

// ScrapeJob ties a search query to a campaign and tracks one scrape run.
type ScrapeJob struct {
	ID           string
	CampaignID   string
	Query        string
	Status       JobStatus
	ResultsCount *int
	Error        string
	Attempts     int
	ClaimedAt    *time.Time
	CreatedAt    time.Time
	ProcessedAt  *time.Time
}

// LeaseExpired reports whether a PROCESSING job's claim has gone stale and
// may be reclaimed by another worker pass.
func (j *ScrapeJob) LeaseExpired(lease time.Duration, now time.Time) bool {
	if j.Status != JobProcessing || j.ClaimedAt == nil {
		return false
	}
	return now.Sub(*j.ClaimedAt) > lease
}

// Listing is an unpersisted search result for one query. It never hits the
// database; survivors of the duplicate check become Leads.
type Listing struct {
	Title       string
	PlaceID     string
	Address     string
	Phone       string
	Website     string
	Rating      float64
	ReviewCount int
	Category    string
}

// Lead is a persisted candidate business eligible for sales contact.
type Lead struct {
	ID             string
	CampaignID     string
	BusinessName   string
	PlaceID        string
	PhoneNumber    string
	Website        string
	Address        string
	Rating         float64
	ReviewCount    int
	Status         LeadStatus
	WeakPoints     []string
	SuggestedPitch string
	CreatedAt      time.Time
}

// Analysis is the rule-based qualification verdict for one listing.
type Analysis struct {
	Qualified      bool
	WeakPoints     []string
	SuggestedPitch string
}

// JobOutcome summarizes one processed job for the worker trigger response.
type JobOutcome struct {
	JobID        string
	Status       JobStatus
	ResultsCount int
	Skipped      int
	Error        string
}

// RunSummary is the result of one worker batch pass.
type RunSummary struct {
	Processed int
	Outcomes  []JobOutcome
}

// SiteProfile is the extracted text profile of a lead's website.
type SiteProfile struct {
	URL         string
	Domain      string
	Title       string
	Description string
	Text        string
}
