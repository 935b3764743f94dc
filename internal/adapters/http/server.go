// Package httpadapter exposes the service over HTTP: a secret-guarded
// worker trigger for external schedulers and a small key-authenticated JSON
// API for campaigns, leads and jobs.
package httpadapter

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"prospector/internal/domain"
	"prospector/internal/ports"
)

// Campaigns is the campaign service surface the server needs.
type Campaigns interface {
	Create(ctx context.Context, name, query string, autoCallEnabled bool) (domain.Campaign, error)
	Get(ctx context.Context, id string) (domain.Campaign, error)
	List(ctx context.Context) ([]domain.CampaignSummary, error)
	Job(ctx context.Context, jobID string) (domain.ScrapeJob, error)
}

// Leads is the lead service surface the server needs.
type Leads interface {
	List(ctx context.Context, f ports.LeadFilter) ([]domain.Lead, error)
	Create(ctx context.Context, campaignID string, l domain.Listing) (string, error)
}

// BatchRunner processes one worker batch; backed by the scrape runner.
type BatchRunner interface {
	RunBatch(ctx context.Context) (domain.RunSummary, error)
}

// SiteFetcher extracts a website text profile.
type SiteFetcher interface {
	Profile(ctx context.Context, rawURL string) (domain.SiteProfile, error)
}

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	campaigns Campaigns
	leads     Leads
	runner    BatchRunner
	sites     SiteFetcher
	db        Pinger

	workerSecret string
	apiKey       string
}

func New(campaigns Campaigns, leads Leads, runner BatchRunner, sites SiteFetcher, db Pinger, workerSecret, apiKey string) *Server {
	return &Server{
		campaigns:    campaigns,
		leads:        leads,
		runner:       runner,
		sites:        sites,
		db:           db,
		workerSecret: workerSecret,
		apiKey:       apiKey,
	}
}

// Routes returns the chi router for the whole HTTP surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.With(s.requireWorkerSecret).Post("/worker/run", s.handleWorkerRun)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Post("/campaigns", s.handleCreateCampaign)
		r.Get("/campaigns", s.handleListCampaigns)
		r.Get("/campaigns/{id}/leads", s.handleCampaignLeads)
		r.Get("/leads", s.handleListLeads)
		r.Post("/leads", s.handleCreateLead)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Post("/site-profile", s.handleSiteProfile)
	})
	return r
}

// requireWorkerSecret guards the scheduler trigger with a bearer token. An
// empty configured secret disables the check for local development.
func (s *Server) requireWorkerSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.workerSecret != "" && r.Header.Get("Authorization") != "Bearer "+s.workerSecret {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != s.apiKey || s.apiKey == "" {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
