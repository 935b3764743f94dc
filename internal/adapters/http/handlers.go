package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"prospector/internal/domain"
	"prospector/internal/ports"
	"prospector/internal/services/campaigns"
	"prospector/internal/services/leads"
)

type errorResponse struct {
	Error string `json:"error"`
}

type campaignResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Query           string `json:"query"`
	Status          string `json:"status"`
	AutoCallEnabled bool   `json:"autoCallEnabled"`
	CreatedAt       string `json:"createdAt"`
	LeadCount       *int   `json:"leadCount,omitempty"`
	LastJobStatus   string `json:"lastJobStatus,omitempty"`
}

type leadResponse struct {
	ID             string   `json:"id"`
	CampaignID     string   `json:"campaignId"`
	BusinessName   string   `json:"businessName"`
	PlaceID        string   `json:"placeId,omitempty"`
	PhoneNumber    string   `json:"phoneNumber,omitempty"`
	Website        string   `json:"website,omitempty"`
	Address        string   `json:"address,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	ReviewCount    int      `json:"reviewCount,omitempty"`
	Status         string   `json:"status"`
	WeakPoints     []string `json:"weakPoints"`
	SuggestedPitch string   `json:"suggestedPitch"`
	CreatedAt      string   `json:"createdAt"`
}

type jobResponse struct {
	ID           string `json:"id"`
	CampaignID   string `json:"campaignId"`
	Query        string `json:"query"`
	Status       string `json:"status"`
	ResultsCount *int   `json:"resultsCount,omitempty"`
	Error        string `json:"error,omitempty"`
	Attempts     int    `json:"attempts"`
	CreatedAt    string `json:"createdAt"`
	ProcessedAt  string `json:"processedAt,omitempty"`
}

type jobOutcomeResponse struct {
	JobID        string `json:"jobId"`
	Status       string `json:"status"`
	ResultsCount int    `json:"resultsCount"`
	Skipped      int    `json:"skipped"`
	Error        string `json:"error,omitempty"`
}

type runResponse struct {
	Processed int                  `json:"processed"`
	Results   []jobOutcomeResponse `json:"results"`
}

type siteProfileResponse struct {
	URL         string `json:"url"`
	Domain      string `json:"domain"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Text        string `json:"text"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWorkerRun(w http.ResponseWriter, r *http.Request) {
	summary, err := s.runner.RunBatch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := runResponse{Processed: summary.Processed, Results: make([]jobOutcomeResponse, 0, len(summary.Outcomes))}
	for _, o := range summary.Outcomes {
		out.Results = append(out.Results, jobOutcomeResponse{
			JobID:        o.JobID,
			Status:       string(o.Status),
			ResultsCount: o.ResultsCount,
			Skipped:      o.Skipped,
			Error:        o.Error,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		Query           string `json:"query"`
		AutoCallEnabled bool   `json:"autoCallEnabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := s.campaigns.Create(r.Context(), req.Name, req.Query, req.AutoCallEnabled)
	if err != nil {
		if errors.Is(err, campaigns.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toCampaignResponse(c, nil, ""))
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.campaigns.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]campaignResponse, 0, len(summaries))
	for _, cs := range summaries {
		n := cs.LeadCount
		out = append(out, toCampaignResponse(cs.Campaign, &n, string(cs.LastJobStatus)))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) handleCampaignLeads(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.campaigns.Get(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "campaign not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.listLeads(w, r, id)
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	s.listLeads(w, r, r.URL.Query().Get("campaignId"))
}

func (s *Server) listLeads(w http.ResponseWriter, r *http.Request, campaignID string) {
	q := r.URL.Query()
	f := ports.LeadFilter{
		CampaignID: campaignID,
		Status:     domain.LeadStatus(q.Get("status")),
		Limit:      intParam(q.Get("limit"), 50),
		Offset:     intParam(q.Get("offset"), 0),
	}
	ls, err := s.leads.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]leadResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, toLeadResponse(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": out,
		"meta": map[string]int{"limit": f.Limit, "offset": f.Offset},
	})
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessName string  `json:"businessName"`
		CampaignID   string  `json:"campaignId"`
		PhoneNumber  string  `json:"phoneNumber"`
		Website      string  `json:"website"`
		Address      string  `json:"address"`
		Rating       float64 `json:"rating"`
		ReviewCount  int     `json:"reviewCount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := s.leads.Create(r.Context(), req.CampaignID, domain.Listing{
		Title:       req.BusinessName,
		Phone:       req.PhoneNumber,
		Website:     req.Website,
		Address:     req.Address,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
	})
	if err != nil {
		if errors.Is(err, leads.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.campaigns.Job(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := jobResponse{
		ID:           job.ID,
		CampaignID:   job.CampaignID,
		Query:        job.Query,
		Status:       string(job.Status),
		ResultsCount: job.ResultsCount,
		Error:        job.Error,
		Attempts:     job.Attempts,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
	}
	if job.ProcessedAt != nil {
		resp.ProcessedAt = job.ProcessedAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSiteProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	p, err := s.sites.Profile(r.Context(), req.URL)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, siteProfileResponse{
		URL:         p.URL,
		Domain:      p.Domain,
		Title:       p.Title,
		Description: p.Description,
		Text:        p.Text,
	})
}

func toCampaignResponse(c domain.Campaign, leadCount *int, lastJob string) campaignResponse {
	return campaignResponse{
		ID:              c.ID,
		Name:            c.Name,
		Query:           c.Query,
		Status:          string(c.Status),
		AutoCallEnabled: c.AutoCallEnabled,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
		LeadCount:       leadCount,
		LastJobStatus:   lastJob,
	}
}

func toLeadResponse(l domain.Lead) leadResponse {
	wp := l.WeakPoints
	if wp == nil {
		wp = []string{}
	}
	return leadResponse{
		ID:             l.ID,
		CampaignID:     l.CampaignID,
		BusinessName:   l.BusinessName,
		PlaceID:        l.PlaceID,
		PhoneNumber:    l.PhoneNumber,
		Website:        l.Website,
		Address:        l.Address,
		Rating:         l.Rating,
		ReviewCount:    l.ReviewCount,
		Status:         string(l.Status),
		WeakPoints:     wp,
		SuggestedPitch: l.SuggestedPitch,
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
	}
}

func intParam(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
