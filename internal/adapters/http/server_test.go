package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospector/internal/domain"
	"prospector/internal/ports"
	"prospector/internal/services/campaigns"
)

type stubCampaigns struct {
	created  domain.Campaign
	job      domain.ScrapeJob
	jobErr   error
	summary  []domain.CampaignSummary
	getErr   error
	createAs error
}

func (s *stubCampaigns) Create(_ context.Context, name, query string, auto bool) (domain.Campaign, error) {
	if s.createAs != nil {
		return domain.Campaign{}, s.createAs
	}
	s.created = domain.Campaign{ID: "camp-1", Name: name, Query: query, Status: domain.CampaignActive, AutoCallEnabled: auto, CreatedAt: time.Now()}
	return s.created, nil
}

func (s *stubCampaigns) Get(_ context.Context, id string) (domain.Campaign, error) {
	if s.getErr != nil {
		return domain.Campaign{}, s.getErr
	}
	return domain.Campaign{ID: id}, nil
}

func (s *stubCampaigns) List(context.Context) ([]domain.CampaignSummary, error) {
	return s.summary, nil
}

func (s *stubCampaigns) Job(context.Context, string) (domain.ScrapeJob, error) {
	return s.job, s.jobErr
}

type stubLeads struct {
	gotFilter ports.LeadFilter
	leads     []domain.Lead
	createErr error
}

func (s *stubLeads) List(_ context.Context, f ports.LeadFilter) ([]domain.Lead, error) {
	s.gotFilter = f
	return s.leads, nil
}

func (s *stubLeads) Create(context.Context, string, domain.Listing) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	return "lead-1", nil
}

type stubRunner struct {
	summary domain.RunSummary
	calls   int
}

func (s *stubRunner) RunBatch(context.Context) (domain.RunSummary, error) {
	s.calls++
	return s.summary, nil
}

type stubSites struct{}

func (stubSites) Profile(_ context.Context, rawURL string) (domain.SiteProfile, error) {
	return domain.SiteProfile{URL: rawURL, Title: "stub"}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestServer(c *stubCampaigns, l *stubLeads, r *stubRunner) http.Handler {
	return New(c, l, r, stubSites{}, okPinger{}, "worker-secret", "api-key").Routes()
}

func TestWorkerRun_RequiresSecret(t *testing.T) {
	runner := &stubRunner{}
	h := newTestServer(&stubCampaigns{}, &stubLeads{}, runner)

	req := httptest.NewRequest(http.MethodPost, "/worker/run", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, runner.calls, "batch must not run unauthenticated")

	req = httptest.NewRequest(http.MethodPost, "/worker/run", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWorkerRun_ReturnsBatchSummary(t *testing.T) {
	runner := &stubRunner{summary: domain.RunSummary{
		Processed: 2,
		Outcomes: []domain.JobOutcome{
			{JobID: "j1", Status: domain.JobCompleted, ResultsCount: 3, Skipped: 1},
			{JobID: "j2", Status: domain.JobFailed, Error: "serpapi: boom"},
		},
	}}
	h := newTestServer(&stubCampaigns{}, &stubLeads{}, runner)

	req := httptest.NewRequest(http.MethodPost, "/worker/run", nil)
	req.Header.Set("Authorization", "Bearer worker-secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp runResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Processed)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "COMPLETED", resp.Results[0].Status)
	assert.Equal(t, 3, resp.Results[0].ResultsCount)
	assert.Equal(t, "FAILED", resp.Results[1].Status)
	assert.Equal(t, "serpapi: boom", resp.Results[1].Error)
}

func TestV1_RequiresAPIKey(t *testing.T) {
	h := newTestServer(&stubCampaigns{}, &stubLeads{}, &stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCampaign(t *testing.T) {
	stub := &stubCampaigns{}
	h := newTestServer(stub, &stubLeads{}, &stubRunner{})

	body := `{"name":"Austin Plumbers","query":"plumbers in austin","autoCallEnabled":true}`
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns", strings.NewReader(body))
	req.Header.Set("X-API-Key", "api-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp campaignResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "camp-1", resp.ID)
	assert.Equal(t, "plumbers in austin", resp.Query)
	assert.True(t, resp.AutoCallEnabled)
}

func TestCreateCampaign_InvalidInput(t *testing.T) {
	stub := &stubCampaigns{createAs: campaigns.ErrInvalidInput}
	h := newTestServer(stub, &stubLeads{}, &stubRunner{})

	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns", strings.NewReader(`{"name":""}`))
	req.Header.Set("X-API-Key", "api-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLeads_PassesFilter(t *testing.T) {
	leads := &stubLeads{}
	h := newTestServer(&stubCampaigns{}, leads, &stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/leads?campaignId=camp-9&status=NEW&limit=10&offset=20", nil)
	req.Header.Set("X-API-Key", "api-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "camp-9", leads.gotFilter.CampaignID)
	assert.Equal(t, domain.LeadStatus("NEW"), leads.gotFilter.Status)
	assert.Equal(t, 10, leads.gotFilter.Limit)
	assert.Equal(t, 20, leads.gotFilter.Offset)
}

func TestGetJob_NotFound(t *testing.T) {
	stub := &stubCampaigns{jobErr: domain.ErrNotFound}
	h := newTestServer(stub, &stubLeads{}, &stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/nope", nil)
	req.Header.Set("X-API-Key", "api-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJob_ReturnsFailureDetails(t *testing.T) {
	count := 4
	stub := &stubCampaigns{job: domain.ScrapeJob{
		ID: "j1", CampaignID: "c1", Query: "q", Status: domain.JobFailed,
		ResultsCount: &count, Error: "serpapi: request failed", CreatedAt: time.Now(),
	}}
	h := newTestServer(stub, &stubLeads{}, &stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/j1", nil)
	req.Header.Set("X-API-Key", "api-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FAILED", resp.Status)
	require.NotNil(t, resp.ResultsCount)
	assert.Equal(t, 4, *resp.ResultsCount, "partial progress is reported even on failure")
	assert.NotEmpty(t, resp.Error)
}

func TestHealthz(t *testing.T) {
	h := newTestServer(&stubCampaigns{}, &stubLeads{}, &stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSiteProfile_RequiresURL(t *testing.T) {
	h := newTestServer(&stubCampaigns{}, &stubLeads{}, &stubRunner{})

	req := httptest.NewRequest(http.MethodPost, "/v1/site-profile", strings.NewReader(`{}`))
	req.Header.Set("X-API-Key", "api-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
