package campaigns

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospector/internal/domain"
)

type stubRepo struct {
	created []domain.Campaign
}

func (s *stubRepo) CreateCampaign(_ context.Context, name, query string, auto bool) (domain.Campaign, error) {
	c := domain.Campaign{ID: "camp-1", Name: name, Query: query, Status: domain.CampaignActive, AutoCallEnabled: auto}
	s.created = append(s.created, c)
	return c, nil
}

func (s *stubRepo) GetCampaign(_ context.Context, id string) (domain.Campaign, error) {
	return domain.Campaign{ID: id}, nil
}

func (s *stubRepo) ListCampaigns(context.Context) ([]domain.CampaignSummary, error) {
	return nil, nil
}

func TestCreate_TrimsAndStores(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	c, err := svc.Create(context.Background(), "  Austin Plumbers  ", " plumbers in austin ", true)
	require.NoError(t, err)
	assert.Equal(t, "Austin Plumbers", c.Name)
	assert.Equal(t, "plumbers in austin", c.Query)
	assert.True(t, c.AutoCallEnabled)
	assert.Len(t, repo.created, 1)
}

func TestCreate_RejectsBlankInput(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, nil)

	_, err := svc.Create(context.Background(), "", "plumbers", false)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), "Name", "   ", false)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, repo.created)
}
