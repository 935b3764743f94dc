package scraperunner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prospector/internal/domain"
)

type stubJobs struct {
	queue       []domain.ScrapeJob
	claimErr    error
	ensureErr   error
	ensured     int
	claimedWith int
}

func (s *stubJobs) ClaimNextBatch(_ context.Context, limit int, _ time.Duration) ([]domain.ScrapeJob, error) {
	if s.claimErr != nil {
		return nil, s.claimErr
	}
	s.claimedWith = limit
	n := limit
	if n > len(s.queue) {
		n = len(s.queue)
	}
	batch := s.queue[:n]
	s.queue = s.queue[n:]
	return batch, nil
}

func (s *stubJobs) GetJob(context.Context, string) (domain.ScrapeJob, error) {
	return domain.ScrapeJob{}, domain.ErrNotFound
}

func (s *stubJobs) Complete(context.Context, string, int) error { return nil }

func (s *stubJobs) Fail(context.Context, string, string, int) error { return nil }

func (s *stubJobs) EnsureJobsForActiveCampaigns(context.Context) (int, error) {
	if s.ensureErr != nil {
		return 0, s.ensureErr
	}
	s.ensured++
	return 2, nil
}

type stubProcessor struct {
	processed []string
}

func (p *stubProcessor) Process(_ context.Context, job domain.ScrapeJob) domain.JobOutcome {
	p.processed = append(p.processed, job.ID)
	return domain.JobOutcome{JobID: job.ID, Status: domain.JobCompleted, ResultsCount: 1}
}

func TestRunBatch_ProcessesClaimedJobsInOrder(t *testing.T) {
	jobs := &stubJobs{queue: []domain.ScrapeJob{
		{ID: "j1"}, {ID: "j2"}, {ID: "j3"},
	}}
	proc := &stubProcessor{}
	r := New(jobs, proc, 2, time.Minute)

	summary, err := r.RunBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed, "batch is bounded")
	assert.Equal(t, []string{"j1", "j2"}, proc.processed)
	assert.Equal(t, 2, jobs.claimedWith)
	assert.Equal(t, 1, jobs.ensured, "campaign job bootstrap runs before claiming")
	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, domain.JobCompleted, summary.Outcomes[0].Status)
}

func TestRunBatch_EmptyQueue(t *testing.T) {
	jobs := &stubJobs{}
	proc := &stubProcessor{}
	r := New(jobs, proc, 5, time.Minute)

	summary, err := r.RunBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.Processed)
	assert.Empty(t, proc.processed)
}

func TestRunBatch_ClaimErrorPropagates(t *testing.T) {
	jobs := &stubJobs{claimErr: errors.New("db down")}
	r := New(jobs, &stubProcessor{}, 5, time.Minute)

	_, err := r.RunBatch(context.Background())
	assert.Error(t, err)
}

func TestRunBatch_EnsureFailureIsNotFatal(t *testing.T) {
	jobs := &stubJobs{ensureErr: errors.New("insert failed"), queue: []domain.ScrapeJob{{ID: "j1"}}}
	proc := &stubProcessor{}
	r := New(jobs, proc, 5, time.Minute)

	summary, err := r.RunBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
}

func TestRunBatch_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	jobs := &stubJobs{queue: []domain.ScrapeJob{{ID: "j1"}, {ID: "j2"}}}
	proc := &stubProcessor{}
	r := New(jobs, proc, 5, time.Minute)

	summary, err := r.RunBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.Processed)
	assert.Empty(t, proc.processed)
}
