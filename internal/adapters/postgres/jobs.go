package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"prospector/internal/domain"
)

const jobColumns = `id, campaign_id, query, status, results_count,
	COALESCE(error, ''), attempts, claimed_at, created_at, processed_at`

// ClaimNextBatch locks up to limit claimable jobs with SKIP LOCKED and
// transitions them to PROCESSING in one transaction. Claimable means
// PENDING, or PROCESSING with a claim older than the lease (a crashed or
// stuck worker); the lease guard is what keeps two overlapping triggers
// from double-processing a live job.
func (db *DB) ClaimNextBatch(ctx context.Context, limit int, lease time.Duration) (jobs []domain.ScrapeJob, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	rows, err := tx.Query(ctx, `
		SELECT `+jobColumns+`
		FROM scrape_jobs
		WHERE status = 'PENDING'
		   OR (status = 'PROCESSING' AND claimed_at < now() - make_interval(secs => $2))
		ORDER BY created_at
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, limit, lease.Seconds())
	if err != nil {
		return nil, err
	}
	jobs, err = scanJobs(rows)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	now := time.Now()
	if _, err = tx.Exec(ctx, `
		UPDATE scrape_jobs
		SET status = 'PROCESSING', claimed_at = now(), attempts = attempts + 1
		WHERE id = ANY($1::uuid[])
	`, ids); err != nil {
		return nil, err
	}
	for i := range jobs {
		jobs[i].Status = domain.JobProcessing
		jobs[i].ClaimedAt = &now
		jobs[i].Attempts++
	}
	return jobs, nil
}

func (db *DB) GetJob(ctx context.Context, jobID string) (domain.ScrapeJob, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM scrape_jobs WHERE id = $1`, jobID)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ScrapeJob{}, domain.ErrNotFound
	}
	return job, err
}

// Complete transitions PROCESSING -> COMPLETED. The status guard makes the
// transition a no-op when another worker already finished the job.
func (db *DB) Complete(ctx context.Context, jobID string, resultsCount int) error {
	ct, err := db.Pool.Exec(ctx, `
		UPDATE scrape_jobs
		SET status = 'COMPLETED', results_count = $2, processed_at = now()
		WHERE id = $1 AND status = 'PROCESSING'
	`, jobID, resultsCount)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotClaimable
	}
	return nil
}

// Fail transitions PROCESSING -> FAILED. Leads persisted before the failure
// are committed, so the partial count is recorded for operators even though
// the job is failed.
func (db *DB) Fail(ctx context.Context, jobID string, reason string, resultsCount int) error {
	ct, err := db.Pool.Exec(ctx, `
		UPDATE scrape_jobs
		SET status = 'FAILED', error = $2, results_count = $3, processed_at = now()
		WHERE id = $1 AND status = 'PROCESSING'
	`, jobID, reason, resultsCount)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotClaimable
	}
	return nil
}

// EnsureJobsForActiveCampaigns inserts a PENDING job for every ACTIVE
// campaign without a live one. Campaign creation already inserts the first
// job atomically; this covers campaigns whose jobs got deleted or that were
// created through other paths.
func (db *DB) EnsureJobsForActiveCampaigns(ctx context.Context) (int, error) {
	ct, err := db.Pool.Exec(ctx, `
		INSERT INTO scrape_jobs (id, campaign_id, query, status)
		SELECT gen_random_uuid(), c.id, c.query, 'PENDING'
		FROM campaigns c
		WHERE c.status = 'ACTIVE'
		  AND NOT EXISTS (
			SELECT 1 FROM scrape_jobs j
			WHERE j.campaign_id = c.id AND j.status IN ('PENDING', 'PROCESSING')
		  )
	`)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func scanJob(row pgx.Row) (domain.ScrapeJob, error) {
	var j domain.ScrapeJob
	err := row.Scan(&j.ID, &j.CampaignID, &j.Query, (*string)(&j.Status), &j.ResultsCount,
		&j.Error, &j.Attempts, &j.ClaimedAt, &j.CreatedAt, &j.ProcessedAt)
	return j, err
}

func scanJobs(rows pgx.Rows) ([]domain.ScrapeJob, error) {
	defer rows.Close()
	var jobs []domain.ScrapeJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
