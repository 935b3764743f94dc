package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"prospector/internal/domain"
)

// Create inserts the campaign and its first PENDING scrape job in one
// transaction, so a campaign can never exist without a job waiting for the
// worker.
func (db *DB) CreateCampaign(ctx context.Context, name, query string, autoCallEnabled bool) (c domain.Campaign, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return c, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	c = domain.Campaign{
		ID:              uuid.NewString(),
		Name:            name,
		Query:           query,
		Status:          domain.CampaignActive,
		AutoCallEnabled: autoCallEnabled,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO campaigns (id, name, query, status, auto_call_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, c.ID, c.Name, c.Query, string(c.Status), c.AutoCallEnabled).Scan(&c.CreatedAt)
	if err != nil {
		return c, err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO scrape_jobs (id, campaign_id, query, status)
		VALUES ($1, $2, $3, 'PENDING')
	`, uuid.NewString(), c.ID, c.Query)
	return c, err
}

func (db *DB) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	var c domain.Campaign
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, query, status, auto_call_enabled, created_at
		FROM campaigns WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Query, (*string)(&c.Status), &c.AutoCallEnabled, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, domain.ErrNotFound
	}
	return c, err
}

func (db *DB) ListCampaigns(ctx context.Context) ([]domain.CampaignSummary, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT c.id, c.name, c.query, c.status, c.auto_call_enabled, c.created_at,
			(SELECT count(*) FROM leads l WHERE l.campaign_id = c.id),
			COALESCE((
				SELECT j.status FROM scrape_jobs j
				WHERE j.campaign_id = c.id
				ORDER BY j.created_at DESC LIMIT 1
			), '')
		FROM campaigns c
		ORDER BY c.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CampaignSummary
	for rows.Next() {
		var s domain.CampaignSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Query, (*string)(&s.Status),
			&s.AutoCallEnabled, &s.CreatedAt, &s.LeadCount, (*string)(&s.LastJobStatus)); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
