package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"prospector/internal/domain"
	"prospector/internal/ports"
)

// Duplicate-check probes in priority order. Place id is provider-unique and
// most trustworthy, phone is usually unique per business, exact name match
// is the last-resort heuristic. First hit wins.
var dedupProbes = []struct {
	key   string
	query string
	value func(domain.Listing) string
}{
	{"place_id", `SELECT 1 FROM leads WHERE place_id = $1 LIMIT 1`, func(l domain.Listing) string { return l.PlaceID }},
	{"phone", `SELECT 1 FROM leads WHERE phone_number = $1 LIMIT 1`, func(l domain.Listing) string { return l.Phone }},
	{"name", `SELECT 1 FROM leads WHERE business_name = $1 LIMIT 1`, func(l domain.Listing) string { return l.Title }},
}

func (db *DB) FindDuplicate(ctx context.Context, l domain.Listing) (string, bool, error) {
	for _, probe := range dedupProbes {
		v := probe.value(l)
		if v == "" {
			continue
		}
		var one int
		err := db.Pool.QueryRow(ctx, probe.query, v).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return "", false, err
		}
		return probe.key, true, nil
	}
	return "", false, nil
}

func (db *DB) CreateLead(ctx context.Context, campaignID string, l domain.Listing, a domain.Analysis) (string, error) {
	id := uuid.NewString()
	weakPoints := a.WeakPoints
	if weakPoints == nil {
		weakPoints = []string{}
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO leads (id, campaign_id, business_name, place_id, phone_number,
			website, address, rating, review_count, status, weak_points, suggested_pitch)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, id, campaignID, l.Title, textOrNil(l.PlaceID), textOrNil(l.Phone),
		textOrNil(l.Website), textOrNil(l.Address), l.Rating, l.ReviewCount,
		string(domain.LeadNew), weakPoints, a.SuggestedPitch)
	if err != nil {
		return "", &domain.PersistenceError{Op: "insert lead", Err: err}
	}
	return id, nil
}

func (db *DB) ListLeads(ctx context.Context, f ports.LeadFilter) ([]domain.Lead, error) {
	q := `
		SELECT id, campaign_id, business_name, COALESCE(place_id, ''),
			COALESCE(phone_number, ''), COALESCE(website, ''), COALESCE(address, ''),
			COALESCE(rating, 0), COALESCE(review_count, 0), status, weak_points,
			suggested_pitch, created_at
		FROM leads`
	var args []any
	var where []string
	if f.CampaignID != "" {
		args = append(args, f.CampaignID)
		where = append(where, fmt.Sprintf("campaign_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, w := range where {
		if i == 0 {
			q += " WHERE " + w
		} else {
			q += " AND " + w
		}
	}
	args = append(args, f.Limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	q += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.ID, &l.CampaignID, &l.BusinessName, &l.PlaceID,
			&l.PhoneNumber, &l.Website, &l.Address, &l.Rating, &l.ReviewCount,
			(*string)(&l.Status), &l.WeakPoints, &l.SuggestedPitch, &l.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func textOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
