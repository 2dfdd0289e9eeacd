package repositories

import (
	"context"
	"fmt"

	"crm-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository is the append-only activity log. There is no update
// and no delete; rows only ever accumulate.
type ActivityRepository struct {
	DB *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) AppendActivity(ctx context.Context, a *models.Activity) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO activities (entity_kind, entity_id, activity_type, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		a.EntityKind, a.EntityID, a.Type, a.Payload,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListActivities(ctx context.Context, kind models.EntityKind, entityID, limit, offset int) ([]*models.Activity, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, entity_kind, entity_id, activity_type, payload, created_at
		FROM activities
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`,
		kind, entityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return collectActivities(rows)
}

func (r *ActivityRepository) ListRecentActivities(ctx context.Context, kind models.EntityKind, limit, offset int) ([]*models.Activity, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, entity_kind, entity_id, activity_type, payload, created_at
		FROM activities
		WHERE entity_kind = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}
	return collectActivities(rows)
}

func (r *ActivityRepository) CountActivities(ctx context.Context, kind models.EntityKind) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE entity_kind = $1`, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return n, nil
}

func (r *ActivityRepository) CountEntityActivities(ctx context.Context, kind models.EntityKind, entityID int) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM activities WHERE entity_kind = $1 AND entity_id = $2`,
		kind, entityID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entity activities: %w", err)
	}
	return n, nil
}

func collectActivities(rows pgx.Rows) ([]*models.Activity, error) {
	defer rows.Close()
	var acts []*models.Activity
	for rows.Next() {
		a := &models.Activity{}
		if err := rows.Scan(&a.ID, &a.EntityKind, &a.EntityID, &a.Type, &a.Payload, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}
