package repositories

import (
	"context"
	"errors"
	"fmt"

	"crm-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnquiryRepository struct {
	DB *pgxpool.Pool
}

func NewEnquiryRepository(db *pgxpool.Pool) *EnquiryRepository {
	return &EnquiryRepository{DB: db}
}

const enquiryColumns = `id, contact_id, subject, stage, COALESCE(source, ''),
	COALESCE(notes, ''), created_at, updated_at, deleted_at`

func scanEnquiry(row pgx.Row) (*models.Enquiry, error) {
	e := &models.Enquiry{}
	err := row.Scan(&e.ID, &e.ContactID, &e.Subject, &e.Stage, &e.Source, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan enquiry: %w", err)
	}
	return e, nil
}

func (r *EnquiryRepository) GetEnquiry(ctx context.Context, id int) (*models.Enquiry, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+enquiryColumns+` FROM enquiries WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanEnquiry(row)
}

func (r *EnquiryRepository) CreateEnquiry(ctx context.Context, e *models.Enquiry) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO enquiries (contact_id, subject, stage, source, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		e.ContactID, e.Subject, e.Stage, e.Source, e.Notes,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create enquiry: %w", err)
	}
	return nil
}

func (r *EnquiryRepository) UpdateEnquiry(ctx context.Context, e *models.Enquiry) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE enquiries SET subject = $1, stage = $2, source = $3, notes = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL`,
		e.Subject, e.Stage, e.Source, e.Notes, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update enquiry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *EnquiryRepository) ListEnquiries(ctx context.Context, limit, offset int) ([]*models.Enquiry, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM enquiries WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count enquiries: %w", err)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+enquiryColumns+` FROM enquiries
		 WHERE deleted_at IS NULL ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list enquiries: %w", err)
	}
	defer rows.Close()

	var enquiries []*models.Enquiry
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, 0, err
		}
		enquiries = append(enquiries, e)
	}
	return enquiries, total, rows.Err()
}
