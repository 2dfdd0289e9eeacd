package repositories

import (
	"context"
	"errors"
	"fmt"

	"crm-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactRepository struct {
	DB *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{DB: db}
}

const contactColumns = `id, name, COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(company, ''), COALESCE(notes, ''), created_at, updated_at, deleted_at`

func scanContact(row pgx.Row) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}
	return c, nil
}

func (r *ContactRepository) GetContact(ctx context.Context, id int) (*models.Contact, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanContact(row)
}

func (r *ContactRepository) CreateContact(ctx context.Context, c *models.Contact) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO contacts (name, email, phone, company, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Email, c.Phone, c.Company, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, c *models.Contact) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE contacts SET name = $1, email = $2, phone = $3, company = $4, notes = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL`,
		c.Name, c.Email, c.Phone, c.Company, c.Notes, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) ListContacts(ctx context.Context, limit, offset int) ([]*models.Contact, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM contacts WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+contactColumns+` FROM contacts
		 WHERE deleted_at IS NULL ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, c)
	}
	return contacts, total, rows.Err()
}
