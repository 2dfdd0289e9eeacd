package repositories

import (
	"context"
	"errors"
	"fmt"

	"crm-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	DB *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{DB: db}
}

const bookingColumns = `id, contact_id, service, price, status, starts_at, ends_at,
	COALESCE(notes, ''), created_at, updated_at, deleted_at`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(&b.ID, &b.ContactID, &b.Service, &b.Price, &b.Status,
		&b.StartsAt, &b.EndsAt, &b.Notes, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id int) (*models.Booking, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanBooking(row)
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b *models.Booking) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO bookings (contact_id, service, price, status, starts_at, ends_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		b.ContactID, b.Service, b.Price, b.Status, b.StartsAt, b.EndsAt, b.Notes,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) UpdateBooking(ctx context.Context, b *models.Booking) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE bookings SET service = $1, price = $2, status = $3, starts_at = $4,
			ends_at = $5, notes = $6, updated_at = NOW()
		WHERE id = $7 AND deleted_at IS NULL`,
		b.Service, b.Price, b.Status, b.StartsAt, b.EndsAt, b.Notes, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *BookingRepository) ListBookings(ctx context.Context, limit, offset int) ([]*models.Booking, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		 WHERE deleted_at IS NULL ORDER BY starts_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, total, rows.Err()
}
