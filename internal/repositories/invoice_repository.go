package repositories

import (
	"context"
	"errors"
	"fmt"

	"crm-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// InvoiceRepository persists the invoice aggregate. Every mutation runs in
// one transaction and bumps the invoice's version column; callers pass the
// version they read and get models.ErrStaleVersion when it moved.
type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `id, contact_id, booking_id, invoice_number, issue_date, due_date,
	tax_rate_percent, subtotal, tax_amount, total, amount_paid, amount_due,
	status, version, created_at, updated_at, deleted_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := row.Scan(
		&inv.ID, &inv.ContactID, &inv.BookingID, &inv.InvoiceNumber,
		&inv.IssueDate, &inv.DueDate, &inv.TaxRate, &inv.Subtotal,
		&inv.TaxAmount, &inv.Total, &inv.AmountPaid, &inv.AmountDue,
		&inv.Status, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt, &inv.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepository) GetInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND deleted_at IS NULL`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepository) GetInvoiceByBooking(ctx context.Context, bookingID int) (*models.Invoice, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE booking_id = $1 AND deleted_at IS NULL`, bookingID)
	inv, err := scanInvoice(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepository) ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, int64, error) {
	var total int64
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		 WHERE deleted_at IS NULL ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	for _, inv := range invoices {
		if err := r.loadLineItems(ctx, inv); err != nil {
			return nil, 0, err
		}
	}
	return invoices, total, nil
}

func (r *InvoiceRepository) loadLineItems(ctx context.Context, inv *models.Invoice) error {
	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, description, quantity, unit_price, total, sort_order
		 FROM invoice_line_items WHERE invoice_id = $1 ORDER BY sort_order, id`, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to load line items: %w", err)
	}
	defer rows.Close()

	inv.LineItems = nil
	for rows.Next() {
		var li models.LineItem
		if err := rows.Scan(&li.ID, &li.InvoiceID, &li.Description, &li.Quantity,
			&li.UnitPrice, &li.Total, &li.SortOrder); err != nil {
			return fmt.Errorf("failed to scan line item: %w", err)
		}
		inv.LineItems = append(inv.LineItems, li)
	}
	return rows.Err()
}

// CreateInvoice inserts the invoice, its line items and its creation
// activities in one transaction. A duplicate booking reference surfaces as
// models.ErrConflict via the unique index.
func (r *InvoiceRepository) CreateInvoice(ctx context.Context, inv *models.Invoice, acts []*models.Activity) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (contact_id, booking_id, invoice_number, issue_date, due_date,
			tax_rate_percent, subtotal, tax_amount, total, amount_paid, amount_due, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, version, created_at, updated_at`,
		inv.ContactID, inv.BookingID, inv.InvoiceNumber, inv.IssueDate, inv.DueDate,
		inv.TaxRate, inv.Subtotal, inv.TaxAmount, inv.Total, inv.AmountPaid, inv.AmountDue, inv.Status,
	).Scan(&inv.ID, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	for i := range inv.LineItems {
		li := &inv.LineItems[i]
		li.InvoiceID = inv.ID
		if err := insertLineItem(ctx, tx, li); err != nil {
			return err
		}
	}

	for _, a := range acts {
		a.EntityID = inv.ID
	}
	if err := insertActivities(ctx, tx, acts); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateInvoice updates the invoice header row (dates, tax rate, totals,
// status, soft-delete marker) with a version check and appends activities.
func (r *InvoiceRepository) UpdateInvoice(ctx context.Context, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := updateInvoiceRow(ctx, tx, inv, expectedVersion); err != nil {
		return err
	}
	if err := insertActivities(ctx, tx, acts); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *InvoiceRepository) AddLineItem(ctx context.Context, item *models.LineItem, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertLineItem(ctx, tx, item); err != nil {
		return err
	}
	if err := updateInvoiceRow(ctx, tx, inv, expectedVersion); err != nil {
		return err
	}
	if err := insertActivities(ctx, tx, acts); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	// refresh the copy appended by the service with the generated ID
	for i := range inv.LineItems {
		if inv.LineItems[i].ID == 0 && inv.LineItems[i].SortOrder == item.SortOrder {
			inv.LineItems[i].ID = item.ID
		}
	}
	return nil
}

func (r *InvoiceRepository) UpdateLineItem(ctx context.Context, item *models.LineItem, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE invoice_line_items SET description = $1, quantity = $2, unit_price = $3, total = $4
		WHERE id = $5 AND invoice_id = $6`,
		item.Description, item.Quantity, item.UnitPrice, item.Total, item.ID, item.InvoiceID)
	if err != nil {
		return fmt.Errorf("failed to update line item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	if err := updateInvoiceRow(ctx, tx, inv, expectedVersion); err != nil {
		return err
	}
	if err := insertActivities(ctx, tx, acts); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *InvoiceRepository) DeleteLineItem(ctx context.Context, itemID int, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM invoice_line_items WHERE id = $1 AND invoice_id = $2`, itemID, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to delete line item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	if err := updateInvoiceRow(ctx, tx, inv, expectedVersion); err != nil {
		return err
	}
	if err := insertActivities(ctx, tx, acts); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreatePayment applies a payment: the payment insert, the invoice update
// and the activity inserts commit together or not at all.
func (r *InvoiceRepository) CreatePayment(ctx context.Context, p *models.Payment, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var key *string
	if p.IdempotencyKey != "" {
		key = &p.IdempotencyKey
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (invoice_id, amount, method, reference, notes, idempotency_key, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		p.InvoiceID, p.Amount, p.Method, p.Reference, p.Notes, key, p.PaidAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	if err := updateInvoiceRow(ctx, tx, inv, expectedVersion); err != nil {
		return err
	}
	if err := insertActivities(ctx, tx, acts); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *InvoiceRepository) DeletePayment(ctx context.Context, paymentID int, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM payments WHERE id = $1 AND invoice_id = $2`, paymentID, inv.ID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	if err := updateInvoiceRow(ctx, tx, inv, expectedVersion); err != nil {
		return err
	}
	if err := insertActivities(ctx, tx, acts); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const paymentColumns = `id, invoice_id, amount, method, COALESCE(reference, ''),
	COALESCE(notes, ''), COALESCE(idempotency_key, ''), paid_at, created_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Method, &p.Reference,
		&p.Notes, &p.IdempotencyKey, &p.PaidAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return p, nil
}

func (r *InvoiceRepository) GetPayment(ctx context.Context, invoiceID, paymentID int) (*models.Payment, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 AND invoice_id = $2`, paymentID, invoiceID)
	return scanPayment(row)
}

func (r *InvoiceRepository) GetPaymentByKey(ctx context.Context, invoiceID int, idempotencyKey string) (*models.Payment, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE invoice_id = $1 AND idempotency_key = $2`,
		invoiceID, idempotencyKey)
	return scanPayment(row)
}

func (r *InvoiceRepository) ListPayments(ctx context.Context, invoiceID int) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE invoice_id = $1 ORDER BY paid_at DESC, id DESC`,
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// updateInvoiceRow writes every caller-mutable invoice column, guarded by
// the version check that makes concurrent writers safe.
func updateInvoiceRow(ctx context.Context, tx pgx.Tx, inv *models.Invoice, expectedVersion int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE invoices SET issue_date = $1, due_date = $2, tax_rate_percent = $3,
			subtotal = $4, tax_amount = $5, total = $6, amount_paid = $7, amount_due = $8,
			status = $9, deleted_at = $10, version = version + 1, updated_at = NOW()
		WHERE id = $11 AND version = $12 AND (deleted_at IS NULL OR $10 IS NOT NULL)`,
		inv.IssueDate, inv.DueDate, inv.TaxRate, inv.Subtotal, inv.TaxAmount,
		inv.Total, inv.AmountPaid, inv.AmountDue, inv.Status, inv.DeletedAt,
		inv.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrStaleVersion
	}
	inv.Version = expectedVersion + 1
	return nil
}

func insertLineItem(ctx context.Context, tx pgx.Tx, li *models.LineItem) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO invoice_line_items (invoice_id, description, quantity, unit_price, total, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		li.InvoiceID, li.Description, li.Quantity, li.UnitPrice, li.Total, li.SortOrder,
	).Scan(&li.ID)
	if err != nil {
		return fmt.Errorf("failed to insert line item: %w", err)
	}
	return nil
}

func insertActivities(ctx context.Context, tx pgx.Tx, acts []*models.Activity) error {
	for _, a := range acts {
		err := tx.QueryRow(ctx, `
			INSERT INTO activities (entity_kind, entity_id, activity_type, payload)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			a.EntityKind, a.EntityID, a.Type, a.Payload,
		).Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert activity: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
