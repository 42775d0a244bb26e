package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"dispatcherhub/internal/apperr"
	"dispatcherhub/internal/domain"
)

// InvoiceRepo represents invoice repository.
type InvoiceRepo struct{ db *pgxpool.Pool }

// NewInvoiceRepo creates a new InvoiceRepo.
func NewInvoiceRepo(db *pgxpool.Pool) *InvoiceRepo { return &InvoiceRepo{db: db} }

// List returns every invoice ordered by id.
func (r *InvoiceRepo) List(ctx context.Context) ([]domain.Invoice, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, load_id, amount, factoring, paid_at, created_at
        FROM invoices
        ORDER BY id ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Invoice, 0)
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.LoadID, &inv.Amount, &inv.Factoring, &inv.PaidAt, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// CreateForLoad inserts the invoice of a load. A load that already has one
// yields apperr.ErrConflict.
func (r *InvoiceRepo) CreateForLoad(ctx context.Context, loadID int64, amount float64, factoring bool) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO invoices (load_id, amount, factoring)
        VALUES ($1, $2, $3)
    `, loadID, amount, factoring)
	switch {
	case err == nil:
		return nil
	case IsDuplicate(err):
		return fmt.Errorf("create invoice for load %d: %w", loadID, apperr.ErrConflict)
	case IsForeignKey(err):
		return fmt.Errorf("create invoice for load %d: load does not exist: %w", loadID, err)
	default:
		return fmt.Errorf("create invoice for load %d: %w", loadID, err)
	}
}

// MarkPaid stamps paid_at on the invoice of a load that is not paid yet.
func (r *InvoiceRepo) MarkPaid(ctx context.Context, loadID int64, at time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE invoices
        SET paid_at = $2
        WHERE load_id = $1 AND paid_at IS NULL
    `, loadID, at)
	if err != nil {
		return false, fmt.Errorf("mark invoice paid for load %d: %w", loadID, err)
	}
	return ct.RowsAffected() > 0, nil
}
