//go:generate mockgen -source=contracts.go -destination=invoices_mocks_test.go -package=invoices_test

package invoices

import (
	"context"
	"time"

	"dispatcherhub/internal/domain"
)

// Repository defines invoice storage operations.
type Repository interface {
	List(ctx context.Context) ([]domain.Invoice, error)
	CreateForLoad(ctx context.Context, loadID int64, amount float64, factoring bool) error
	MarkPaid(ctx context.Context, loadID int64, at time.Time) (bool, error)
}
