package loadtx

import (
	"context"

	"dispatcherhub/internal/domain"
)

// Repository is the set of load operations available inside a transaction.
type Repository interface {
	GetForUpdate(ctx context.Context, id int64) (*domain.Load, error)
	UpdateStatus(ctx context.Context, id int64, status domain.LoadStatus) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
