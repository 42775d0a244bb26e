//go:generate mockgen -source=contracts.go -destination=loads_mocks_test.go -package=loads_test

package loads

import (
	"context"

	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/ports/loadtx"
)

// Repository defines the load storage operations the service needs.
type Repository interface {
	WithTx(ctx context.Context, fn func(tx loadtx.Repository) error) error
	List(ctx context.Context) ([]domain.Load, error)
	Create(ctx context.Context, l domain.NewLoad) (int64, error)
}
