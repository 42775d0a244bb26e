//go:generate mockgen -source=contracts.go -destination=dispatch_mocks_test.go -package=dispatch_test

package dispatch

import (
	"context"

	"dispatcherhub/internal/domain"
)

// Gateway is the AI dispatch API as the panel uses it.
type Gateway interface {
	Health(ctx context.Context) error
	ListLoads(ctx context.Context) ([]domain.DispatchLoad, error)
	CreateLoad(ctx context.Context, l domain.NewDispatchLoad) error
	SetStatus(ctx context.Context, id string, status domain.DispatchStatus) error
	ETA(ctx context.Context, from, to domain.LatLon) (domain.ETA, error)
	Route(ctx context.Context, from, to domain.LatLon) (domain.Route, error)
	SendFeedback(ctx context.Context, f domain.Feedback) error
}
