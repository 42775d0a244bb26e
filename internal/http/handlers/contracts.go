package handlers

import (
	"context"

	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/service/dispatch"
	"dispatcherhub/internal/service/loads"
)

// LoadsUsecase is the loads table as the API uses it.
type LoadsUsecase interface {
	List(ctx context.Context) ([]domain.Load, error)
	Create(ctx context.Context, in loads.CreateLoadInput) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.LoadStatus) (domain.Load, error)
	MarkDelivered(ctx context.Context, id int64) (domain.Load, error)
}

// InvoicesUsecase is the read side of invoices.
type InvoicesUsecase interface {
	List(ctx context.Context) ([]domain.Invoice, error)
}

// DispatchUsecase is the AI dispatch panel.
type DispatchUsecase interface {
	Health(ctx context.Context) string
	Loads(ctx context.Context) ([]domain.DispatchLoad, error)
	Seed(ctx context.Context) (dispatch.SeedResult, error)
	SetStatus(ctx context.Context, id string, status domain.DispatchStatus) (dispatch.StatusResult, error)
	Route(ctx context.Context, from, to domain.LatLon) (dispatch.RouteResult, error)
	Feedback(ctx context.Context, loadID string, v domain.Verdict) error
}
