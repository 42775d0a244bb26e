package web

import (
	"context"

	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/service/dispatch"
	"dispatcherhub/internal/service/loads"
)

// LoadsUsecase is what the loads page needs.
type LoadsUsecase interface {
	List(ctx context.Context) ([]domain.Load, error)
	Create(ctx context.Context, in loads.CreateLoadInput) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.LoadStatus) (domain.Load, error)
	MarkDelivered(ctx context.Context, id int64) (domain.Load, error)
}

// InvoicesUsecase is what the invoices page needs.
type InvoicesUsecase interface {
	List(ctx context.Context) ([]domain.Invoice, error)
}

// DispatchUsecase is what the AI dispatch page needs.
type DispatchUsecase interface {
	Health(ctx context.Context) string
	Loads(ctx context.Context) ([]domain.DispatchLoad, error)
	Seed(ctx context.Context) (dispatch.SeedResult, error)
	SetStatus(ctx context.Context, id string, status domain.DispatchStatus) (dispatch.StatusResult, error)
	RouteFor(ctx context.Context, l domain.DispatchLoad) (dispatch.RouteResult, error)
	Feedback(ctx context.Context, loadID string, v domain.Verdict) error
}

// AuthUsecase is the sign-in flow.
type AuthUsecase interface {
	SignInWithOTP(ctx context.Context, email, redirectTo string) error
	Verify(ctx context.Context, token string) (*domain.Session, error)
	Session(ctx context.Context, token string) (*domain.Session, error)
	SignOut(ctx context.Context, token string) error
	Subscribe() (<-chan domain.SessionChange, func())
}
