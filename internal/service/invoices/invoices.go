package invoices

import (
	"context"
	"errors"
	"time"

	"dispatcherhub/internal/apperr"
	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/metrics"
)

// Service - read side of the invoices table.
type Service struct {
	repo             Repository
	operationTimeout time.Duration
}

// NewService creates an invoices Service.
func NewService(repo Repository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{repo: repo, operationTimeout: timeout}
}

// List returns all invoices ordered by id.
func (s *Service) List(ctx context.Context) ([]domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()
	return s.repo.List(ctx)
}

// Invoicer turns load status events into invoice rows.
type Invoicer struct {
	repo             Repository
	factoring        bool
	metrics          *metrics.Domain
	logger           logx.Logger
	operationTimeout time.Duration
}

// NewInvoicer creates an Invoicer. factoring is stamped on every invoice it creates.
func NewInvoicer(repo Repository, factoring bool, m *metrics.Domain, logger logx.Logger, timeout time.Duration) *Invoicer {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Invoicer{
		repo:             repo,
		factoring:        factoring,
		metrics:          m,
		logger:           logger,
		operationTimeout: timeout,
	}
}

// Handle applies a single status change. Statuses other than invoiced and
// paid are ignored.
func (i *Invoicer) Handle(ctx context.Context, e domain.LoadStatusChanged) error {
	ctx, cancel := context.WithTimeout(ctx, i.operationTimeout)
	defer cancel()

	switch e.To {
	case domain.StatusInvoiced:
		err := i.repo.CreateForLoad(ctx, e.LoadID, e.Rate, i.factoring)
		if errors.Is(err, apperr.ErrConflict) {
			i.logger.Debug("invoice already exists", logx.Int64("load_id", e.LoadID))
			return nil
		}
		if err != nil {
			return err
		}
		if i.metrics != nil {
			i.metrics.InvoicesCreated.Inc()
		}
		i.logger.Info("invoice created",
			logx.String("event", "invoice_created"),
			logx.Int64("load_id", e.LoadID),
			logx.Float64("amount", e.Rate),
		)
	case domain.StatusPaid:
		at := e.ChangedAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		paid, err := i.repo.MarkPaid(ctx, e.LoadID, at)
		if err != nil {
			return err
		}
		if !paid {
			i.logger.Debug("no unpaid invoice for load", logx.Int64("load_id", e.LoadID))
		}
	}
	return nil
}
