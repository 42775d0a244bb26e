package loads

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"dispatcherhub/internal/apperr"
	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/events"
	"dispatcherhub/internal/logx"
	"dispatcherhub/internal/metrics"
	"dispatcherhub/internal/ports/loadtx"
)

// InvalidInputMessage is shown when a new load fails validation.
const InvalidInputMessage = "Please enter origin, destination, and a valid rate."

// CreateLoadInput is the raw form input for a new load.
type CreateLoadInput struct {
	Origin      string
	Destination string
	Rate        string
	Status      domain.LoadStatus
}

// Options tune the service.
type Options struct {
	Timeout           time.Duration
	StrictTransitions bool
}

// Service - loads table business logic.
type Service struct {
	repo             Repository
	publisher        events.Publisher
	metrics          *metrics.Domain
	logger           logx.Logger
	operationTimeout time.Duration
	strict           bool
	now              func() time.Time
}

// NewService creates a loads Service. A nil publisher drops events and nil
// metrics disables counting.
func NewService(repo Repository, publisher events.Publisher, m *metrics.Domain, logger logx.Logger, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	if publisher == nil {
		publisher = events.Nop()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             repo,
		publisher:        publisher,
		metrics:          m,
		logger:           logger,
		operationTimeout: opts.Timeout,
		strict:           opts.StrictTransitions,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// List returns all loads ordered by id.
func (s *Service) List(ctx context.Context) ([]domain.Load, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx)
}

// Create validates the input and stores a new load.
func (s *Service) Create(ctx context.Context, in CreateLoadInput) (int64, error) {
	nl, err := validateCreate(in)
	if err != nil {
		return 0, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id, err := s.repo.Create(ctx, nl)
	if err != nil {
		return 0, err
	}

	s.logger.Info("load created",
		logx.String("event", "load_created"),
		logx.Int64("load_id", id),
		logx.Float64("rate", nl.Rate),
		logx.String("status", nl.Status.String()),
	)
	return id, nil
}

func validateCreate(in CreateLoadInput) (domain.NewLoad, error) {
	origin := strings.TrimSpace(in.Origin)
	destination := strings.TrimSpace(in.Destination)
	rate, ok := parseRate(in.Rate)
	if origin == "" || destination == "" || !ok {
		return domain.NewLoad{}, apperr.Validation(InvalidInputMessage)
	}

	status := in.Status
	if status == "" {
		status = domain.StatusBooked
	}
	if !status.Valid() {
		return domain.NewLoad{}, apperr.Validation(fmt.Sprintf("Unknown status %q.", status))
	}

	return domain.NewLoad{
		Origin:      origin,
		Destination: destination,
		Rate:        rate,
		Status:      status,
	}, nil
}

func parseRate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// UpdateStatus moves a load to status and returns the updated load.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.LoadStatus) (domain.Load, error) {
	if id <= 0 || !status.Valid() {
		return domain.Load{}, apperr.ErrInvalid
	}

	var updated domain.Load
	var from domain.LoadStatus

	err := func() error {
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()

		return s.repo.WithTx(ctx, func(tx loadtx.Repository) error {
			l, err := tx.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if l == nil {
				return apperr.ErrNotFound
			}
			from = l.Status
			if s.strict && from != status && !from.CanTransitionTo(status) {
				return fmt.Errorf("%w: %s -> %s", apperr.ErrIllegalTransition, from, status)
			}
			if err := tx.UpdateStatus(ctx, id, status); err != nil {
				return err
			}
			l.Status = status
			updated = *l
			return nil
		})
	}()
	if err != nil {
		return domain.Load{}, err
	}

	s.logger.Info("load status updated",
		logx.String("event", "load_status_changed"),
		logx.Int64("load_id", id),
		logx.String("from", from.String()),
		logx.String("to", status.String()),
	)

	if from == status {
		return updated, nil
	}
	if s.metrics != nil {
		s.metrics.LoadStatusChanges.WithLabelValues(from.String(), status.String()).Inc()
	}
	s.publish(ctx, domain.LoadStatusChanged{
		LoadID:    id,
		From:      from,
		To:        status,
		Rate:      updated.Rate,
		ChangedAt: s.now(),
	})
	return updated, nil
}

// MarkDelivered is the quick action for UpdateStatus(id, delivered).
func (s *Service) MarkDelivered(ctx context.Context, id int64) (domain.Load, error) {
	return s.UpdateStatus(ctx, id, domain.StatusDelivered)
}

func (s *Service) publish(ctx context.Context, e domain.LoadStatusChanged) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		if s.metrics != nil {
			s.metrics.EventPublishFailures.Inc()
		}
		s.logger.Error("publish load status event failed",
			logx.Int64("load_id", e.LoadID),
			logx.String("to", e.To.String()),
			logx.Err(err),
		)
	}
}
