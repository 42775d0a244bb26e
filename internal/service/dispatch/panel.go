package dispatch

import (
	"context"
	"fmt"
	"strings"

	"dispatcherhub/internal/apperr"
	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/inflight"
	"dispatcherhub/internal/logx"
)

// Action kinds guarded by the in-flight set. Reads are not guarded.
const (
	ActionSeed      = "seed"
	ActionSetStatus = "set_status"
)

// Health labels.
const (
	HealthOK   = "OK"
	HealthDown = "DOWN"
)

// SeedLoads are the demo loads created by Seed, in order.
var SeedLoads = []domain.NewDispatchLoad{
	{Pickup: domain.LatLon{Lat: 41.8781, Lon: -87.6298}, Drop: domain.LatLon{Lat: 39.7392, Lon: -104.9903}},
	{Pickup: domain.LatLon{Lat: 34.0522, Lon: -118.2437}, Drop: domain.LatLon{Lat: 36.1699, Lon: -115.1398}},
}

// SeedResult reports what Seed did.
type SeedResult struct {
	Created int
	Failed  []error
	Loads   []domain.DispatchLoad
}

// StatusResult reports what SetStatus did. Failed holds the update error;
// Loads is the list fetched afterwards either way.
type StatusResult struct {
	Failed error
	Loads  []domain.DispatchLoad
}

// RouteResult is the ETA plus the path in map order.
type RouteResult struct {
	ETA  domain.ETA
	Line []domain.LatLon
}

// Panel runs the AI dispatch panel actions.
type Panel struct {
	gw       Gateway
	inflight *inflight.Set
	logger   logx.Logger
}

// NewPanel creates a Panel.
func NewPanel(gw Gateway, set *inflight.Set, logger logx.Logger) *Panel {
	if set == nil {
		set = inflight.New()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Panel{gw: gw, inflight: set, logger: logger}
}

func (p *Panel) acquire(kind string) (func(), error) {
	release, ok := p.inflight.TryAcquire(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperr.ErrBusy, kind)
	}
	return release, nil
}

// Health reports "OK" or "DOWN". It never fails.
func (p *Panel) Health(ctx context.Context) string {
	if err := p.gw.Health(ctx); err != nil {
		p.logger.Debug("dispatch api health check failed", logx.Err(err))
		return HealthDown
	}
	return HealthOK
}

// Loads lists the API loads. On failure the list is nil.
func (p *Panel) Loads(ctx context.Context) ([]domain.DispatchLoad, error) {
	loads, err := p.gw.ListLoads(ctx)
	if err != nil {
		return nil, err
	}
	return loads, nil
}

// Seed creates the two demo loads one after the other and then lists once.
// Create failures are collected, not returned.
func (p *Panel) Seed(ctx context.Context) (SeedResult, error) {
	release, err := p.acquire(ActionSeed)
	if err != nil {
		return SeedResult{}, err
	}
	defer release()

	var res SeedResult
	for _, l := range SeedLoads {
		if err := p.gw.CreateLoad(ctx, l); err != nil {
			p.logger.Warn("seed load failed", logx.Err(err))
			res.Failed = append(res.Failed, err)
			continue
		}
		res.Created++
	}

	res.Loads, err = p.Loads(ctx)
	return res, err
}

// SetStatus moves a load to in_transit or delivered and lists again, also
// when the update itself failed. The returned error is the list error.
func (p *Panel) SetStatus(ctx context.Context, id string, status domain.DispatchStatus) (StatusResult, error) {
	id = strings.TrimSpace(id)
	if id == "" || !status.Settable() {
		return StatusResult{}, apperr.ErrInvalid
	}

	release, err := p.acquire(ActionSetStatus)
	if err != nil {
		return StatusResult{}, err
	}
	defer release()

	var res StatusResult
	if err := p.gw.SetStatus(ctx, id, status); err != nil {
		p.logger.Warn("dispatch status update failed",
			logx.String("load_id", id),
			logx.String("status", string(status)),
			logx.Err(err),
		)
		res.Failed = err
	}

	res.Loads, err = p.Loads(ctx)
	return res, err
}

// Route fetches the ETA then the route between two points. Any failure
// returns an empty result. Lookups run concurrently.
func (p *Panel) Route(ctx context.Context, from, to domain.LatLon) (RouteResult, error) {
	if !from.Valid() || !to.Valid() {
		return RouteResult{}, apperr.ErrInvalid
	}

	eta, err := p.gw.ETA(ctx, from, to)
	if err != nil {
		return RouteResult{}, err
	}
	route, err := p.gw.Route(ctx, from, to)
	if err != nil {
		return RouteResult{}, err
	}
	return RouteResult{ETA: eta, Line: route.LatLngs()}, nil
}

// RouteFor is Route from the pickup to the drop of l.
func (p *Panel) RouteFor(ctx context.Context, l domain.DispatchLoad) (RouteResult, error) {
	return p.Route(ctx, l.Pickup, l.Drop)
}

// Feedback sends a verdict for a load. Delivery failures are logged and
// dropped.
func (p *Panel) Feedback(ctx context.Context, loadID string, v domain.Verdict) error {
	loadID = strings.TrimSpace(loadID)
	if loadID == "" || !v.Valid() {
		return apperr.ErrInvalid
	}
	err := p.gw.SendFeedback(ctx, domain.Feedback{
		LoadID:  loadID,
		Verdict: v,
		Reason:  "ui",
		Score:   v.Score(),
	})
	if err != nil {
		p.logger.Debug("copilot feedback dropped",
			logx.String("load_id", loadID),
			logx.String("verdict", string(v)),
			logx.Err(err),
		)
	}
	return nil
}
