package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"dispatcherhub/internal/domain"
)

// HTTPError is a non-2xx answer from the dispatch API.
type HTTPError struct {
	StatusCode int
	StatusText string
}

func (e *HTTPError) Error() string {
	return strconv.Itoa(e.StatusCode) + " " + e.StatusText
}

// Client talks to the AI dispatch API over HTTP.
type Client struct {
	baseURL  string
	http     *http.Client
	requests *prometheus.CounterVec
}

// NewClient creates a Client. A zero timeout sets no deadline; a nil counter
// disables request counting.
func NewClient(baseURL string, timeout time.Duration, requests *prometheus.CounterVec) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		requests: requests,
	}
}

// BaseURL returns the API root the client calls.
func (c *Client) BaseURL() string { return c.baseURL }

// Health checks the API. Any 2xx is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", nil, nil)
}

// ListLoads returns the loads known to the API.
func (c *Client) ListLoads(ctx context.Context) ([]domain.DispatchLoad, error) {
	var resp listLoadsResponse
	if err := c.do(ctx, "list_loads", http.MethodGet, "/loads", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.DispatchLoad, 0, len(resp.Loads))
	for _, l := range resp.Loads {
		out = append(out, l.toDomain())
	}
	return out, nil
}

// CreateLoad creates a load on the API.
func (c *Client) CreateLoad(ctx context.Context, l domain.NewDispatchLoad) error {
	return c.do(ctx, "create_load", http.MethodPost, "/loads", createLoadRequest{
		PickupLat: l.Pickup.Lat,
		PickupLon: l.Pickup.Lon,
		DropLat:   l.Drop.Lat,
		DropLon:   l.Drop.Lon,
	}, nil)
}

// SetStatus changes the status of a load on the API.
func (c *Client) SetStatus(ctx context.Context, id string, status domain.DispatchStatus) error {
	return c.do(ctx, "set_status", http.MethodPatch, "/loads/"+url.PathEscape(id)+"/status",
		setStatusRequest{Status: string(status)}, nil)
}

// ETA asks the API for the trip estimate between two points.
func (c *Client) ETA(ctx context.Context, from, to domain.LatLon) (domain.ETA, error) {
	var resp etaResponse
	if err := c.do(ctx, "eta", http.MethodGet, "/eta?"+tripQuery(from, to), nil, &resp); err != nil {
		return domain.ETA{}, err
	}
	return domain.ETA{
		DistanceKM:  resp.DistanceKM,
		ETAMinutes:  resp.ETAMinutes,
		AvgSpeedKPH: resp.AvgSpeedKPH,
		Source:      resp.Source,
	}, nil
}

// Route asks the API for the road geometry between two points.
func (c *Client) Route(ctx context.Context, from, to domain.LatLon) (domain.Route, error) {
	var resp routeResponse
	if err := c.do(ctx, "route", http.MethodGet, "/eta/route?"+tripQuery(from, to), nil, &resp); err != nil {
		return domain.Route{}, err
	}
	return domain.Route{Coordinates: resp.Geometry.Coordinates}, nil
}

// SendFeedback posts a copilot verdict.
func (c *Client) SendFeedback(ctx context.Context, f domain.Feedback) error {
	return c.do(ctx, "feedback", http.MethodPost, "/copilot/feedback", feedbackRequest{
		LoadID:    flexID(f.LoadID),
		VehicleID: f.VehicleID,
		Verdict:   string(f.Verdict),
		Reason:    f.Reason,
		Score:     f.Score,
	}, nil)
}

func tripQuery(from, to domain.LatLon) string {
	q := url.Values{}
	q.Set("from_lat", formatCoord(from.Lat))
	q.Set("from_lon", formatCoord(from.Lon))
	q.Set("to_lat", formatCoord(to.Lat))
	q.Set("to_lon", formatCoord(to.Lon))
	return q.Encode()
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) (err error) {
	defer func() { c.count(endpoint, err) }()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("dispatch api: encode %s body: %w", endpoint, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("dispatch api: build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch api: %s %s: %w", method, strings.SplitN(path, "?", 2)[0], err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// decodeResponse turns a non-2xx answer into *HTTPError and otherwise decodes
// the JSON body into out. A nil out discards the body.
func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &HTTPError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("dispatch api: decode response: %w", err)
	}
	return nil
}

func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func (c *Client) count(endpoint string, err error) {
	if c.requests == nil {
		return
	}
	outcome := "ok"
	var he *HTTPError
	switch {
	case err == nil:
	case errors.As(err, &he):
		outcome = "http_" + strconv.Itoa(he.StatusCode/100) + "xx"
	default:
		outcome = "error"
	}
	c.requests.WithLabelValues(endpoint, outcome).Inc()
}
