package handlers

import (
	"time"

	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/service/dispatch"
	"dispatcherhub/internal/view"
)

type loadResponse struct {
	ID           int64   `json:"id"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	Rate         float64 `json:"rate"`
	Status       string  `json:"status"`
	TruckID      *int64  `json:"truck_id"`
	DispatcherID *int64  `json:"dispatcher_id"`
}

func toLoadResponse(l domain.Load) loadResponse {
	return loadResponse{
		ID:           l.ID,
		Origin:       l.Origin,
		Destination:  l.Destination,
		Rate:         l.Rate,
		Status:       string(l.Status),
		TruckID:      l.TruckID,
		DispatcherID: l.DispatcherID,
	}
}

func toLoadResponses(in []domain.Load) []loadResponse {
	out := make([]loadResponse, 0, len(in))
	for _, l := range in {
		out = append(out, toLoadResponse(l))
	}
	return out
}

// createLoadRequest takes rate as raw JSON so "12.5" and 12.5 both work.
type createLoadRequest struct {
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Rate        flexNumber `json:"rate"`
	Status      string     `json:"status"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type invoiceResponse struct {
	ID        int64      `json:"id"`
	LoadID    int64      `json:"load_id"`
	Amount    float64    `json:"amount"`
	Factoring bool       `json:"factoring"`
	PaidAt    *time.Time `json:"paid_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func toInvoiceResponses(in []domain.Invoice) []invoiceResponse {
	out := make([]invoiceResponse, 0, len(in))
	for _, i := range in {
		out = append(out, invoiceResponse{
			ID:        i.ID,
			LoadID:    i.LoadID,
			Amount:    i.Amount,
			Factoring: i.Factoring,
			PaidAt:    i.PaidAt,
			CreatedAt: i.CreatedAt,
		})
	}
	return out
}

type dispatchLoadResponse struct {
	ID        string  `json:"id"`
	Ref       string  `json:"ref"`
	PickupLat float64 `json:"pickup_lat"`
	PickupLon float64 `json:"pickup_lon"`
	DropLat   float64 `json:"drop_lat"`
	DropLon   float64 `json:"drop_lon"`
	Status    string  `json:"status"`
}

func toDispatchLoadResponses(in []domain.DispatchLoad) []dispatchLoadResponse {
	out := make([]dispatchLoadResponse, 0, len(in))
	for _, l := range in {
		out = append(out, dispatchLoadResponse{
			ID:        l.ID,
			Ref:       l.Ref,
			PickupLat: l.Pickup.Lat,
			PickupLon: l.Pickup.Lon,
			DropLat:   l.Drop.Lat,
			DropLon:   l.Drop.Lon,
			Status:    string(l.Status),
		})
	}
	return out
}

type seedResponse struct {
	Created int                    `json:"created"`
	Failed  []string               `json:"failed"`
	Loads   []dispatchLoadResponse `json:"loads"`
}

func toSeedResponse(res dispatch.SeedResult) seedResponse {
	failed := make([]string, 0, len(res.Failed))
	for _, err := range res.Failed {
		failed = append(failed, err.Error())
	}
	return seedResponse{
		Created: res.Created,
		Failed:  failed,
		Loads:   toDispatchLoadResponses(res.Loads),
	}
}

type etaResponse struct {
	DistanceKM  float64 `json:"distance_km"`
	ETAMinutes  float64 `json:"eta_minutes"`
	AvgSpeedKPH float64 `json:"avg_speed_kph"`
	Source      string  `json:"source,omitempty"`
}

type routeResponse struct {
	ETA  etaResponse  `json:"eta"`
	Line [][2]float64 `json:"line"`
	Map  view.MiniMap `json:"map"`
}

type feedbackRequest struct {
	LoadID  string `json:"load_id"`
	Verdict string `json:"verdict"`
}

type setDispatchStatusRequest struct {
	Status string `json:"status"`
}

type sessionResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
