package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"dispatcherhub/internal/domain"
)

// flexID accepts an id sent either as a JSON number or a JSON string.
type flexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// MarshalJSON writes integer ids back as numbers and anything else as a string.
func (f flexID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

type loadDTO struct {
	ID        flexID  `json:"id"`
	Ref       string  `json:"ref"`
	PickupLat float64 `json:"pickup_lat"`
	PickupLon float64 `json:"pickup_lon"`
	DropLat   float64 `json:"drop_lat"`
	DropLon   float64 `json:"drop_lon"`
	Status    string  `json:"status"`
}

func (d loadDTO) toDomain() domain.DispatchLoad {
	return domain.DispatchLoad{
		ID:     string(d.ID),
		Ref:    d.Ref,
		Pickup: domain.LatLon{Lat: d.PickupLat, Lon: d.PickupLon},
		Drop:   domain.LatLon{Lat: d.DropLat, Lon: d.DropLon},
		Status: domain.DispatchStatus(d.Status),
	}
}

type listLoadsResponse struct {
	Loads []loadDTO `json:"loads"`
}

type createLoadRequest struct {
	PickupLat float64 `json:"pickup_lat"`
	PickupLon float64 `json:"pickup_lon"`
	DropLat   float64 `json:"drop_lat"`
	DropLon   float64 `json:"drop_lon"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type etaResponse struct {
	DistanceKM  float64 `json:"distance_km"`
	ETAMinutes  float64 `json:"eta_minutes"`
	AvgSpeedKPH float64 `json:"avg_speed_kph"`
	Source      string  `json:"source,omitempty"`
}

type routeResponse struct {
	Geometry struct {
		Coordinates [][2]float64 `json:"coordinates"`
	} `json:"geometry"`
}

type feedbackRequest struct {
	LoadID    flexID  `json:"load_id"`
	VehicleID *string `json:"vehicle_id"`
	Verdict   string  `json:"verdict"`
	Reason    string  `json:"reason"`
	Score     int     `json:"score"`
}
