package domain

// DispatchStatus is the status of a load on the external dispatch API.
type DispatchStatus string

// Dispatch API statuses.
const (
	DispatchUnassigned DispatchStatus = "unassigned"
	DispatchInTransit  DispatchStatus = "in_transit"
	DispatchDelivered  DispatchStatus = "delivered"
)

// Settable reports whether the panel may PATCH a load to s.
func (s DispatchStatus) Settable() bool {
	return s == DispatchInTransit || s == DispatchDelivered
}

// DispatchLoad is a load as the external dispatch API represents it. It shares
// nothing with Load.
type DispatchLoad struct {
	ID     string
	Ref    string
	Pickup LatLon
	Drop   LatLon
	Status DispatchStatus
}

// Label returns the reference, or the id when the API sent none.
func (l DispatchLoad) Label() string {
	if l.Ref != "" {
		return l.Ref
	}
	return l.ID
}

// NewDispatchLoad is the payload for creating a dispatch load.
type NewDispatchLoad struct {
	Pickup LatLon
	Drop   LatLon
}

// ETA summarizes a computed trip.
type ETA struct {
	DistanceKM  float64
	ETAMinutes  float64
	AvgSpeedKPH float64
	Source      string
}

// Route is a path geometry in GeoJSON order: each point is [lon, lat].
type Route struct {
	Coordinates [][2]float64
}

// LatLngs reorders the GeoJSON [lon, lat] points into map [lat, lon] points.
func (r Route) LatLngs() []LatLon {
	out := make([]LatLon, 0, len(r.Coordinates))
	for _, c := range r.Coordinates {
		out = append(out, LatLon{Lat: c[1], Lon: c[0]})
	}
	return out
}

// Verdict is a thumbs-up/down judgement on a recommendation.
type Verdict string

// Feedback verdicts.
const (
	VerdictUp   Verdict = "up"
	VerdictDown Verdict = "down"
)

// Valid checks the verdict.
func (v Verdict) Valid() bool { return v == VerdictUp || v == VerdictDown }

// Score maps up to 1 and down to 0.
func (v Verdict) Score() int {
	if v == VerdictUp {
		return 1
	}
	return 0
}

// Feedback is sent to the copilot feedback endpoint.
type Feedback struct {
	LoadID    string
	VehicleID *string
	Verdict   Verdict
	Reason    string
	Score     int
}
