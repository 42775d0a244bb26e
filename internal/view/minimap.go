package view

import (
	"fmt"

	"dispatcherhub/internal/domain"
)

// DefaultCenter is used when there is nothing to center on (continental US).
var DefaultCenter = domain.LatLon{Lat: 39.5, Lon: -98.35}

const (
	defaultZoom = 5
	osmTiles    = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
)

// Marker is a labelled point on the mini map.
type Marker struct {
	Label string        `json:"label"`
	Point domain.LatLon `json:"point"`
}

// MiniMap is everything the browser needs to draw the map: tiles are fetched
// client-side.
type MiniMap struct {
	Center  domain.LatLon   `json:"center"`
	Zoom    int             `json:"zoom"`
	Markers []Marker        `json:"markers"`
	Line    []domain.LatLon `json:"line"`
	TileURL string          `json:"tile_url"`
}

// NewMiniMap builds the map for optional pickup/drop points and an optional
// polyline in [lat, lon] order.
func NewMiniMap(pickup, drop *domain.LatLon, line []domain.LatLon) MiniMap {
	m := MiniMap{
		Center:  MapCenter(pickup, drop, line),
		Zoom:    defaultZoom,
		Markers: make([]Marker, 0, 2),
		Line:    line,
		TileURL: osmTiles,
	}
	if m.Line == nil {
		m.Line = []domain.LatLon{}
	}
	if pickup != nil {
		m.Markers = append(m.Markers, Marker{Label: "Pickup: " + coords(*pickup), Point: *pickup})
	}
	if drop != nil {
		m.Markers = append(m.Markers, Marker{Label: "Drop: " + coords(*drop), Point: *drop})
	}
	return m
}

// MapCenter picks the middle polyline point, else the pickup/drop midpoint,
// else DefaultCenter.
func MapCenter(pickup, drop *domain.LatLon, line []domain.LatLon) domain.LatLon {
	switch {
	case len(line) > 0:
		return line[len(line)/2]
	case pickup != nil && drop != nil:
		return domain.Midpoint(*pickup, *drop)
	default:
		return DefaultCenter
	}
}

func coords(p domain.LatLon) string {
	return fmt.Sprintf("%.3f, %.3f", p.Lat, p.Lon)
}
