package domain

// LoadStatus is a position in the load lifecycle.
type LoadStatus string

// Load lifecycle, in order.
const (
	StatusBooked    LoadStatus = "booked"
	StatusInTransit LoadStatus = "in_transit"
	StatusDelivered LoadStatus = "delivered"
	StatusInvoiced  LoadStatus = "invoiced"
	StatusPaid      LoadStatus = "paid"
)

var loadStatuses = [...]LoadStatus{
	StatusBooked, StatusInTransit, StatusDelivered, StatusInvoiced, StatusPaid,
}

// transitions is the declared lifecycle: each status may only move to the next one.
var transitions = map[LoadStatus][]LoadStatus{
	StatusBooked:    {StatusInTransit},
	StatusInTransit: {StatusDelivered},
	StatusDelivered: {StatusInvoiced},
	StatusInvoiced:  {StatusPaid},
	StatusPaid:      nil,
}

// LoadStatuses returns every load status in lifecycle order.
func LoadStatuses() []LoadStatus {
	out := make([]LoadStatus, len(loadStatuses))
	copy(out, loadStatuses[:])
	return out
}

// Valid checks if the LoadStatus is one of the enumerated values.
func (s LoadStatus) Valid() bool {
	for _, v := range loadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle table allows s → next.
func (s LoadStatus) CanTransitionTo(next LoadStatus) bool {
	for _, v := range transitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

func (s LoadStatus) String() string { return string(s) }
