package domain

// Load is a single freight shipment tracked through the status lifecycle.
type Load struct {
	ID           int64
	Origin       string
	Destination  string
	Rate         float64
	Status       LoadStatus
	TruckID      *int64
	DispatcherID *int64
}

// NewLoad carries the fields of a load before it is stored.
type NewLoad struct {
	Origin       string
	Destination  string
	Rate         float64
	Status       LoadStatus
	TruckID      *int64
	DispatcherID *int64
}
