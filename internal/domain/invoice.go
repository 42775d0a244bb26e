package domain

import "time"

// Invoice is a billing record generated when a load reaches "invoiced".
type Invoice struct {
	ID        int64
	LoadID    int64
	Amount    float64
	Factoring bool
	PaidAt    *time.Time
	CreatedAt time.Time
}
