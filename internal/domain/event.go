package domain

import "time"

// LoadStatusChanged is published after a load status update is committed.
type LoadStatusChanged struct {
	LoadID    int64      `json:"load_id"`
	From      LoadStatus `json:"from"`
	To        LoadStatus `json:"to"`
	Rate      float64    `json:"rate"`
	ChangedAt time.Time  `json:"changed_at"`
}
