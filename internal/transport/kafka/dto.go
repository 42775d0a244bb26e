package kafka

import (
	"strings"
	"time"

	"dispatcherhub/internal/domain"
)

// EventDTO is the wire form of domain.LoadStatusChanged.
type EventDTO struct {
	LoadID    int64     `json:"load_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Rate      float64   `json:"rate"`
	ChangedAt time.Time `json:"changed_at"`
}

// ToDomain converts EventDTO to domain.LoadStatusChanged
func ToDomain(dto EventDTO) domain.LoadStatusChanged {
	return domain.LoadStatusChanged{
		LoadID:    dto.LoadID,
		From:      domain.LoadStatus(strings.ToLower(strings.TrimSpace(dto.From))),
		To:        domain.LoadStatus(strings.ToLower(strings.TrimSpace(dto.To))),
		Rate:      dto.Rate,
		ChangedAt: dto.ChangedAt,
	}
}

// FromDomain converts domain.LoadStatusChanged to EventDTO
func FromDomain(e domain.LoadStatusChanged) EventDTO {
	return EventDTO{
		LoadID:    e.LoadID,
		From:      string(e.From),
		To:        string(e.To),
		Rate:      e.Rate,
		ChangedAt: e.ChangedAt.UTC(),
	}
}
