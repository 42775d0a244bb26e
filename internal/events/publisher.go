// Package events carries load status notifications from the loads service to
// whoever turns them into invoices.
package events

import (
	"context"

	"dispatcherhub/internal/domain"
)

// Publisher delivers a committed status change.
type Publisher interface {
	Publish(ctx context.Context, e domain.LoadStatusChanged) error
}

// Func adapts a function to Publisher. The web binary uses it to call the
// invoicer in-process when Kafka is not configured.
type Func func(ctx context.Context, e domain.LoadStatusChanged) error

// Publish calls f.
func (f Func) Publish(ctx context.Context, e domain.LoadStatusChanged) error { return f(ctx, e) }

type nop struct{}

func (nop) Publish(context.Context, domain.LoadStatusChanged) error { return nil }

// Nop returns a publisher that drops every event.
func Nop() Publisher { return nop{} }
