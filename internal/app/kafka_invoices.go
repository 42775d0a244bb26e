package app

import (
	"context"

	"dispatcherhub/internal/domain"
	"dispatcherhub/internal/repository"
	"dispatcherhub/internal/transport/kafka"
)

type invoiceHandler interface {
	Handle(ctx context.Context, e domain.LoadStatusChanged) error
}

// makeInvoiceHandler adapts the invoicer to the consumer. Events for loads
// that no longer exist are marked permanent.
func makeInvoiceHandler(inv invoiceHandler) kafka.HandleFunc {
	return func(ctx context.Context, e domain.LoadStatusChanged) error {
		err := inv.Handle(ctx, e)
		if err != nil && repository.IsForeignKey(err) {
			return kafka.Permanent(err)
		}
		return err
	}
}
