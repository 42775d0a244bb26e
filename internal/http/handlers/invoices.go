package handlers

import (
	"net/http"

	"dispatcherhub/internal/logx"
)

// InvoiceHandler serves /api/invoices.
type InvoiceHandler struct {
	uc     InvoicesUsecase
	logger logx.Logger
}

// NewInvoiceHandler creates an InvoiceHandler.
func NewInvoiceHandler(logger logx.Logger, uc InvoicesUsecase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, logger: logger}
}

// List handles GET /api/invoices.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.List(r.Context())
	if err != nil {
		writeServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toInvoiceResponses(items))
}
