package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rewardly/giftvault/internal/server/http/dto"
)

// LedgerHandler serves the points transaction history.
type LedgerHandler struct {
	facade LedgerFacade
}

// NewLedgerHandler constructs LedgerHandler.
func NewLedgerHandler(facade LedgerFacade) *LedgerHandler {
	return &LedgerHandler{facade: facade}
}

// History handles GET /api/persons/:id/ledger.
func (h *LedgerHandler) History(c *gin.Context) {
	personID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	entries, err := h.facade.LedgerHistory(c.Request.Context(), personID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(entries) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.LedgerEntryResponse{
			ID:        e.ID,
			Direction: string(e.Direction),
			Amount:    e.Amount,
			Invoice:   e.Invoice,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}
