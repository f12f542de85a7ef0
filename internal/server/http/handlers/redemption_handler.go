package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/rewardly/giftvault/internal/domain/errors"
	"github.com/rewardly/giftvault/internal/domain/model"
	"github.com/rewardly/giftvault/internal/domain/repository"
	"github.com/rewardly/giftvault/internal/server/http/dto"
)

// RedemptionHandler manages redemption endpoints.
type RedemptionHandler struct {
	facade RedemptionFacade
}

// NewRedemptionHandler constructs RedemptionHandler.
func NewRedemptionHandler(facade RedemptionFacade) *RedemptionHandler {
	return &RedemptionHandler{facade: facade}
}

// Create handles POST /api/redemptions.
func (h *RedemptionHandler) Create(c *gin.Context) {
	var req dto.CreateRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	redemption, err := h.facade.CreateRedemption(c.Request.Context(), req.PersonID, req.GiftID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInsufficientBalance):
			c.Status(http.StatusPaymentRequired)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toRedemptionResponse(redemption))
}

// Claim handles POST /api/redemptions/claim.
func (h *RedemptionHandler) Claim(c *gin.Context) {
	var req dto.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	redemption, err := h.facade.FinalizeByCode(c.Request.Context(), req.Code, req.RedeemerID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCode) {
			c.Status(http.StatusUnprocessableEntity)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toRedemptionResponse(redemption))
}

// List handles GET /api/redemptions.
func (h *RedemptionHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	redemptions, err := h.facade.Redemptions(c.Request.Context(), filter)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(redemptions) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.RedemptionResponse, 0, len(redemptions))
	for i := range redemptions {
		resp = append(resp, toRedemptionResponse(&redemptions[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/redemptions/:id.
func (h *RedemptionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	redemption, err := h.facade.RedemptionByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toRedemptionResponse(redemption))
}

// Delete handles DELETE /api/redemptions/:id. Admin only; bypasses the expiry
// workflow.
func (h *RedemptionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.DeleteRedemption(c.Request.Context(), id); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseFilter(c *gin.Context) (repository.RedemptionFilter, bool) {
	var filter repository.RedemptionFilter

	if raw, ok := c.GetQuery("person_id"); ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, false
		}
		filter.PersonID = &id
	}
	if raw, ok := c.GetQuery("status"); ok {
		status := model.RedemptionStatus(raw)
		if status != model.RedemptionStatusPending && status != model.RedemptionStatusRedeemed {
			return filter, false
		}
		filter.Status = &status
	}
	if raw, ok := c.GetQuery("expired"); ok {
		expired, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, false
		}
		filter.Expired = &expired
	}
	return filter, true
}

func toRedemptionResponse(r *model.Redemption) dto.RedemptionResponse {
	return dto.RedemptionResponse{
		ID:         r.ID,
		PersonID:   r.PersonID,
		GiftID:     r.GiftID,
		Status:     string(r.Status),
		Expired:    r.Expired,
		Points:     r.Points,
		ClaimCode:  r.ClaimCode,
		RedeemerID: r.RedeemerID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
