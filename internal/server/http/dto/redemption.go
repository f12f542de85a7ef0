package dto

import "time"

// CreateRedemptionRequest is the payload for creating a redemption.
type CreateRedemptionRequest struct {
	PersonID int64 `json:"person_id" binding:"required"`
	GiftID   int64 `json:"gift_id" binding:"required"`
}

// ClaimRequest finalizes a redemption by its claim code.
type ClaimRequest struct {
	Code       string `json:"code" binding:"required"`
	RedeemerID *int64 `json:"redeemer_id,omitempty"`
}

// RedemptionResponse represents a redemption returned to clients.
type RedemptionResponse struct {
	ID         int64     `json:"id"`
	PersonID   int64     `json:"person_id"`
	GiftID     int64     `json:"gift_id"`
	Status     string    `json:"status"`
	Expired    bool      `json:"expired"`
	Points     int64     `json:"points"`
	ClaimCode  *string   `json:"claim_code,omitempty"`
	RedeemerID *int64    `json:"redeemer_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
