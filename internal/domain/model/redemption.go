package model

import "time"

// RedemptionStatus describes the claim workflow axis of a redemption.
// Expiry is tracked separately on the Expired flag.
type RedemptionStatus string

const (
	RedemptionStatusPending  RedemptionStatus = "PENDING"
	RedemptionStatusRedeemed RedemptionStatus = "REDEEMED"
)

// Redemption is a person's in-progress or completed exchange of points for a gift.
type Redemption struct {
	ID         int64
	PersonID   int64
	GiftID     int64
	Status     RedemptionStatus
	Expired    bool
	Points     int64
	ClaimCode  *string
	RedeemerID *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Expirable reports whether the redemption can still transition to expired.
// Once redeemed or already expired it is terminal for the expiry workflow.
func (r *Redemption) Expirable() bool {
	return r.Status == RedemptionStatusPending && !r.Expired
}
