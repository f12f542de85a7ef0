package dto

import "time"

// LedgerEntryResponse represents a points transaction in history listings.
type LedgerEntryResponse struct {
	ID        int64     `json:"id"`
	Direction string    `json:"direction"`
	Amount    int64     `json:"amount"`
	Invoice   *string   `json:"invoice,omitempty"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
