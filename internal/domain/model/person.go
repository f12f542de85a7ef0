package model

import "time"

// Person represents a loyalty program member holding a points balance.
type Person struct {
	ID        int64
	Name      string
	Points    int64
	FCMTokens []string
	CreatedAt time.Time
}
