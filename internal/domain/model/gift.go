package model

import "time"

// Gift describes a catalog item exchangeable for points.
type Gift struct {
	ID        int64
	Title     string
	Points    int64
	CreatedAt time.Time
}
