package repository

import (
	"context"
	"time"
)

// TTLRecordStore keeps one ephemeral record per active redemption, keyed by the
// redemption id. The backing engine removes records on its own once their
// expiry passes; a record's existence is the single source of truth for
// "still claimable".
type TTLRecordStore interface {
	// Put creates the record. A record already present for the id is a logic
	// bug and reported as ErrDuplicateKey.
	Put(ctx context.Context, id int64, expireAt time.Time) error
	// DeleteByID removes the record. Deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id int64) error
	// ListIDs returns the ids of all records that have not yet expired.
	ListIDs(ctx context.Context) ([]int64, error)
}
