package session

import (
	"context"
	"time"
)

// Record mirrors one refresh_tokens row: a single outstanding, unexpired
// grant of refresh capability. The raw token is never stored, only its
// digest.
type Record struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Store abstracts persistence for refresh-token records.
//
// ConsumeByHash must be atomic with respect to concurrent callers: for a
// given digest, at most one caller may receive found=true before the next
// Insert of that digest.
type Store interface {
	// Insert persists a new record.
	Insert(ctx context.Context, rec Record) error

	// ConsumeByHash atomically deletes the record with the given digest
	// and returns it. found=false means no record matched: never issued,
	// already rotated away, or lost to a concurrent racer.
	ConsumeByHash(ctx context.Context, hash string) (rec Record, found bool, err error)

	// DeleteExpired removes all records whose expiry is at or before now
	// and reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// DeleteByUser removes all records owned by userID.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
