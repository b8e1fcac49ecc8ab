// Package lock provides the advisory slot lock held across the
// conflict-recheck-then-write section of appointment assignment. Keys are
// per (technician, date), so concurrent bookings for the same technician
// on the same day serialize while unrelated bookings proceed.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Locker acquires a named lock. The returned release func is safe to call
// exactly once; holders must release as soon as the write lands.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// SlotKey builds the canonical per-technician-per-date lock key.
func SlotKey(technicianID uint, date time.Time) string {
	return fmt.Sprintf("assign:tech:%d:%s", technicianID, date.Format("2006-01-02"))
}
