package assignment

import (
	"fmt"
	"sync"
)

// Rotation spreads bay selection round-robin across same-type bays.
// Counters are keyed per (shop, bay type), guarded by a mutex, and live
// only for the process lifetime: fairness across restarts is not a
// correctness requirement, only load spreading.
type Rotation struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewRotation() *Rotation {
	return &Rotation{counters: make(map[string]int)}
}

func rotationKey(shopID uint, bayType string) string {
	return fmt.Sprintf("%d:%s", shopID, bayType)
}

// Next returns the index to use among n bays and advances the counter.
func (r *Rotation) Next(shopID uint, bayType string, n int) int {
	if n <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := rotationKey(shopID, bayType)
	idx := r.counters[key] % n
	r.counters[key]++
	return idx
}

// Peek returns the index Next would return without advancing the counter.
// Probe runs use it so availability listings do not skew load spreading.
func (r *Rotation) Peek(shopID uint, bayType string, n int) int {
	if n <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counters[rotationKey(shopID, bayType)] % n
}
