package random

import (
	"math/rand"
	"time"
)

// New returns a generator for seed. A zero seed takes the current time.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
