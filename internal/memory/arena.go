package memory

import (
	"errors"
	"fmt"
)

// ErrArenaExhausted is returned when a reservation does not fit the budget.
var ErrArenaExhausted = errors.New("memory: arena exhausted")

// Arena accounts for the bytes handed out to shapes and proxies. The owner
// sizes each object with its SizeInBytes before placing it into a pool.
// A zero capacity means unlimited.
type Arena struct {
	capacity int
	used     int
	peak     int
}

// NewArena creates an arena with the given byte budget.
func NewArena(capacity int) *Arena {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena{capacity: capacity}
}

// Reserve claims n bytes.
func (a *Arena) Reserve(n int) error {
	if n < 0 {
		return fmt.Errorf("memory: negative reservation %d", n)
	}
	if a.capacity > 0 && a.used+n > a.capacity {
		return fmt.Errorf("%w: need %d bytes, %d of %d in use", ErrArenaExhausted, n, a.used, a.capacity)
	}
	a.used += n
	if a.used > a.peak {
		a.peak = a.used
	}
	return nil
}

// Release returns n bytes to the budget.
func (a *Arena) Release(n int) {
	a.used -= n
	if a.used < 0 {
		a.used = 0
	}
}

func (a *Arena) Used() int     { return a.used }
func (a *Arena) Peak() int     { return a.peak }
func (a *Arena) Capacity() int { return a.capacity }
