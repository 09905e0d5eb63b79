package state

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock is a lamport clock tagged with the site that owns it.
type Clock struct {
	site    string
	lamport atomic.Uint64
}

func NewClock() *Clock {
	return &Clock{site: uuid.NewString()}
}

func (c *Clock) Site() string { return c.site }

// Tick advances the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	return c.lamport.Add(1)
}

// Now returns the current value without advancing.
func (c *Clock) Now() uint64 {
	return c.lamport.Load()
}

// Update moves the clock forward to remote if it is ahead.
func (c *Clock) Update(remote uint64) {
	for {
		cur := c.lamport.Load()
		if remote <= cur || c.lamport.CompareAndSwap(cur, remote) {
			return
		}
	}
}

// NextID returns an item ID unique across sites.
func (c *Clock) NextID() string {
	return fmt.Sprintf("%s-%d", c.site, c.Tick())
}
