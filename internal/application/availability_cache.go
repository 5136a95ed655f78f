package application

import (
	"sync"
	"time"
)

// availabilityCache memoizes per-room booking listings for a short window so
// bursts of availability reads do not repeat identical storage queries. Any
// create or delete invalidates the whole cache; the conflict check never
// consults it.
type availabilityCache struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]availabilityEntry
}

type availabilityEntry struct {
	bookings  []Booking
	expiresAt time.Time
}

// NewAvailabilityCache constructs a cache shared between the room and booking
// services. Non-positive arguments fall back to defaults.
func NewAvailabilityCache(ttl time.Duration, maxEntries int) *availabilityCache {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	return &availabilityCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]availabilityEntry),
	}
}

// Get returns the cached listing for a room when present and unexpired.
func (c *availabilityCache) Get(roomID string, now time.Time) ([]Booking, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[roomID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if now.After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, roomID)
		c.mu.Unlock()
		return nil, false
	}
	return cloneBookings(entry.bookings), true
}

// Store records the listing for a room until the TTL elapses.
func (c *availabilityCache) Store(roomID string, bookings []Booking, now time.Time) {
	if c == nil {
		return
	}
	cloned := cloneBookings(bookings)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked(now)
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[roomID] = availabilityEntry{bookings: cloned, expiresAt: now.Add(c.ttl)}
}

// Invalidate drops every cached listing. Called after any booking mutation.
func (c *availabilityCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]availabilityEntry)
	c.mu.Unlock()
}

func (c *availabilityCache) cleanupLocked(now time.Time) {
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *availabilityCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneBookings(bookings []Booking) []Booking {
	if len(bookings) == 0 {
		return nil
	}
	out := make([]Booking, len(bookings))
	copy(out, bookings)
	return out
}
