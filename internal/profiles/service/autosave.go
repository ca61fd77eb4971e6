package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/metrically/metrically-backend/internal/profiles/domain"
)

// DefaultAutosaveDebounce is how long a profile must stay quiet after
// its last tracked change before the background save fires.
const DefaultAutosaveDebounce = 30 * time.Second

const autosaveWriteTimeout = 10 * time.Second

// slot is the single scheduled task for one profile. Invariant: at most
// one pending timer and at most one in-flight save per profile.
type slot struct {
	timer  *time.Timer
	userID string
	attrs  domain.ProfileAttrs
	saving bool
	dirty  bool // a change arrived while a save was in flight
}

// AutosaveCoordinator debounces form-dirty state and issues background
// persistence writes. Per profile the state machine is
// Clean -> Dirty -> (debounce quiet period) -> Saving -> Clean; a
// change arriving while Saving defers the next debounce cycle until the
// current save settles, so saves never overlap for the same profile.
//
// Autosave never creates a profile: callers must already hold a
// profile id, and the explicit submit path remains the authoritative
// one. Save errors are logged, never surfaced.
type AutosaveCoordinator struct {
	profiles ProfileStore
	debounce time.Duration

	mu     sync.Mutex
	slots  map[string]*slot
	closed bool
	wg     sync.WaitGroup
}

func NewAutosaveCoordinator(profiles ProfileStore, debounce time.Duration) *AutosaveCoordinator {
	if debounce <= 0 {
		debounce = DefaultAutosaveDebounce
	}
	return &AutosaveCoordinator{
		profiles: profiles,
		debounce: debounce,
		slots:    make(map[string]*slot),
	}
}

// MarkDirty records a tracked field change for the profile and arms (or
// rearms) its debounce timer. Preconditions: an authenticated user and
// an existing profile; otherwise the change is dropped.
func (c *AutosaveCoordinator) MarkDirty(userID, profileID string, attrs domain.ProfileAttrs) {
	if userID == "" || profileID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	s := c.slots[profileID]
	if s == nil {
		s = &slot{}
		c.slots[profileID] = s
	}
	s.userID = userID
	s.attrs = attrs

	if s.saving {
		// Defer the next cycle until the in-flight save settles.
		s.dirty = true
		return
	}

	c.armLocked(profileID, s)
}

// armLocked starts the slot's debounce timer. Caller holds c.mu.
func (c *AutosaveCoordinator) armLocked(profileID string, s *slot) {
	if s.timer != nil {
		if s.timer.Stop() {
			c.wg.Done()
		}
	}
	c.wg.Add(1)
	s.timer = time.AfterFunc(c.debounce, func() {
		c.fire(profileID)
	})
}

// fire performs the background save for one profile.
func (c *AutosaveCoordinator) fire(profileID string) {
	defer c.wg.Done()

	c.mu.Lock()
	s := c.slots[profileID]
	if s == nil || c.closed {
		c.mu.Unlock()
		return
	}
	s.timer = nil
	s.saving = true
	userID := s.userID
	attrs := s.attrs
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), autosaveWriteTimeout)
	err := c.profiles.Update(ctx, userID, profileID, attrs)
	cancel()
	if err != nil {
		// Autosave is a convenience; the explicit Save path surfaces
		// errors. Log and move on.
		log.Printf("[warn] operation=autosave profile_id=%s error=%v", profileID, err)
	}

	c.mu.Lock()
	s.saving = false
	if s.dirty && !c.closed {
		s.dirty = false
		c.armLocked(profileID, s)
	}
	c.mu.Unlock()
}

// Pending reports whether the profile has a debounce timer armed or a
// save in flight.
func (c *AutosaveCoordinator) Pending(profileID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slots[profileID]
	return s != nil && (s.timer != nil || s.saving)
}

// Close cancels all pending timers and waits for in-flight saves.
func (c *AutosaveCoordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for _, s := range c.slots {
		if s.timer != nil && s.timer.Stop() {
			c.wg.Done()
		}
		s.timer = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}
