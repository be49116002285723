package auth

import (
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/google/uuid"
)

// sessionCache holds the provider's expiring lookups. ttl.Cache.Get refreshes and evicts
// items outside the cache lock, so every read goes through GetOrSet or GetAndDelete and all
// access is serialized on mu.
type sessionCache struct {
	mu       sync.Mutex
	closed   bool
	profiles *ttlworker.Cache[uuid.UUID, *User]
	revoked  *ttlworker.Cache[string, bool]
	// states maps an OAuth nonce to its deadline.
	states   *ttlworker.Cache[string, time.Time]
	stateTTL time.Duration
}

func newSessionCache(profileTTL, sessionTTL, stateTTL time.Duration) *sessionCache {
	return &sessionCache{
		profiles: ttlworker.NewCache[uuid.UUID, *User](profileTTL),
		revoked:  ttlworker.NewCache[string, bool](sessionTTL),
		states:   ttlworker.NewCache[string, time.Time](stateTTL),
		stateTTL: stateTTL,
	}
}

// profile returns the cached projection, or nil.
func (c *sessionCache) profile(id uuid.UUID) *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	// a nil placeholder reads the same as a miss
	u, _ := c.profiles.GetOrSet(id, nil)
	return u
}

func (c *sessionCache) setProfile(id uuid.UUID, u *User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.profiles.Set(id, u)
	}
}

func (c *sessionCache) dropProfile(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.profiles.Delete(id)
	}
}

func (c *sessionCache) isRevoked(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	revoked, _ := c.revoked.GetOrSet(sessionID, false)
	return revoked
}

func (c *sessionCache) revoke(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.revoked.Set(sessionID, true)
	}
}

func (c *sessionCache) putState(nonce string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.states.Set(nonce, now.Add(c.stateTTL))
	}
}

// takeState consumes the nonce. It reports false for unknown, used or expired nonces.
func (c *sessionCache) takeState(nonce string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	deadline, ok := c.states.GetAndDelete(nonce)
	return ok && now.Before(deadline)
}

// close stops the caches' collector goroutines. Later calls are no-ops.
func (c *sessionCache) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.profiles.Destroy()
	c.revoked.Destroy()
	c.states.Destroy()
}
