package accesscode

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// MemoryRegistry is the registry used when no database is configured.
type MemoryRegistry struct {
	mu    sync.Mutex
	codes map[string]Code
	now   func() time.Time
	seq   uint
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{codes: make(map[string]Code), now: time.Now}
}

func (r *MemoryRegistry) Create(_ context.Context, matchTitle string, ttl time.Duration) (Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for range maxAttempts {
		value, err := GenerateCode()
		if err != nil {
			return Code{}, err
		}
		if _, taken := r.codes[value]; taken {
			continue
		}
		r.seq++
		now := r.now()
		c := Code{Code: value, Active: true, MatchTitle: matchTitle, ExpiresAt: expiry(now, ttl)}
		c.ID = r.seq
		c.CreatedAt, c.UpdatedAt = now, now
		r.codes[value] = c
		return c, nil
	}
	return Code{}, errors.New("create access code: too many collisions")
}

// Add registers a fixed code, replacing any existing one.
func (r *MemoryRegistry) Add(c Code) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Code = strings.ToUpper(c.Code)
	r.codes[c.Code] = c
}

func (r *MemoryRegistry) Verify(_ context.Context, code string) (Code, error) {
	r.mu.Lock()
	c, ok := r.codes[strings.ToUpper(code)]
	r.mu.Unlock()
	if !ok {
		return Code{}, ErrNotFound
	}
	if err := c.Usable(r.now()); err != nil {
		return Code{}, err
	}
	return c, nil
}
