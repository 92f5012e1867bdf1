package xapi

import (
	"math/rand"
	"time"
)

// Policy decides whether a failed call may be retried and how long to wait
// before the next attempt. It is pure backoff policy: it never sleeps and
// never classifies errors.
//
// Defaults follow the X API rate-limit guidance: exponential backoff starting
// at 2s, doubling each attempt, capped at 2 minutes, with jitter to avoid a
// thundering herd on limit reset.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     bool

	// jitterSource overrides the package rand source in tests.
	jitterSource func() float64
}

// DefaultPolicy returns the documented retry defaults (5 retries, 2s base,
// 120s cap, jitter enabled).
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 5,
		BaseDelay:  2 * time.Second,
		MaxDelay:   120 * time.Second,
		Jitter:     true,
	}
}

// ShouldRetry reports whether the given 0-based attempt may be retried.
func (p Policy) ShouldRetry(attempt int) bool {
	return attempt < p.MaxRetries
}

// DelayFor returns the wait before retrying the given 0-based attempt:
// min(BaseDelay * 2^attempt, MaxDelay), scaled by a uniformly random factor
// in [1.0, 1.25) when jitter is enabled.
func (p Policy) DelayFor(attempt int) time.Duration {
	delay := p.MaxDelay
	// Guard the shift: past 62 bits the doubling has long since saturated.
	if attempt < 62 {
		d := p.BaseDelay << uint(attempt)
		if d > 0 && d < p.MaxDelay {
			delay = d
		}
	}

	if p.Jitter {
		random := p.jitterSource
		if random == nil {
			random = rand.Float64
		}
		delay = time.Duration(float64(delay) * (1.0 + random()*0.25))
	}

	return delay
}
