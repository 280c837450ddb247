// Package resilience wraps calls to external dependencies (the corpus store, the broker)
// in bounded retries and a per-operation circuit breaker.
package resilience

import "time"

// RetryPolicy retries with capped exponential backoff. MaxAttempts of 1 disables retries.
type RetryPolicy struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
	Multiplier  float64
}

// delay is the wait after the given failed attempt (1-based).
func (p RetryPolicy) delay(attempt int) time.Duration {
	wait := float64(p.Initial)
	for i := 1; i < attempt; i++ {
		wait *= p.Multiplier
		if wait >= float64(p.Max) {
			return p.Max
		}
	}
	return min(time.Duration(wait), p.Max)
}

// BreakerPolicy trips once MinRequests calls have been seen in the current window and the
// failure ratio reaches FailureRatio.
type BreakerPolicy struct {
	Enabled       bool
	MinRequests   uint32
	FailureRatio  float64
	OpenTimeout   time.Duration
	HalfOpenCalls uint32
}

type Config struct {
	Retry   RetryPolicy
	Breaker BreakerPolicy

	// OnStateChange observes breaker transitions. It runs under the breaker's lock and
	// must not call back into the executor.
	OnStateChange func(operation string, to string)
}

func DefaultConfig() Config {
	return Config{
		Retry: RetryPolicy{
			MaxAttempts: 3,
			Initial:     100 * time.Millisecond,
			Max:         400 * time.Millisecond,
			Multiplier:  2.0,
		},
		Breaker: BreakerPolicy{
			Enabled:       true,
			MinRequests:   10,
			FailureRatio:  0.5,
			OpenTimeout:   30 * time.Second,
			HalfOpenCalls: 2,
		},
	}
}

// StoreConfig is the corpus store policy: a failed search is reported at once as
// unavailable, and repeated failures open the circuit.
func StoreConfig() Config {
	cfg := DefaultConfig()
	cfg.Retry.MaxAttempts = 1
	cfg.Breaker.MinRequests = 5
	cfg.Breaker.OpenTimeout = 15 * time.Second
	return cfg
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	out := c

	r := &out.Retry
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = def.Retry.MaxAttempts
	}
	if r.Initial <= 0 {
		r.Initial = def.Retry.Initial
	}
	if r.Max < r.Initial {
		r.Max = max(def.Retry.Max, r.Initial)
	}
	if r.Multiplier < 1 {
		r.Multiplier = def.Retry.Multiplier
	}

	b := &out.Breaker
	if b.MinRequests == 0 {
		b.MinRequests = def.Breaker.MinRequests
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		b.FailureRatio = def.Breaker.FailureRatio
	}
	if b.OpenTimeout <= 0 {
		b.OpenTimeout = def.Breaker.OpenTimeout
	}
	if b.HalfOpenCalls == 0 {
		b.HalfOpenCalls = def.Breaker.HalfOpenCalls
	}
	return out
}
