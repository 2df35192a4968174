// Package cache memoizes gallery listings in Redis or in process memory.
package cache

import (
	"encoding/json"
	"time"
)

// Option customizes a listing cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces the clock used to judge entry freshness.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// entry is the stored form of a listing: the payload plus the time it was written.
type entry struct {
	WrittenAt time.Time       `json:"written_at"`
	Value     json.RawMessage `json:"value"`
}

func (e entry) fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.WrittenAt) < ttl
}
