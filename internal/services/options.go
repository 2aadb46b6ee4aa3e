package services

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Clock returns the current time. Services always store its result in UTC.
type Clock func() time.Time

// Option configures a service.
type Option func(*options)

type options struct {
	hashCost int
	now      Clock
}

func newOptions(opts []Option) options {
	o := options{
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) utcNow() time.Time {
	return o.now().UTC()
}

// WithHashCost sets the bcrypt cost used when hashing passwords.
func WithHashCost(cost int) Option {
	return func(o *options) {
		o.hashCost = cost
	}
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now Clock) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
