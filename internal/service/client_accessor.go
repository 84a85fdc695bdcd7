package service

import (
	"sync"

	"open-payments-bridge/internal/core/ports"
)

// ClientBuilder constructs the authenticated Open Payments client. It is
// invoked at most once per accessor, on first use.
type ClientBuilder func() (ports.OpenPaymentsClient, error)

// ClientAccessor lazily constructs and memoizes a single authenticated client
// handle. Concurrent first callers share one construction; a construction
// error is cached and returned to every caller, so a misconfigured key is
// fatal until the process restarts with fixed configuration.
type ClientAccessor struct {
	build ClientBuilder

	once   sync.Once
	client ports.OpenPaymentsClient
	err    error
}

// NewClientAccessor creates an accessor around the given builder.
func NewClientAccessor(build ClientBuilder) *ClientAccessor {
	return &ClientAccessor{build: build}
}

// Get returns the memoized client handle, constructing it on first call.
func (a *ClientAccessor) Get() (ports.OpenPaymentsClient, error) {
	a.once.Do(func() {
		a.client, a.err = a.build()
	})
	return a.client, a.err
}
