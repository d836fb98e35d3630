// Copyright (c) 2025 The magchat authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	// HealthFreshness is how long a health result is treated as fresh.
	// Callers within this window get the cached result, never a new call.
	HealthFreshness = 60 * time.Second

	// HealthPollInterval is the cadence at which shells poll the monitor.
	HealthPollInterval = 120 * time.Second

	healthCacheKey = "health"
)

// HealthMonitor deduplicates health checks. Polling every HealthPollInterval
// and regaining focus both go through Check; the freshness window and a rate
// limiter guarantee the backend is not hit more than once per minute.
type HealthMonitor struct {
	client  *Client
	cache   *gocache.Cache
	limiter *rate.Limiter

	mu     sync.Mutex
	last   *HealthResponse
	forced bool
}

// NewHealthMonitor creates a monitor in front of the client's Health call.
func NewHealthMonitor(client *Client) *HealthMonitor {
	return &HealthMonitor{
		client:  client,
		cache:   gocache.New(HealthFreshness, 2*HealthFreshness),
		limiter: rate.NewLimiter(rate.Every(HealthFreshness), 1),
	}
}

// Check returns the backend health, serving cached results while fresh.
// When the cache has expired but the rate limiter has not replenished
// (overlapping pollers), the last known result is returned instead of
// issuing a redundant call.
// A forced check (after Invalidate) skips both the cache and the limiter.
func (m *HealthMonitor) Check(ctx context.Context) (*HealthResponse, error) {
	m.mu.Lock()
	forced := m.forced
	m.forced = false
	m.mu.Unlock()

	if forced {
		// Consume a token if one is available so the forced call still
		// counts against the polling budget.
		m.limiter.Allow()
	} else {
		if cached, ok := m.cache.Get(healthCacheKey); ok {
			return cached.(*HealthResponse), nil
		}
		if !m.limiter.Allow() {
			m.mu.Lock()
			last := m.last
			m.mu.Unlock()
			if last != nil {
				return last, nil
			}
		}
	}

	resp, err := m.client.Health(ctx)
	if err != nil {
		return nil, err
	}

	m.cache.Set(healthCacheKey, resp, gocache.DefaultExpiration)
	m.mu.Lock()
	m.last = resp
	m.mu.Unlock()
	return resp, nil
}

// Invalidate drops the cached result; the next Check bypasses the freshness
// window and the rate limiter and always hits the backend.
func (m *HealthMonitor) Invalidate() {
	m.cache.Delete(healthCacheKey)
	m.mu.Lock()
	m.forced = true
	m.mu.Unlock()
}
