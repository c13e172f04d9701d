// Copyright (c) 2025 Glowdesk Inc. All Rights Reserved.
// This is licensed software from Glowdesk Inc, for limitations
// and restrictions contact your company contract manager.

package cache

import (
	"context"
	"time"

	"github.com/glowdesk/health-engine/pkg/model"
)

// Entry is one cached health score snapshot. Timestamp is the write
// time and drives both trend detection and eviction ordering.
type Entry struct {
	CustomerID string                    `json:"customerId"`
	Score      model.CustomerHealthScore `json:"score"`
	Timestamp  time.Time                 `json:"timestamp"`
}

// ScoreCache stores the latest health score per customer.
//
// Entries are only ever replaced or evicted, never deleted by customer
// action. Update's read-modify-write sequence is atomic per customer
// key: concurrent scoring of the same customer must not interleave the
// prior-snapshot read with the new-snapshot write, or trend detection
// becomes inconsistent.
type ScoreCache interface {
	// Get returns the cached entry for a customer, with found=false
	// when no snapshot exists.
	Get(ctx context.Context, customerID string) (*Entry, bool, error)

	// Update atomically reads the prior entry (nil if absent), calls fn
	// to produce the new score, and writes it with the current
	// timestamp. fn runs under the per-key mutual exclusion domain and
	// must not block on I/O.
	Update(ctx context.Context, customerID string, fn func(prev *Entry) (model.CustomerHealthScore, error)) error

	// Entries returns a snapshot of all cached entries.
	Entries(ctx context.Context) ([]Entry, error)

	// Len returns the number of cached entries.
	Len(ctx context.Context) (int, error)
}
