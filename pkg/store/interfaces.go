package store

import (
	"context"

	"github.com/glowdesk/health-engine/pkg/model"
)

// Collaborator contracts consumed by the health engine. All reads are
// read-only; the engine performs no retries itself, so implementations
// should carry their own timeout policy.
//
// Interfaces live on the consumer side so tests and alternative
// backends can swap implementations without touching scoring code.

// CustomerProfileStore serves customer records with their bounded
// activity lists (visits, feedback, campaign deliveries, loyalty
// transactions).
type CustomerProfileStore interface {
	// GetProfile returns the profile for a customer, or
	// ErrCustomerNotFound for an unknown id.
	GetProfile(ctx context.Context, customerID string) (*model.CustomerProfile, error)
}

// CustomerInsightsEngine generates the upstream behavioral signal
// bundle (churn probability, spending trend, satisfaction, ...). The
// health engine consumes these outputs but never recomputes them.
type CustomerInsightsEngine interface {
	GenerateInsights(ctx context.Context, customerID string) (*model.CustomerInsights, error)
}

// CommunicationHistoryProvider summarizes two-way communication.
// A nil summary with nil error means no communication record exists,
// which is degraded input rather than a failure.
type CommunicationHistoryProvider interface {
	GetSummary(ctx context.Context, customerID string, limit int) (*model.CommunicationSummary, error)
}

// EnhancedProfileEngine produces behavioral-preference fields. A nil
// profile with nil error means no enhanced profile exists yet.
type EnhancedProfileEngine interface {
	GenerateProfile(ctx context.Context, customerID string) (*model.EnhancedProfile, error)
}
