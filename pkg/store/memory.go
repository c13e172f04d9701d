package store

import (
	"context"
	"sync"

	"github.com/glowdesk/health-engine/pkg/model"
)

// In-memory collaborator implementations. Unit tests build fixtures on
// these, and local development runs against them when no real stores
// are wired in.

// MemoryProfileStore is a map-backed CustomerProfileStore.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]model.CustomerProfile
}

// NewMemoryProfileStore creates an empty in-memory profile store.
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{
		profiles: make(map[string]model.CustomerProfile),
	}
}

// Seed stores or replaces a profile.
func (s *MemoryProfileStore) Seed(profile model.CustomerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.CustomerID] = profile
}

// GetProfile returns a copy of the stored profile.
func (s *MemoryProfileStore) GetProfile(ctx context.Context, customerID string) (*model.CustomerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[customerID]
	if !ok {
		return nil, ErrCustomerNotFound
	}

	cp := profile
	return &cp, nil
}

// MemoryInsightsEngine serves seeded insights, falling back to the
// upstream engine's documented defaults for unseeded customers
// (satisfaction 75, stable spending, low loyalty engagement).
type MemoryInsightsEngine struct {
	mu       sync.RWMutex
	insights map[string]model.CustomerInsights
}

// NewMemoryInsightsEngine creates an empty in-memory insights engine.
func NewMemoryInsightsEngine() *MemoryInsightsEngine {
	return &MemoryInsightsEngine{
		insights: make(map[string]model.CustomerInsights),
	}
}

// Seed stores or replaces insights for a customer.
func (s *MemoryInsightsEngine) Seed(in model.CustomerInsights) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insights[in.CustomerID] = in
}

// GenerateInsights returns seeded insights or the documented defaults.
func (s *MemoryInsightsEngine) GenerateInsights(ctx context.Context, customerID string) (*model.CustomerInsights, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if in, ok := s.insights[customerID]; ok {
		cp := in
		return &cp, nil
	}

	return &model.CustomerInsights{
		CustomerID:        customerID,
		ChurnProbability:  50,
		SpendingTrend:     model.SpendingStable,
		SatisfactionScore: 75,
		LoyaltyEngagement: model.LoyaltyEngagementLow,
	}, nil
}

// MemoryCommunicationProvider serves seeded communication summaries.
// Unseeded customers get a nil summary (no record).
type MemoryCommunicationProvider struct {
	mu        sync.RWMutex
	summaries map[string]model.CommunicationSummary
}

// NewMemoryCommunicationProvider creates an empty provider.
func NewMemoryCommunicationProvider() *MemoryCommunicationProvider {
	return &MemoryCommunicationProvider{
		summaries: make(map[string]model.CommunicationSummary),
	}
}

// Seed stores or replaces a summary for a customer.
func (s *MemoryCommunicationProvider) Seed(customerID string, summary model.CommunicationSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries[customerID] = summary
}

// GetSummary returns the seeded summary or nil when none exists.
func (s *MemoryCommunicationProvider) GetSummary(ctx context.Context, customerID string, limit int) (*model.CommunicationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if summary, ok := s.summaries[customerID]; ok {
		cp := summary
		return &cp, nil
	}
	return nil, nil
}

// MemoryEnhancedProfileEngine serves seeded enhanced profiles.
// Unseeded customers get a nil profile.
type MemoryEnhancedProfileEngine struct {
	mu       sync.RWMutex
	profiles map[string]model.EnhancedProfile
}

// NewMemoryEnhancedProfileEngine creates an empty engine.
func NewMemoryEnhancedProfileEngine() *MemoryEnhancedProfileEngine {
	return &MemoryEnhancedProfileEngine{
		profiles: make(map[string]model.EnhancedProfile),
	}
}

// Seed stores or replaces an enhanced profile.
func (s *MemoryEnhancedProfileEngine) Seed(profile model.EnhancedProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.CustomerID] = profile
}

// GenerateProfile returns the seeded profile or nil when none exists.
func (s *MemoryEnhancedProfileEngine) GenerateProfile(ctx context.Context, customerID string) (*model.EnhancedProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if profile, ok := s.profiles[customerID]; ok {
		cp := profile
		return &cp, nil
	}
	return nil, nil
}
