package store

import (
	"context"
	"sync"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// MemoryProfileRepository keeps profile and security preferences in process memory.
// Nothing survives a restart.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
	security map[string]domain.SecuritySettings
}

// NewMemoryProfileRepository creates an empty repository.
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		profiles: make(map[string]domain.Profile),
		security: make(map[string]domain.SecuritySettings),
	}
}

// GetProfile returns ErrNotFound until the user saves a profile.
func (r *MemoryProfileRepository) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return domain.Profile{}, ErrNotFound
	}
	return profile, nil
}

func (r *MemoryProfileRepository) SaveProfile(ctx context.Context, userID string, profile domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[userID] = profile
	return nil
}

// GetSecuritySettings returns ErrNotFound until the user changes a toggle.
func (r *MemoryProfileRepository) GetSecuritySettings(ctx context.Context, userID string) (domain.SecuritySettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	settings, ok := r.security[userID]
	if !ok {
		return domain.SecuritySettings{}, ErrNotFound
	}
	return settings, nil
}

func (r *MemoryProfileRepository) SaveSecuritySettings(ctx context.Context, userID string, settings domain.SecuritySettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.security[userID] = settings
	return nil
}
