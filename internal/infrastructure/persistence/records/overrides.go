package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/ol2009/classquest-hub/internal/domain/avatar"
	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
	"github.com/ol2009/classquest-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// OVERRIDE STORE
// ══════════════════════════════════════════════════════════════════════════════

// OverrideStore persists the avatar display-name overrides under a single
// global key. Overrides apply to catalog item labels only.
type OverrideStore struct {
	store recordstore.Store
	log   *logger.Logger
}

// NewOverrideStore creates a new OverrideStore.
func NewOverrideStore(store recordstore.Store, log *logger.Logger) *OverrideStore {
	if log == nil {
		log = logger.Default()
	}
	return &OverrideStore{
		store: store,
		log:   log.With(logger.Component("override_store")),
	}
}

// Load returns the override map, empty when absent.
func (s *OverrideStore) Load(ctx context.Context) (avatar.Overrides, error) {
	var overrides avatar.Overrides
	err := s.store.Get(ctx, recordstore.KeyAvatarNames, &overrides)
	switch {
	case err == nil:
		if overrides == nil {
			overrides = avatar.Overrides{}
		}
		return overrides, nil
	case errors.Is(err, recordstore.ErrNotFound):
		return avatar.Overrides{}, nil
	case errors.Is(err, recordstore.ErrSerialization):
		s.log.Warn("malformed override snapshot, falling back to empty", logger.Err(err))
		return avatar.Overrides{}, nil
	default:
		return nil, fmt.Errorf("load overrides: %w", err)
	}
}

// Save overwrites the override map wholesale.
func (s *OverrideStore) Save(ctx context.Context, overrides avatar.Overrides) error {
	if overrides == nil {
		overrides = avatar.Overrides{}
	}
	if err := s.store.Set(ctx, recordstore.KeyAvatarNames, overrides); err != nil {
		return fmt.Errorf("save overrides: %w", err)
	}
	return nil
}
