package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/docstore"
)

// SettingsRepository persists the single center settings document.
type SettingsRepository struct {
	store docstore.Store
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(store docstore.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get loads the settings document.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := r.store.Get(ctx, CollectionSettings, settingsDocumentID, &settings); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

// Save replaces the settings document.
func (r *SettingsRepository) Save(ctx context.Context, settings models.Settings) error {
	if err := r.store.Set(ctx, CollectionSettings, settingsDocumentID, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Watch streams snapshots of the settings document.
func (r *SettingsRepository) Watch(ctx context.Context) (<-chan docstore.DocumentSnapshot, func(), error) {
	updates, cancel, err := r.store.SubscribeDoc(ctx, CollectionSettings, settingsDocumentID)
	if err != nil {
		return nil, nil, fmt.Errorf("watch settings: %w", err)
	}
	return updates, cancel, nil
}
