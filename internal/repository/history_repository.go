package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/docstore"
)

// HistoryRepository persists the activity log and staff notifications.
type HistoryRepository struct {
	store docstore.Store
}

// NewHistoryRepository constructs the repository.
func NewHistoryRepository(store docstore.Store) *HistoryRepository {
	return &HistoryRepository{store: store}
}

// Append stores an activity log entry under its own ID.
func (r *HistoryRepository) Append(ctx context.Context, entry models.HistoryEntry) error {
	if err := r.store.Set(ctx, CollectionHistory, entry.ID, entry); err != nil {
		return fmt.Errorf("append history %s: %w", entry.ID, err)
	}
	return nil
}

// List returns the newest entries first, at most limit when limit > 0.
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	docs, err := r.store.List(ctx, CollectionHistory)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	entries, err := decodeDocuments(CollectionHistory, docs, func(e *models.HistoryEntry, id string) { e.ID = id })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Timestamp.After(entries[j].Timestamp) })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Notify stores a staff notification under its own ID.
func (r *HistoryRepository) Notify(ctx context.Context, notification models.Notification) error {
	if err := r.store.Set(ctx, CollectionNotifications, notification.ID, notification); err != nil {
		return fmt.Errorf("store notification %s: %w", notification.ID, err)
	}
	return nil
}

// Notifications returns the newest notifications first, at most limit when limit > 0.
func (r *HistoryRepository) Notifications(ctx context.Context, limit int) ([]models.Notification, error) {
	docs, err := r.store.List(ctx, CollectionNotifications)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	items, err := decodeDocuments(CollectionNotifications, docs, func(n *models.Notification, id string) { n.ID = id })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
