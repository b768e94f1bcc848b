package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/docstore"
)

// PenaltyRepository persists late-pickup penalties.
type PenaltyRepository struct {
	store docstore.Store
}

// NewPenaltyRepository constructs the repository.
func NewPenaltyRepository(store docstore.Store) *PenaltyRepository {
	return &PenaltyRepository{store: store}
}

// Create stores a penalty and assigns its ID.
func (r *PenaltyRepository) Create(ctx context.Context, penalty *models.PenaltyRecord) error {
	id, err := r.store.Create(ctx, CollectionPenalties, penalty)
	if err != nil {
		return fmt.Errorf("create penalty: %w", err)
	}
	penalty.ID = id
	return nil
}

// FindByID loads a penalty.
func (r *PenaltyRepository) FindByID(ctx context.Context, id string) (*models.PenaltyRecord, error) {
	var penalty models.PenaltyRecord
	if err := r.store.Get(ctx, CollectionPenalties, id, &penalty); err != nil {
		return nil, fmt.Errorf("get penalty %s: %w", id, err)
	}
	penalty.ID = id
	return &penalty, nil
}

// List returns penalties matching the filter.
func (r *PenaltyRepository) List(ctx context.Context, filter models.PenaltyFilter) ([]models.PenaltyRecord, error) {
	docs, err := r.store.List(ctx, CollectionPenalties)
	if err != nil {
		return nil, fmt.Errorf("list penalties: %w", err)
	}
	penalties, err := decodeDocuments(CollectionPenalties, docs, func(p *models.PenaltyRecord, id string) { p.ID = id })
	if err != nil {
		return nil, err
	}
	filtered := penalties[:0]
	for _, p := range penalties {
		if filter.StudentID != 0 && p.StudentID != filter.StudentID {
			continue
		}
		if filter.Year != 0 && p.Date.Year() != filter.Year {
			continue
		}
		if filter.Month != 0 && int(p.Date.Month()) != filter.Month {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

// Update merges edited fields into a penalty.
func (r *PenaltyRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := r.store.Update(ctx, CollectionPenalties, id, fields); err != nil {
		return fmt.Errorf("update penalty %s: %w", id, err)
	}
	return nil
}

// Delete removes a penalty.
func (r *PenaltyRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, CollectionPenalties, id); err != nil {
		return fmt.Errorf("delete penalty %s: %w", id, err)
	}
	return nil
}
