package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/docstore"
)

// StaffRepository persists staff members.
type StaffRepository struct {
	store docstore.Store
}

// NewStaffRepository constructs the repository.
func NewStaffRepository(store docstore.Store) *StaffRepository {
	return &StaffRepository{store: store}
}

// Create stores a staff member and assigns its ID.
func (r *StaffRepository) Create(ctx context.Context, member *models.StaffMember) error {
	id, err := r.store.Create(ctx, CollectionStaff, member)
	if err != nil {
		return fmt.Errorf("create staff member: %w", err)
	}
	member.ID = id
	return nil
}

// FindByID loads a staff member.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.StaffMember, error) {
	var member models.StaffMember
	if err := r.store.Get(ctx, CollectionStaff, id, &member); err != nil {
		return nil, fmt.Errorf("get staff member %s: %w", id, err)
	}
	member.ID = id
	return &member, nil
}

// List returns every staff member.
func (r *StaffRepository) List(ctx context.Context) ([]models.StaffMember, error) {
	docs, err := r.store.List(ctx, CollectionStaff)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return decodeDocuments(CollectionStaff, docs, func(m *models.StaffMember, id string) { m.ID = id })
}

// Replace overwrites a staff member document.
func (r *StaffRepository) Replace(ctx context.Context, member *models.StaffMember) error {
	if err := r.store.Set(ctx, CollectionStaff, member.ID, member); err != nil {
		return fmt.Errorf("replace staff member %s: %w", member.ID, err)
	}
	return nil
}

// Delete removes a staff member.
func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, CollectionStaff, id); err != nil {
		return fmt.Errorf("delete staff member %s: %w", id, err)
	}
	return nil
}
