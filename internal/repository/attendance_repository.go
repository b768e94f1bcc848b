package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/docstore"
)

// AttendanceRepository persists attendance records, one per student and day.
type AttendanceRepository struct {
	store docstore.Store
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(store docstore.Store) *AttendanceRepository {
	return &AttendanceRepository{store: store}
}

// FindByKey loads the record of a student for a day.
func (r *AttendanceRepository) FindByKey(ctx context.Context, key billing.AttendanceKey) (*models.AttendanceRecord, error) {
	id := key.DocumentID()
	var record models.AttendanceRecord
	if err := r.store.Get(ctx, CollectionAttendance, id, &record); err != nil {
		return nil, fmt.Errorf("get attendance %s: %w", id, err)
	}
	record.ID = id
	return &record, nil
}

// Save writes the record under the ID derived from its natural key.
func (r *AttendanceRepository) Save(ctx context.Context, record *models.AttendanceRecord) error {
	record.ID = billing.AttendanceKey{StudentID: record.StudentID, Date: record.Date}.DocumentID()
	if err := r.store.Set(ctx, CollectionAttendance, record.ID, record); err != nil {
		return fmt.Errorf("save attendance %s: %w", record.ID, err)
	}
	return nil
}

// List returns records matching the filter.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error) {
	docs, err := r.store.List(ctx, CollectionAttendance)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	records, err := decodeDocuments(CollectionAttendance, docs, func(a *models.AttendanceRecord, id string) { a.ID = id })
	if err != nil {
		return nil, err
	}
	filtered := records[:0]
	for _, record := range records {
		if filter.Date != nil && !record.Date.Equal(filter.Date.Time) {
			continue
		}
		if filter.StudentID != 0 && record.StudentID != filter.StudentID {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered, nil
}
