package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/docstore"
)

// StudentRepository persists students.
type StudentRepository struct {
	store docstore.Store
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(store docstore.Store) *StudentRepository {
	return &StudentRepository{store: store}
}

// List returns every student in enrollment order.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	docs, err := r.store.List(ctx, CollectionStudents)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return decodeDocuments(CollectionStudents, docs, func(s *models.Student, id string) { s.ID = id })
}

// FindByID loads a student by document ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.store.Get(ctx, CollectionStudents, id, &student); err != nil {
		return nil, fmt.Errorf("get student %s: %w", id, err)
	}
	student.ID = id
	return &student, nil
}

// FindByNumericID loads a student by the numeric ID referenced from billing records.
func (r *StudentRepository) FindByNumericID(ctx context.Context, numericID int64) (*models.Student, error) {
	students, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].NumericID == numericID {
			return &students[i], nil
		}
	}
	return nil, fmt.Errorf("student %d: %w", numericID, docstore.ErrNotFound)
}

// Create stores a new student and assigns its ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	id, err := r.store.Create(ctx, CollectionStudents, student)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	student.ID = id
	return nil
}

// Replace overwrites a student document.
func (r *StudentRepository) Replace(ctx context.Context, student *models.Student) error {
	if err := r.store.Set(ctx, CollectionStudents, student.ID, student); err != nil {
		return fmt.Errorf("replace student %s: %w", student.ID, err)
	}
	return nil
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, CollectionStudents, id); err != nil {
		return fmt.Errorf("delete student %s: %w", id, err)
	}
	return nil
}
