package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

type studentRepository interface {
	studentDirectory
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Replace(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentService handles enrollment and student records.
type StudentService struct {
	repo      studentRepository
	catalog   *billing.Catalog
	activity  activityLogger
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, catalog *billing.Catalog, activity activityLogger, clock Clock, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, catalog: catalog, activity: activity, clock: clock, validator: validate, logger: logger}
}

// List returns every student in enrollment order.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Enroll registers a new student. The numeric ID is derived from the
// enrollment instant and bumped until it is unused.
func (s *StudentService) Enroll(ctx context.Context, req dto.CreateStudentRequest, actor string) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if _, ok := s.catalog.Lookup(req.ScheduleID); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown schedule %q", req.ScheduleID))
	}
	now := s.clock.now()
	student := &models.Student{
		Name:                req.Name,
		Surname:             req.Surname,
		ScheduleID:          req.ScheduleID,
		EnrollmentPaid:      req.EnrollmentPaid,
		MonthlyPayment:      req.MonthlyPayment,
		Address:             req.Address,
		FatherName:          req.FatherName,
		MotherName:          req.MotherName,
		Phone1:              req.Phone1,
		Phone2:              req.Phone2,
		ParentEmail:         req.ParentEmail,
		Allergies:           req.Allergies,
		AuthorizedPickup:    req.AuthorizedPickup,
		PaymentMethod:       models.PaymentMethod(req.PaymentMethod),
		AccountHolderName:   req.AccountHolderName,
		NIF:                 req.NIF,
		Documents:           []models.StudentDocument{},
		ModificationHistory: []models.ModificationEntry{},
		CreatedAt:           now.UTC(),
	}
	if req.BirthDate != "" {
		birth, err := models.ParseDate(req.BirthDate)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid birth date")
		}
		student.BirthDate = &birth
	}
	numericID, err := s.nextNumericID(ctx, now.UnixMilli())
	if err != nil {
		return nil, err
	}
	student.NumericID = numericID

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.activity.NotifyUser(ctx, fmt.Sprintf("%s enrolled.", student.FullName()))
	s.activity.LogAction(ctx, actor, "Enrollment", fmt.Sprintf("Student %s enrolled with schedule %s.", student.FullName(), student.ScheduleID))
	return student, nil
}

// Update applies the non-nil fields of req and records what changed.
func (s *StudentService) Update(ctx context.Context, id string, req dto.UpdateStudentRequest, actor string) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if req.ScheduleID != nil {
		if _, ok := s.catalog.Lookup(*req.ScheduleID); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown schedule %q", *req.ScheduleID))
		}
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changes, err := applyStudentUpdate(student, req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid birth date")
	}
	if len(changes) == 0 {
		return student, nil
	}
	student.ModificationHistory = append(student.ModificationHistory, models.ModificationEntry{
		ID:        uuid.NewString(),
		User:      actor,
		Timestamp: s.clock.now().UTC(),
		Changes:   changes,
	})
	if err := s.repo.Replace(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.activity.NotifyUser(ctx, fmt.Sprintf("%s updated.", student.FullName()))
	s.activity.LogAction(ctx, actor, "Student updated", fmt.Sprintf("%d field(s) of %s changed.", len(changes), student.FullName()))
	return student, nil
}

// AddDocument attaches a file to the student record.
func (s *StudentService) AddDocument(ctx context.Context, id string, req dto.AddStudentDocumentRequest, actor string) (*models.StudentDocument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := models.StudentDocument{
		ID:          uuid.NewString(),
		Name:        req.Name,
		ContentType: req.ContentType,
		Data:        req.Data,
		UploadedAt:  s.clock.now().UTC(),
	}
	student.Documents = append(student.Documents, doc)
	if err := s.repo.Replace(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
	}
	s.activity.NotifyUser(ctx, fmt.Sprintf("Document added to %s.", student.FullName()))
	s.activity.LogAction(ctx, actor, "Document added", fmt.Sprintf("%s attached to %s.", doc.Name, student.FullName()))
	return &doc, nil
}

// Delete removes a student. Attendance, penalties and invoices are kept.
func (s *StudentService) Delete(ctx context.Context, id, actor string) error {
	student, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.activity.NotifyUser(ctx, fmt.Sprintf("%s removed.", student.FullName()))
	s.activity.LogAction(ctx, actor, "Student removed", fmt.Sprintf("Student %s removed.", student.FullName()))
	return nil
}

func (s *StudentService) nextNumericID(ctx context.Context, candidate int64) (int64, error) {
	for {
		_, err := s.repo.FindByNumericID(ctx, candidate)
		if isNotFound(err) {
			return candidate, nil
		}
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate student id")
		}
		candidate++
	}
}

func applyStudentUpdate(student *models.Student, req dto.UpdateStudentRequest) ([]models.FieldChange, error) {
	var changes []models.FieldChange
	setString := func(field string, dst *string, value *string) {
		if value == nil || *value == *dst {
			return
		}
		changes = append(changes, models.FieldChange{Field: field, From: *dst, To: *value})
		*dst = *value
	}
	setBool := func(field string, dst *bool, value *bool) {
		if value == nil || *value == *dst {
			return
		}
		changes = append(changes, models.FieldChange{Field: field, From: strconv.FormatBool(*dst), To: strconv.FormatBool(*value)})
		*dst = *value
	}

	setString("name", &student.Name, req.Name)
	setString("surname", &student.Surname, req.Surname)
	setString("schedule_id", &student.ScheduleID, req.ScheduleID)
	setBool("enrollment_paid", &student.EnrollmentPaid, req.EnrollmentPaid)
	setBool("monthly_payment", &student.MonthlyPayment, req.MonthlyPayment)
	setString("address", &student.Address, req.Address)
	setString("father_name", &student.FatherName, req.FatherName)
	setString("mother_name", &student.MotherName, req.MotherName)
	setString("phone1", &student.Phone1, req.Phone1)
	setString("phone2", &student.Phone2, req.Phone2)
	setString("parent_email", &student.ParentEmail, req.ParentEmail)
	setString("allergies", &student.Allergies, req.Allergies)
	setString("authorized_pickup", &student.AuthorizedPickup, req.AuthorizedPickup)
	setString("account_holder_name", &student.AccountHolderName, req.AccountHolderName)
	setString("nif", &student.NIF, req.NIF)

	if req.PaymentMethod != nil && models.PaymentMethod(*req.PaymentMethod) != student.PaymentMethod {
		changes = append(changes, models.FieldChange{Field: "payment_method", From: string(student.PaymentMethod), To: *req.PaymentMethod})
		student.PaymentMethod = models.PaymentMethod(*req.PaymentMethod)
	}
	if req.BirthDate != nil {
		previous := ""
		if student.BirthDate != nil {
			previous = student.BirthDate.String()
		}
		if *req.BirthDate != previous {
			if *req.BirthDate == "" {
				student.BirthDate = nil
			} else {
				birth, err := models.ParseDate(*req.BirthDate)
				if err != nil {
					return nil, err
				}
				student.BirthDate = &birth
			}
			changes = append(changes, models.FieldChange{Field: "birth_date", From: previous, To: *req.BirthDate})
		}
	}
	return changes, nil
}
