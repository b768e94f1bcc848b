package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

type attendanceRepository interface {
	FindByKey(ctx context.Context, key billing.AttendanceKey) (*models.AttendanceRecord, error)
	Save(ctx context.Context, record *models.AttendanceRecord) error
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
}

type studentLookup interface {
	FindByNumericID(ctx context.Context, numericID int64) (*models.Student, error)
}

type penaltyCreator interface {
	Create(ctx context.Context, penalty *models.PenaltyRecord) error
}

// AttendanceResult reports what a save wrote.
type AttendanceResult struct {
	Record  *models.AttendanceRecord `json:"record"`
	Penalty *models.PenaltyRecord    `json:"penalty,omitempty"`
}

// AttendanceService records entries and exits and charges late pickups.
type AttendanceService struct {
	repo      attendanceRepository
	students  studentLookup
	penalties penaltyCreator
	catalog   *billing.Catalog
	settings  settingsSource
	activity  activityLogger
	metrics   *MetricsService
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(repo attendanceRepository, students studentLookup, penalties penaltyCreator, catalog *billing.Catalog, settings settingsSource, activity activityLogger, metrics *MetricsService, clock Clock, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		repo:      repo,
		students:  students,
		penalties: penalties,
		catalog:   catalog,
		settings:  settings,
		activity:  activity,
		metrics:   metrics,
		clock:     clock,
		validator: validate,
		logger:    logger,
	}
}

// Save upserts the attendance of a student for a day and, whenever the saved
// exit time is past the schedule end, creates a late-pickup penalty. A request
// with neither entry nor exit time writes nothing and returns nil.
func (s *AttendanceService) Save(ctx context.Context, req dto.SaveAttendanceRequest, actor string) (*AttendanceResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if req.EntryTime == "" && req.ExitTime == "" {
		return nil, nil
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance date")
	}

	student, err := s.students.FindByNumericID(ctx, req.StudentID)
	if err != nil {
		if !isNotFound(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
		student = nil
	}

	key := billing.AttendanceKey{StudentID: req.StudentID, Date: date}
	existing, err := s.repo.FindByKey(ctx, key)
	if err != nil && !isNotFound(err) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	record := mergeAttendance(existing, req, date, student)
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}
	s.activity.NotifyUser(ctx, fmt.Sprintf("Attendance for %s saved.", record.StudentName))
	s.activity.LogAction(ctx, actor, "Attendance", fmt.Sprintf("Attendance saved for %s on %s.", record.StudentName, record.Date))

	result := &AttendanceResult{Record: record}
	if req.ExitTime == "" {
		return result, nil
	}

	settings := s.settings.Current()
	draft, ok := billing.EvaluateExit(*record, student, s.catalog, settings.LateFee)
	if !ok {
		return result, nil
	}
	penalty := draft.Record()
	penalty.CreatedAt = s.clock.now().UTC()
	if err := s.penalties.Create(ctx, &penalty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "attendance saved but failed to record late-pickup penalty")
	}
	s.metrics.PenaltyCreated()
	s.logger.Info("late pickup penalty created",
		zap.Int64("student_id", penalty.StudentID),
		zap.Int("delay_min", draft.DelayMin),
		zap.String("amount", penalty.Amount.String()),
	)

	amount := penalty.Amount.StringFixed(2) + settings.Currency
	s.activity.NotifyUser(ctx, fmt.Sprintf("Penalty of %s added for %s.", amount, student.Name))
	s.activity.LogAction(ctx, actor, "Penalty", fmt.Sprintf("Late-pickup penalty of %s created for %s.", amount, penalty.StudentName))

	result.Penalty = &penalty
	return result, nil
}

// List returns attendance records, optionally for a single day or student.
func (s *AttendanceService) List(ctx context.Context, query dto.ListAttendanceQuery) ([]models.AttendanceRecord, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance filter")
	}
	filter := models.AttendanceFilter{StudentID: query.StudentID}
	if query.Date != "" {
		date, err := models.ParseDate(query.Date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance date")
		}
		filter.Date = &date
	}
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, nil
}

// mergeAttendance overlays the non-empty request fields on the stored record.
func mergeAttendance(existing *models.AttendanceRecord, req dto.SaveAttendanceRequest, date models.Date, student *models.Student) *models.AttendanceRecord {
	record := &models.AttendanceRecord{StudentID: req.StudentID, Date: date}
	if existing != nil {
		*record = *existing
	}
	switch {
	case student != nil:
		record.StudentName = student.FullName()
	case req.StudentName != "":
		record.StudentName = req.StudentName
	}
	overlay := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	overlay(&record.EntryTime, req.EntryTime)
	overlay(&record.ExitTime, req.ExitTime)
	overlay(&record.DroppedOffBy, req.DroppedOffBy)
	overlay(&record.PickedUpBy, req.PickedUpBy)
	return record
}
