package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

type invoiceRepository interface {
	FindByKey(ctx context.Context, key billing.InvoiceKey) (*models.Invoice, error)
	FindByID(ctx context.Context, id string) (*models.Invoice, error)
	Put(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, id string, status models.InvoiceStatus, at time.Time) error
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error)
}

type studentDirectory interface {
	studentLookup
	List(ctx context.Context) ([]models.Student, error)
}

type penaltyLister interface {
	List(ctx context.Context, filter models.PenaltyFilter) ([]models.PenaltyRecord, error)
}

// InvoiceService generates monthly invoices and tracks their payment status.
type InvoiceService struct {
	repo      invoiceRepository
	students  studentDirectory
	penalties penaltyLister
	catalog   *billing.Catalog
	activity  activityLogger
	metrics   *MetricsService
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInvoiceService constructs InvoiceService.
func NewInvoiceService(repo invoiceRepository, students studentDirectory, penalties penaltyLister, catalog *billing.Catalog, activity activityLogger, metrics *MetricsService, clock Clock, validate *validator.Validate, logger *zap.Logger) *InvoiceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		repo:      repo,
		students:  students,
		penalties: penalties,
		catalog:   catalog,
		activity:  activity,
		metrics:   metrics,
		clock:     clock,
		validator: validate,
		logger:    logger,
	}
}

// GenerateMonthly creates or regenerates the current month's invoice of every
// student. Students whose schedule is unknown are skipped without error;
// students whose invoice cannot be written are counted as failed.
func (s *InvoiceService) GenerateMonthly(ctx context.Context, actor string) (*models.InvoiceGenerationResult, error) {
	today := s.clock.today()
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	penalties, err := s.monthPenalties(ctx, 0, today)
	if err != nil {
		return nil, err
	}

	result := &models.InvoiceGenerationResult{}
	for _, student := range students {
		if err := ctx.Err(); err != nil {
			s.metrics.InvoiceGeneration(GenerationModeBatch, result.Processed, result.Skipped, result.Failed)
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invoice generation interrupted")
		}
		draft, err := billing.ComputeInvoice(student, s.catalog, penalties, today)
		if err != nil {
			if !errors.Is(err, billing.ErrMissingSchedule) {
				result.Failed++
				s.logger.Warn("failed to compute invoice", zap.Int64("student_id", student.NumericID), zap.Error(err))
				continue
			}
			result.Skipped++
			s.logger.Debug("student skipped by invoice generation", zap.Int64("student_id", student.NumericID), zap.String("schedule_id", student.ScheduleID))
			continue
		}
		if _, _, err := s.upsert(ctx, draft); err != nil {
			result.Failed++
			s.logger.Warn("failed to write invoice", zap.Int64("student_id", student.NumericID), zap.Error(err))
			continue
		}
		result.Processed++
	}

	s.metrics.InvoiceGeneration(GenerationModeBatch, result.Processed, result.Skipped, result.Failed)
	s.logger.Info("monthly invoices generated",
		zap.String("month", today.Format("2006-01")),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	s.activity.NotifyUser(ctx, fmt.Sprintf("%d invoices generated/updated.", result.Processed))
	s.activity.LogAction(ctx, actor, "Billing", fmt.Sprintf("Generated/updated %d invoices for %s.", result.Processed, today.Format("2006-01")))
	return result, nil
}

// GenerateSingle returns the student's invoice for the current month,
// creating it first when none exists. Unlike the batch run, an unknown
// schedule is reported as ErrMissingSchedule.
func (s *InvoiceService) GenerateSingle(ctx context.Context, req dto.GenerateSingleInvoiceRequest, actor string) (*models.Invoice, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid invoice request")
	}
	student, err := s.students.FindByNumericID(ctx, req.StudentID)
	if err != nil {
		if isNotFound(err) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	today := s.clock.today()
	existing, err := s.repo.FindByKey(ctx, billing.InvoiceKeyFor(student.NumericID, today))
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}

	penalties, err := s.monthPenalties(ctx, student.NumericID, today)
	if err != nil {
		return nil, false, err
	}
	draft, err := billing.ComputeInvoice(*student, s.catalog, penalties, today)
	if err != nil {
		if errors.Is(err, billing.ErrMissingSchedule) {
			return nil, false, appErrors.Wrap(err, appErrors.ErrMissingSchedule.Code, appErrors.ErrMissingSchedule.Status, "student has no valid schedule assigned")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute invoice")
	}
	invoice, _, err := s.upsert(ctx, draft)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create invoice")
	}

	s.metrics.InvoiceGeneration(GenerationModeSingle, 1, 0, 0)
	s.activity.LogAction(ctx, actor, "Single invoice", fmt.Sprintf("Invoice generated for %s.", student.FullName()))
	return invoice, true, nil
}

// UpdateStatus applies a manual status transition.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id string, req dto.UpdateInvoiceStatusRequest, actor string) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}

	next := models.InvoiceStatus(req.Status)
	if !billing.CanTransition(invoice.Status, next) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatusTransition, fmt.Sprintf("cannot change invoice status from %s to %s", invoice.Status, next))
	}
	now := s.clock.now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, next, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update invoice status")
	}
	invoice.Status = next
	invoice.UpdatedAt = &now

	s.metrics.InvoiceStatusChanged(string(next))
	s.activity.NotifyUser(ctx, "Invoice status updated.")
	s.activity.LogAction(ctx, actor, "Invoice status", fmt.Sprintf("Invoice %s of %s marked %s.", invoice.Number, invoice.StudentName, next))
	return invoice, nil
}

// Get loads an invoice.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}
	return invoice, nil
}

// List returns invoices matching the query.
func (s *InvoiceService) List(ctx context.Context, query dto.ListInvoicesQuery) ([]models.Invoice, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid invoice filter")
	}
	invoices, err := s.repo.List(ctx, models.InvoiceFilter{
		StudentID: query.StudentID,
		Status:    models.InvoiceStatus(query.Status),
		Year:      query.Year,
		Month:     query.Month,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invoices")
	}
	return invoices, nil
}

// upsert writes the draft under its natural key. A regenerated invoice is
// fully replaced, so its status returns to PENDING.
func (s *InvoiceService) upsert(ctx context.Context, draft billing.InvoiceDraft) (*models.Invoice, bool, error) {
	existing, err := s.repo.FindByKey(ctx, draft.Key())
	if err != nil && !isNotFound(err) {
		return nil, false, err
	}
	invoice := draft.Invoice()
	invoice.GeneratedAt = s.clock.now().UTC()
	if existing != nil && existing.Status != models.InvoiceStatusPending {
		s.logger.Warn("regeneration resets invoice status",
			zap.String("invoice_id", existing.ID),
			zap.String("previous_status", string(existing.Status)),
		)
	}
	if err := s.repo.Put(ctx, &invoice); err != nil {
		return nil, false, err
	}
	return &invoice, existing == nil, nil
}

func (s *InvoiceService) monthPenalties(ctx context.Context, studentID int64, day models.Date) ([]models.PenaltyRecord, error) {
	penalties, err := s.penalties.List(ctx, models.PenaltyFilter{StudentID: studentID, Year: day.Year(), Month: int(day.Month())})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list penalties")
	}
	return penalties, nil
}
