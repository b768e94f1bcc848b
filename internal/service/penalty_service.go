package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

type penaltyRepository interface {
	penaltyLister
	FindByID(ctx context.Context, id string) (*models.PenaltyRecord, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// PenaltyService lets staff review, correct and remove penalties.
type PenaltyService struct {
	repo      penaltyRepository
	activity  activityLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPenaltyService constructs PenaltyService.
func NewPenaltyService(repo penaltyRepository, activity activityLogger, validate *validator.Validate, logger *zap.Logger) *PenaltyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PenaltyService{repo: repo, activity: activity, validator: validate, logger: logger}
}

// List returns penalties matching the query.
func (s *PenaltyService) List(ctx context.Context, query dto.ListPenaltiesQuery) ([]models.PenaltyRecord, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid penalty filter")
	}
	penalties, err := s.repo.List(ctx, models.PenaltyFilter{StudentID: query.StudentID, Year: query.Year, Month: query.Month})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list penalties")
	}
	return penalties, nil
}

// Update edits the amount and/or reason of a penalty.
func (s *PenaltyService) Update(ctx context.Context, id string, req dto.UpdatePenaltyRequest, actor string) (*models.PenaltyRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid penalty payload")
	}
	fields := make(map[string]interface{})
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "penalty amount must be positive")
		}
		fields["amount"] = *req.Amount
	}
	if req.Reason != nil {
		fields["reason"] = *req.Reason
	}
	if len(fields) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to update")
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "penalty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update penalty")
	}
	penalty, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload penalty")
	}

	s.activity.NotifyUser(ctx, "Penalty updated.")
	s.activity.LogAction(ctx, actor, "Penalty updated", fmt.Sprintf("Penalty of %s on %s changed to %s.", penalty.StudentName, penalty.Date, penalty.Amount.StringFixed(2)))
	return penalty, nil
}

// Delete removes a penalty.
func (s *PenaltyService) Delete(ctx context.Context, id, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "penalty not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete penalty")
	}
	s.activity.NotifyUser(ctx, "Penalty deleted.")
	s.activity.LogAction(ctx, actor, "Penalty deleted", fmt.Sprintf("Penalty %s deleted.", id))
	return nil
}
