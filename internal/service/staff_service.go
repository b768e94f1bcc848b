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

type staffRepository interface {
	Create(ctx context.Context, member *models.StaffMember) error
	FindByID(ctx context.Context, id string) (*models.StaffMember, error)
	List(ctx context.Context) ([]models.StaffMember, error)
	Replace(ctx context.Context, member *models.StaffMember) error
	Delete(ctx context.Context, id string) error
}

// StaffService manages employees and their time clock.
type StaffService struct {
	repo      staffRepository
	activity  activityLogger
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs StaffService.
func NewStaffService(repo staffRepository, activity activityLogger, clock Clock, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, activity: activity, clock: clock, validator: validate, logger: logger}
}

// List returns every staff member.
func (s *StaffService) List(ctx context.Context) ([]models.StaffMember, error) {
	members, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	return members, nil
}

// Create adds a staff member with an empty time clock.
func (s *StaffService) Create(ctx context.Context, req dto.CreateStaffRequest, actor string) (*models.StaffMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	member := &models.StaffMember{Name: req.Name, Role: req.Role, Phone: req.Phone}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff member")
	}
	s.activity.NotifyUser(ctx, fmt.Sprintf("%s added to staff.", member.Name))
	s.activity.LogAction(ctx, actor, "Staff added", fmt.Sprintf("Staff member %s (%s) added.", member.Name, member.Role))
	return member, nil
}

// CheckIn stamps the arrival time and clears any previous departure.
func (s *StaffService) CheckIn(ctx context.Context, id, actor string) (*models.StaffMember, error) {
	return s.clockEvent(ctx, id, actor, func(m *models.StaffMember) {
		now := s.clock.now().UTC()
		m.CheckIn = &now
		m.CheckOut = nil
	}, "checked in")
}

// CheckOut stamps the departure time.
func (s *StaffService) CheckOut(ctx context.Context, id, actor string) (*models.StaffMember, error) {
	return s.clockEvent(ctx, id, actor, func(m *models.StaffMember) {
		now := s.clock.now().UTC()
		m.CheckOut = &now
	}, "checked out")
}

// Delete removes a staff member.
func (s *StaffService) Delete(ctx context.Context, id, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete staff member")
	}
	s.activity.LogAction(ctx, actor, "Staff removed", fmt.Sprintf("Staff member %s removed.", id))
	return nil
}

func (s *StaffService) clockEvent(ctx context.Context, id, actor string, apply func(*models.StaffMember), verb string) (*models.StaffMember, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	apply(member)
	if err := s.repo.Replace(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update staff member")
	}
	s.activity.NotifyUser(ctx, "Staff time clock updated.")
	s.activity.LogAction(ctx, actor, "Staff time clock", fmt.Sprintf("%s %s.", member.Name, verb))
	return member, nil
}
