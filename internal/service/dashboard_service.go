package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/daycare-api/internal/models"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

const dashboardCachePrefix = "dashboard:summary:"

// DashboardSources groups the collections summarised on the dashboard.
type DashboardSources struct {
	Students   studentDirectory
	Attendance attendanceLister
	Penalties  penaltyLister
	Invoices   invoiceLister
	Staff      staffLister
}

// DashboardService composes the home screen summary and caches it briefly.
type DashboardService struct {
	sources  DashboardSources
	cache    *CacheService
	cacheTTL time.Duration
	clock    Clock
	logger   *zap.Logger
}

// NewDashboardService constructs DashboardService. cache may be nil.
func NewDashboardService(sources DashboardSources, cache *CacheService, cacheTTL time.Duration, clock Clock, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{sources: sources, cache: cache, cacheTTL: cacheTTL, clock: clock, logger: logger}
}

// Summary returns today's figures. The bool reports a cache hit.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, bool, error) {
	today := s.clock.today()
	key := dashboardCachePrefix + today.String()

	var cached models.DashboardSummary
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	summary, err := s.build(ctx, today)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build dashboard")
	}
	if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		s.logger.Debug("dashboard summary not cached", zap.Error(err))
	}
	return summary, false, nil
}

// Invalidate drops cached summaries.
func (s *DashboardService) Invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, dashboardCachePrefix+"*")
}

func (s *DashboardService) build(ctx context.Context, today models.Date) (*models.DashboardSummary, error) {
	students, err := s.sources.Students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("students: %w", err)
	}
	attendance, err := s.sources.Attendance.List(ctx, models.AttendanceFilter{Date: &today})
	if err != nil {
		return nil, fmt.Errorf("attendance: %w", err)
	}
	penalties, err := s.sources.Penalties.List(ctx, models.PenaltyFilter{Year: today.Year(), Month: int(today.Month())})
	if err != nil {
		return nil, fmt.Errorf("penalties: %w", err)
	}
	invoices, err := s.sources.Invoices.List(ctx, models.InvoiceFilter{Year: today.Year(), Month: int(today.Month())})
	if err != nil {
		return nil, fmt.Errorf("invoices: %w", err)
	}
	staff, err := s.sources.Staff.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("staff: %w", err)
	}

	summary := &models.DashboardSummary{
		Date:           today,
		Students:       len(students),
		MonthPenalties: decimal.Zero,
		MonthInvoiceTotal: map[models.InvoiceStatus]decimal.Decimal{
			models.InvoiceStatusPending: decimal.Zero,
			models.InvoiceStatusPaid:    decimal.Zero,
			models.InvoiceStatusOverdue: decimal.Zero,
		},
		GeneratedAt: s.clock.now().UTC(),
	}
	for _, rec := range attendance {
		if rec.EntryTime != "" {
			summary.PresentToday++
		}
		if rec.ExitTime != "" {
			summary.PickedUpToday++
		}
	}
	for _, p := range penalties {
		summary.MonthPenalties = summary.MonthPenalties.Add(p.Amount)
	}
	for _, inv := range invoices {
		summary.MonthInvoiceTotal[inv.Status] = summary.MonthInvoiceTotal[inv.Status].Add(inv.TotalAmount)
	}
	for _, m := range staff {
		if m.CheckIn != nil && m.CheckOut == nil && models.DateOf(m.CheckIn.In(s.clock.now().Location())) == today {
			summary.StaffOnSite++
		}
	}
	return summary, nil
}
