package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
)

var octoberNoon = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func newInvoiceFixture(t *testing.T) (*InvoiceService, testRepos, *recordingActivity) {
	t.Helper()
	repos := newTestRepos()
	activity := &recordingActivity{}
	svc := NewInvoiceService(repos.invoices, repos.students, repos.penalties, billing.DefaultCatalog(), activity, NewMetricsService(), fixedClock(octoberNoon), nil, nil)
	return svc, repos, activity
}

func TestInvoiceServiceGenerateMonthlySkipsUnknownSchedules(t *testing.T) {
	ctx := context.Background()
	svc, repos, activity := newInvoiceFixture(t)

	repos.addStudent(t, models.Student{NumericID: 1001, Name: "Lucía", ScheduleID: "h_400", EnrollmentPaid: true})
	repos.addStudent(t, models.Student{NumericID: 1002, Name: "Mateo", ScheduleID: "h_999", EnrollmentPaid: true})
	repos.addStudent(t, models.Student{NumericID: 1003, Name: "Sara", ScheduleID: "h_305"})

	require.NoError(t, repos.penalties.Create(ctx, &models.PenaltyRecord{StudentID: 1001, Date: models.NewDate(2026, time.October, 2), Amount: decimal.NewFromInt(20)}))
	require.NoError(t, repos.penalties.Create(ctx, &models.PenaltyRecord{StudentID: 1001, Date: models.NewDate(2026, time.September, 30), Amount: decimal.NewFromInt(50)}))

	result, err := svc.GenerateMonthly(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed)

	invoices, err := repos.invoices.List(ctx, models.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	byStudent := map[int64]models.Invoice{}
	for _, inv := range invoices {
		byStudent[inv.StudentID] = inv
	}
	assert.True(t, decimal.NewFromInt(420).Equal(byStudent[1001].TotalAmount))
	assert.True(t, decimal.NewFromInt(20).Equal(byStudent[1001].PenaltiesAmount))
	assert.False(t, byStudent[1001].EnrollmentFeeIncluded)
	assert.True(t, decimal.NewFromInt(405).Equal(byStudent[1003].TotalAmount))
	assert.True(t, byStudent[1003].EnrollmentFeeIncluded)
	assert.Equal(t, models.InvoiceStatusPending, byStudent[1003].Status)
	assert.Equal(t, "2026-10-1003", byStudent[1003].Number)

	assert.Contains(t, activity.notifications, "2 invoices generated/updated.")
	assert.Contains(t, activity.actionNames(), "Billing")
}

func TestInvoiceServiceGenerateMonthlyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newInvoiceFixture(t)
	repos.addStudent(t, models.Student{NumericID: 1001, Name: "Lucía", ScheduleID: "h_400", EnrollmentPaid: true})

	_, err := svc.GenerateMonthly(ctx, "admin")
	require.NoError(t, err)
	_, err = svc.GenerateMonthly(ctx, "admin")
	require.NoError(t, err)

	invoices, err := repos.invoices.List(ctx, models.InvoiceFilter{StudentID: 1001})
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
}

func TestInvoiceServiceRegenerationResetsStatus(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newInvoiceFixture(t)
	repos.addStudent(t, models.Student{NumericID: 1001, Name: "Lucía", ScheduleID: "h_400", EnrollmentPaid: true})

	_, err := svc.GenerateMonthly(ctx, "admin")
	require.NoError(t, err)
	id := billing.InvoiceKeyFor(1001, models.DateOf(octoberNoon)).DocumentID()

	paid, err := svc.UpdateStatus(ctx, id, dto.UpdateInvoiceStatusRequest{Status: "PAID"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)

	_, err = svc.GenerateMonthly(ctx, "admin")
	require.NoError(t, err)
	regenerated, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPending, regenerated.Status)
}

func TestInvoiceServiceGenerateSingle(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newInvoiceFixture(t)
	repos.addStudent(t, models.Student{NumericID: 1001, Name: "Lucía", ScheduleID: "h_400"})
	repos.addStudent(t, models.Student{NumericID: 1002, Name: "Mateo", ScheduleID: ""})

	invoice, created, err := svc.GenerateSingle(ctx, dto.GenerateSingleInvoiceRequest{StudentID: 1001}, "staff")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, decimal.NewFromInt(500).Equal(invoice.TotalAmount))

	again, created, err := svc.GenerateSingle(ctx, dto.GenerateSingleInvoiceRequest{StudentID: 1001}, "staff")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, invoice.ID, again.ID)

	_, _, err = svc.GenerateSingle(ctx, dto.GenerateSingleInvoiceRequest{StudentID: 1002}, "staff")
	requireAppError(t, err, http.StatusUnprocessableEntity)

	_, _, err = svc.GenerateSingle(ctx, dto.GenerateSingleInvoiceRequest{StudentID: 4040}, "staff")
	requireAppError(t, err, http.StatusNotFound)
}

func TestInvoiceServiceUpdateStatusTransitions(t *testing.T) {
	ctx := context.Background()
	svc, repos, activity := newInvoiceFixture(t)
	repos.addStudent(t, models.Student{NumericID: 1001, Name: "Lucía", ScheduleID: "h_400"})
	invoice, _, err := svc.GenerateSingle(ctx, dto.GenerateSingleInvoiceRequest{StudentID: 1001}, "staff")
	require.NoError(t, err)

	overdue, err := svc.UpdateStatus(ctx, invoice.ID, dto.UpdateInvoiceStatusRequest{Status: "OVERDUE"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusOverdue, overdue.Status)
	require.NotNil(t, overdue.UpdatedAt)

	_, err = svc.UpdateStatus(ctx, invoice.ID, dto.UpdateInvoiceStatusRequest{Status: "PENDING"}, "admin")
	requireAppError(t, err, http.StatusConflict)

	paid, err := svc.UpdateStatus(ctx, invoice.ID, dto.UpdateInvoiceStatusRequest{Status: "PAID"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)

	_, err = svc.UpdateStatus(ctx, invoice.ID, dto.UpdateInvoiceStatusRequest{Status: "OVERDUE"}, "admin")
	requireAppError(t, err, http.StatusConflict)

	_, err = svc.UpdateStatus(ctx, "missing", dto.UpdateInvoiceStatusRequest{Status: "PAID"}, "admin")
	requireAppError(t, err, http.StatusNotFound)

	assert.Contains(t, activity.actionNames(), "Invoice status")
}
