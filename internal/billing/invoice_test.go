package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/models"
)

func penalty(studentID int64, date models.Date, amount int64) models.PenaltyRecord {
	return models.PenaltyRecord{StudentID: studentID, Date: date, Amount: decimal.NewFromInt(amount)}
}

func TestComputeInvoiceTotals(t *testing.T) {
	issue := models.NewDate(2026, time.October, 31)
	student := models.Student{NumericID: 42, Name: "Lucía", Surname: "Gómez", ScheduleID: "h_400"}
	penalties := []models.PenaltyRecord{
		penalty(42, models.NewDate(2026, time.October, 3), 6),
		penalty(42, models.NewDate(2026, time.October, 20), 12),
		penalty(42, models.NewDate(2026, time.September, 30), 6),
		penalty(42, models.NewDate(2025, time.October, 10), 6),
		penalty(43, models.NewDate(2026, time.October, 10), 6),
	}

	draft, err := ComputeInvoice(student, DefaultCatalog(), penalties, issue)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(400).Equal(draft.BaseAmount))
	assert.True(t, decimal.NewFromInt(18).Equal(draft.PenaltiesAmount))
	assert.True(t, draft.EnrollmentFeeIncluded)
	assert.True(t, decimal.NewFromInt(518).Equal(draft.TotalAmount), "total %s", draft.TotalAmount)
	assert.Equal(t, "Lucía Gómez", draft.StudentName)

	invoice := draft.Invoice()
	assert.Equal(t, "inv-42-2026-10", invoice.ID)
	assert.Equal(t, "2026-10-0042", invoice.Number)
	assert.Equal(t, models.InvoiceStatusPending, invoice.Status)
}

func TestComputeInvoiceEnrollmentPaid(t *testing.T) {
	student := models.Student{NumericID: 42, ScheduleID: "h_560", EnrollmentPaid: true}
	draft, err := ComputeInvoice(student, DefaultCatalog(), nil, models.NewDate(2026, time.January, 1))
	require.NoError(t, err)
	assert.False(t, draft.EnrollmentFeeIncluded)
	assert.True(t, decimal.Zero.Equal(draft.PenaltiesAmount))
	assert.True(t, decimal.NewFromInt(560).Equal(draft.TotalAmount))
	assert.True(t, decimal.NewFromInt(100).Equal(EnrollmentFee()))
}

func TestComputeInvoiceMissingSchedule(t *testing.T) {
	student := models.Student{NumericID: 42, ScheduleID: "h_999"}
	_, err := ComputeInvoice(student, DefaultCatalog(), nil, models.NewDate(2026, time.January, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSchedule))
}

func TestKeys(t *testing.T) {
	date := models.NewDate(2026, time.February, 7)
	assert.Equal(t, "att-1712345678901-20260207", AttendanceKey{StudentID: 1712345678901, Date: date}.DocumentID())

	key := InvoiceKeyFor(1712345678901, date)
	assert.Equal(t, InvoiceKey{StudentID: 1712345678901, Year: 2026, Month: time.February}, key)
	assert.Equal(t, "inv-1712345678901-2026-02", key.DocumentID())
	assert.Equal(t, "2026-02-8901", key.Number())
	assert.Equal(t, key, InvoiceKeyFor(1712345678901, models.NewDate(2026, time.February, 28)))
}

func TestCanTransition(t *testing.T) {
	pending, paid, overdue := models.InvoiceStatusPending, models.InvoiceStatusPaid, models.InvoiceStatusOverdue

	assert.True(t, CanTransition(pending, paid))
	assert.True(t, CanTransition(pending, overdue))
	assert.True(t, CanTransition(overdue, paid))

	assert.False(t, CanTransition(paid, pending))
	assert.False(t, CanTransition(paid, overdue))
	assert.False(t, CanTransition(overdue, pending))
	assert.False(t, CanTransition(pending, pending))
	assert.False(t, CanTransition(paid, paid))
	assert.False(t, CanTransition(pending, "VOID"))

	assert.True(t, ValidStatus(overdue))
	assert.False(t, ValidStatus("VOID"))
}

func TestCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	assert.Len(t, catalog.All(), 15)
	assert.Equal(t, "h_305", catalog.All()[0].ID)

	sched, ok := catalog.Lookup("h_415")
	require.True(t, ok)
	assert.Equal(t, "13:00", sched.EndTime)
	assert.True(t, decimal.NewFromInt(415).Equal(sched.Price))

	_, ok = (*Catalog)(nil).Lookup("h_415")
	assert.False(t, ok)
	assert.Contains(t, catalog.IDs(), "h_560")
}
