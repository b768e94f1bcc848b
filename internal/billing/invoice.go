package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/daycare-api/internal/models"
)

const enrollmentFeeAmount = 100

// EnrollmentFee is added to the first invoice of a student whose enrollment is unpaid.
func EnrollmentFee() decimal.Decimal {
	return decimal.NewFromInt(enrollmentFeeAmount)
}

// ErrMissingSchedule is returned when a student's schedule is not in the catalog.
var ErrMissingSchedule = errors.New("student schedule not found in catalog")

// InvoiceDraft is an unsaved invoice.
type InvoiceDraft struct {
	StudentID             int64
	StudentName           string
	Date                  models.Date
	BaseAmount            decimal.Decimal
	PenaltiesAmount       decimal.Decimal
	EnrollmentFeeIncluded bool
	TotalAmount           decimal.Decimal
}

// Key is the natural key of the invoice.
func (d InvoiceDraft) Key() InvoiceKey {
	return InvoiceKeyFor(d.StudentID, d.Date)
}

// Invoice converts the draft into a PENDING invoice stored under its natural key.
func (d InvoiceDraft) Invoice() models.Invoice {
	key := d.Key()
	return models.Invoice{
		ID:                    key.DocumentID(),
		Number:                key.Number(),
		StudentID:             d.StudentID,
		StudentName:           d.StudentName,
		Date:                  d.Date,
		BaseAmount:            d.BaseAmount,
		PenaltiesAmount:       d.PenaltiesAmount,
		EnrollmentFeeIncluded: d.EnrollmentFeeIncluded,
		TotalAmount:           d.TotalAmount,
		Status:                models.InvoiceStatusPending,
	}
}

// ComputeInvoice totals the month of issueDate for a student: schedule price,
// plus that student's penalties dated in the same calendar month, plus the
// enrollment fee when unpaid.
func ComputeInvoice(student models.Student, catalog *Catalog, penalties []models.PenaltyRecord, issueDate models.Date) (InvoiceDraft, error) {
	sched, ok := catalog.Lookup(student.ScheduleID)
	if !ok {
		return InvoiceDraft{}, fmt.Errorf("%w: student %d schedule %q", ErrMissingSchedule, student.NumericID, student.ScheduleID)
	}

	penaltyTotal := decimal.Zero
	for _, p := range penalties {
		if p.StudentID != student.NumericID || !p.Date.SameMonth(issueDate) {
			continue
		}
		penaltyTotal = penaltyTotal.Add(p.Amount)
	}

	total := sched.Price.Add(penaltyTotal)
	includeFee := !student.EnrollmentPaid
	if includeFee {
		total = total.Add(EnrollmentFee())
	}

	return InvoiceDraft{
		StudentID:             student.NumericID,
		StudentName:           student.FullName(),
		Date:                  issueDate,
		BaseAmount:            sched.Price,
		PenaltiesAmount:       penaltyTotal,
		EnrollmentFeeIncluded: includeFee,
		TotalAmount:           total,
	}, nil
}
