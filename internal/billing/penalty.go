package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/daycare-api/internal/models"
)

// LateUnitMinutes is the block of delay charged one late fee; partial blocks round up.
const LateUnitMinutes = 15

// PenaltyDraft is an unsaved late-pickup penalty.
type PenaltyDraft struct {
	StudentID   int64
	StudentName string
	Date        models.Date
	DelayMin    int
	Units       int
	Amount      decimal.Decimal
	Reason      string
}

// Record converts the draft into a storable penalty.
func (d PenaltyDraft) Record() models.PenaltyRecord {
	return models.PenaltyRecord{
		StudentID:   d.StudentID,
		StudentName: d.StudentName,
		Date:        d.Date,
		Amount:      d.Amount,
		Reason:      d.Reason,
	}
}

// EvaluateExit decides whether a pickup was late. It returns false when there
// is no exit time, the student or schedule cannot be resolved, a time does not
// parse, the pickup was on time, or the computed amount is not positive.
func EvaluateExit(record models.AttendanceRecord, student *models.Student, catalog *Catalog, lateFee decimal.Decimal) (*PenaltyDraft, bool) {
	if record.ExitTime == "" || student == nil {
		return nil, false
	}
	sched, ok := catalog.Lookup(student.ScheduleID)
	if !ok {
		return nil, false
	}
	end, err := ParseClock(sched.EndTime)
	if err != nil {
		return nil, false
	}
	exit, err := ParseClock(record.ExitTime)
	if err != nil {
		return nil, false
	}
	if exit <= end {
		return nil, false
	}

	delay := exit - end
	units := (delay + LateUnitMinutes - 1) / LateUnitMinutes
	amount := lateFee.Mul(decimal.NewFromInt(int64(units)))
	if !amount.IsPositive() {
		return nil, false
	}

	return &PenaltyDraft{
		StudentID:   student.NumericID,
		StudentName: student.FullName(),
		Date:        record.Date,
		DelayMin:    delay,
		Units:       units,
		Amount:      amount,
		Reason:      fmt.Sprintf("Late by %d min.", delay),
	}, true
}
