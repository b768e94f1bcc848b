package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/models"
)

func testStudent(schedule string) *models.Student {
	return &models.Student{ID: "s1", NumericID: 1712345678901, Name: "Lucía", Surname: "Gómez", ScheduleID: schedule}
}

func TestEvaluateExit(t *testing.T) {
	catalog := DefaultCatalog()
	fee := decimal.NewFromInt(6)
	day := models.NewDate(2026, time.October, 5)

	tests := []struct {
		name   string
		exit   string
		units  int
		amount int64
		reason string
	}{
		{name: "one minute late", exit: "13:01", units: 1, amount: 6, reason: "Late by 1 min."},
		{name: "exactly one block", exit: "13:15", units: 1, amount: 6, reason: "Late by 15 min."},
		{name: "just over one block", exit: "13:16", units: 2, amount: 12, reason: "Late by 16 min."},
		{name: "seconds ignored", exit: "13:31:59", units: 3, amount: 18, reason: "Late by 31 min."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			record := models.AttendanceRecord{StudentID: 1712345678901, Date: day, ExitTime: tc.exit}
			draft, ok := EvaluateExit(record, testStudent("h_400"), catalog, fee)
			require.True(t, ok)
			assert.Equal(t, tc.units, draft.Units)
			assert.True(t, decimal.NewFromInt(tc.amount).Equal(draft.Amount), "amount %s", draft.Amount)
			assert.Equal(t, tc.reason, draft.Reason)
			assert.Equal(t, "Lucía Gómez", draft.StudentName)
			assert.Equal(t, int64(1712345678901), draft.StudentID)
			assert.Equal(t, day, draft.Date)
		})
	}
}

func TestEvaluateExitNoPenalty(t *testing.T) {
	catalog := DefaultCatalog()
	fee := decimal.NewFromInt(6)
	day := models.NewDate(2026, time.October, 5)

	tests := []struct {
		name    string
		record  models.AttendanceRecord
		student *models.Student
		fee     decimal.Decimal
	}{
		{name: "on time", record: models.AttendanceRecord{Date: day, ExitTime: "13:00"}, student: testStudent("h_400"), fee: fee},
		{name: "early", record: models.AttendanceRecord{Date: day, ExitTime: "12:10"}, student: testStudent("h_400"), fee: fee},
		{name: "no exit time", record: models.AttendanceRecord{Date: day, EntryTime: "08:30"}, student: testStudent("h_400"), fee: fee},
		{name: "unknown student", record: models.AttendanceRecord{Date: day, ExitTime: "19:00"}, student: nil, fee: fee},
		{name: "unknown schedule", record: models.AttendanceRecord{Date: day, ExitTime: "19:00"}, student: testStudent("h_999"), fee: fee},
		{name: "unparsable exit", record: models.AttendanceRecord{Date: day, ExitTime: "late"}, student: testStudent("h_400"), fee: fee},
		{name: "zero fee", record: models.AttendanceRecord{Date: day, ExitTime: "14:00"}, student: testStudent("h_400"), fee: decimal.Zero},
		{name: "no midnight rollover", record: models.AttendanceRecord{Date: day, ExitTime: "00:30"}, student: testStudent("h_560"), fee: fee},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft, ok := EvaluateExit(tc.record, tc.student, catalog, tc.fee)
			assert.False(t, ok)
			assert.Nil(t, draft)
		})
	}
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18*60+30, minutes)

	minutes, err = ParseClock(" 07:05:09 ")
	require.NoError(t, err)
	assert.Equal(t, 7*60+5, minutes)

	for _, raw := range []string{"", "7", "24:00", "12:60", "aa:10", "10:10:99", "1:2:3:4"} {
		_, err := ParseClock(raw)
		assert.Error(t, err, raw)
	}
}

func TestPenaltyDraftRecord(t *testing.T) {
	draft := PenaltyDraft{StudentID: 7, StudentName: "Mateo Ruiz", Date: models.NewDate(2026, time.March, 2), Amount: decimal.NewFromInt(12), Reason: "Late by 20 min."}
	record := draft.Record()
	assert.Empty(t, record.ID)
	assert.Equal(t, int64(7), record.StudentID)
	assert.Equal(t, "Late by 20 min.", record.Reason)
}
