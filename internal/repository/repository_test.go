package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/docstore"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

func TestStudentRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(docstore.NewMemoryStore(nil, nil))

	student := &models.Student{NumericID: 1001, Name: "Lucía", Surname: "Gómez", ScheduleID: "h_400"}
	require.NoError(t, repo.Create(ctx, student))
	require.NotEmpty(t, student.ID)
	require.NoError(t, repo.Create(ctx, &models.Student{NumericID: 1002, Name: "Mateo"}))

	found, err := repo.FindByNumericID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, student.ID, found.ID)

	_, err = repo.FindByNumericID(ctx, 9999)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	student.ScheduleID = "h_560"
	require.NoError(t, repo.Replace(ctx, student))
	loaded, err := repo.FindByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "h_560", loaded.ScheduleID)

	require.NoError(t, repo.Delete(ctx, student.ID))
	_, err = repo.FindByID(ctx, student.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAttendanceRepositoryUsesNaturalKey(t *testing.T) {
	ctx := context.Background()
	repo := NewAttendanceRepository(docstore.NewMemoryStore(nil, nil))
	day := models.NewDate(2026, time.October, 5)

	require.NoError(t, repo.Save(ctx, &models.AttendanceRecord{StudentID: 1001, Date: day, EntryTime: "08:30"}))
	require.NoError(t, repo.Save(ctx, &models.AttendanceRecord{StudentID: 1001, Date: day, EntryTime: "08:30", ExitTime: "13:20"}))
	require.NoError(t, repo.Save(ctx, &models.AttendanceRecord{StudentID: 1002, Date: day, EntryTime: "09:00"}))
	require.NoError(t, repo.Save(ctx, &models.AttendanceRecord{StudentID: 1001, Date: models.Date{Time: day.AddDate(0, 0, 1)}, EntryTime: "08:40"}))

	record, err := repo.FindByKey(ctx, billing.AttendanceKey{StudentID: 1001, Date: day})
	require.NoError(t, err)
	assert.Equal(t, "13:20", record.ExitTime)
	assert.Equal(t, "att-1001-20261005", record.ID)

	onDay, err := repo.List(ctx, models.AttendanceFilter{Date: &day})
	require.NoError(t, err)
	assert.Len(t, onDay, 2)

	forStudent, err := repo.List(ctx, models.AttendanceFilter{StudentID: 1001})
	require.NoError(t, err)
	assert.Len(t, forStudent, 2)
}

func TestPenaltyRepositoryFilterAndEdit(t *testing.T) {
	ctx := context.Background()
	repo := NewPenaltyRepository(docstore.NewMemoryStore(nil, nil))

	october := &models.PenaltyRecord{StudentID: 1001, Date: models.NewDate(2026, time.October, 5), Amount: decimal.NewFromInt(6), Reason: "Late by 5 min."}
	require.NoError(t, repo.Create(ctx, october))
	require.NoError(t, repo.Create(ctx, &models.PenaltyRecord{StudentID: 1001, Date: models.NewDate(2026, time.September, 5), Amount: decimal.NewFromInt(12)}))
	require.NoError(t, repo.Create(ctx, &models.PenaltyRecord{StudentID: 1002, Date: models.NewDate(2026, time.October, 9), Amount: decimal.NewFromInt(6)}))

	list, err := repo.List(ctx, models.PenaltyFilter{StudentID: 1001, Year: 2026, Month: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, october.ID, list[0].ID)

	require.NoError(t, repo.Update(ctx, october.ID, map[string]interface{}{"amount": decimal.NewFromInt(3), "reason": "waived half"}))
	updated, err := repo.FindByID(ctx, october.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(updated.Amount))
	assert.Equal(t, "waived half", updated.Reason)
	assert.Equal(t, october.Date, updated.Date)

	require.NoError(t, repo.Delete(ctx, october.ID))
	assert.ErrorIs(t, repo.Delete(ctx, october.ID), docstore.ErrNotFound)
}

func TestInvoiceRepositoryPutReplacesSameMonth(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepository(docstore.NewMemoryStore(nil, nil))

	first := &models.Invoice{StudentID: 1001, Date: models.NewDate(2026, time.October, 1), TotalAmount: decimal.NewFromInt(400), Status: models.InvoiceStatusPending}
	require.NoError(t, repo.Put(ctx, first))
	second := &models.Invoice{StudentID: 1001, Date: models.NewDate(2026, time.October, 31), TotalAmount: decimal.NewFromInt(406), Status: models.InvoiceStatusPending}
	require.NoError(t, repo.Put(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	all, err := repo.List(ctx, models.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, decimal.NewFromInt(406).Equal(all[0].TotalAmount))

	at := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateStatus(ctx, first.ID, models.InvoiceStatusPaid, at))
	loaded, err := repo.FindByKey(ctx, billing.InvoiceKeyFor(1001, models.NewDate(2026, time.October, 15)))
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, loaded.Status)
	require.NotNil(t, loaded.UpdatedAt)
	assert.True(t, at.Equal(*loaded.UpdatedAt))

	paid, err := repo.List(ctx, models.InvoiceFilter{Status: models.InvoiceStatusPaid, Year: 2026, Month: 10})
	require.NoError(t, err)
	assert.Len(t, paid, 1)
	pending, err := repo.List(ctx, models.InvoiceFilter{Status: models.InvoiceStatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSettingsRepositoryWatch(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(docstore.NewMemoryStore(nil, nil))

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	updates, cancel, err := repo.Watch(ctx)
	require.NoError(t, err)
	defer cancel()

	first := <-updates
	assert.False(t, first.Exists)

	require.NoError(t, repo.Save(ctx, models.Settings{CenterName: "mi pequeño recreo", Currency: "€", LateFee: decimal.NewFromInt(6)}))
	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "€", settings.Currency)
}

func TestHistoryRepositoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(docstore.NewMemoryStore(nil, nil))
	base := time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, models.HistoryEntry{ID: "h1", User: "gonzalo", Action: "login", Timestamp: base}))
	require.NoError(t, repo.Append(ctx, models.HistoryEntry{ID: "h2", User: "gonzalo", Action: "invoices", Timestamp: base.Add(time.Hour)}))
	require.NoError(t, repo.Append(ctx, models.HistoryEntry{ID: "h1", User: "gonzalo", Action: "login", Timestamp: base}))

	entries, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "h2", entries[0].ID)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, repo.Notify(ctx, models.Notification{ID: "n1", Message: "3 invoices generated", CreatedAt: base}))
	notes, err := repo.Notifications(ctx, 10)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "3 invoices generated", notes[0].Message)
}

func TestStaffRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStaffRepository(docstore.NewMemoryStore(nil, nil))

	member := &models.StaffMember{Name: "Ana", Role: "Educadora"}
	require.NoError(t, repo.Create(ctx, member))
	now := time.Date(2026, 10, 5, 8, 0, 0, 0, time.UTC)
	member.CheckIn = &now
	require.NoError(t, repo.Replace(ctx, member))

	loaded, err := repo.FindByID(ctx, member.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.CheckIn)
	assert.True(t, now.Equal(*loaded.CheckIn))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	require.NoError(t, repo.Delete(ctx, member.ID))
}

func TestCacheRepositoryWithoutClientIsAlwaysMiss(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepository(nil, nil)

	require.NoError(t, repo.Set(ctx, "dashboard:summary:2026-10-19", map[string]int{"students": 3}, time.Minute))
	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "dashboard:summary:2026-10-19", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.DeleteByPattern(ctx, "dashboard:*"))
	assert.Equal(t, "daycare:cache:dashboard:*", repo.key("dashboard:*"))
}
