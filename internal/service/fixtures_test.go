package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/internal/repository"
	"github.com/noah-isme/daycare-api/pkg/docstore"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

type loggedAction struct {
	User    string
	Action  string
	Details string
}

type recordingActivity struct {
	mu            sync.Mutex
	actions       []loggedAction
	notifications []string
}

func (r *recordingActivity) LogAction(_ context.Context, user, action, details string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, loggedAction{User: user, Action: action, Details: details})
}

func (r *recordingActivity) NotifyUser(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, message)
}

func (r *recordingActivity) actionNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.actions))
	for _, a := range r.actions {
		names = append(names, a.Action)
	}
	return names
}

type staticSettings models.Settings

func (s staticSettings) Current() models.Settings { return models.Settings(s) }

func defaultTestSettings() staticSettings {
	return staticSettings{CenterName: "Escuela Infantil", Currency: "€", LateFee: decimal.NewFromInt(10)}
}

func fixedClock(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }, Location: time.UTC}
}

type testRepos struct {
	store      *docstore.MemoryStore
	students   *repository.StudentRepository
	attendance *repository.AttendanceRepository
	penalties  *repository.PenaltyRepository
	invoices   *repository.InvoiceRepository
	staff      *repository.StaffRepository
	settings   *repository.SettingsRepository
	history    *repository.HistoryRepository
}

func newTestRepos() testRepos {
	store := docstore.NewMemoryStore(nil, nil)
	return testRepos{
		store:      store,
		students:   repository.NewStudentRepository(store),
		attendance: repository.NewAttendanceRepository(store),
		penalties:  repository.NewPenaltyRepository(store),
		invoices:   repository.NewInvoiceRepository(store),
		staff:      repository.NewStaffRepository(store),
		settings:   repository.NewSettingsRepository(store),
		history:    repository.NewHistoryRepository(store),
	}
}

func (r testRepos) addStudent(t *testing.T, student models.Student) models.Student {
	t.Helper()
	require.NoError(t, r.students.Create(context.Background(), &student))
	return student
}

func requireAppError(t *testing.T, err error, status int) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %T", err)
	require.Equal(t, status, appErr.Status)
	return appErr
}
