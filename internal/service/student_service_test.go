package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
)

func newStudentFixture() (*StudentService, testRepos, *recordingActivity) {
	repos := newTestRepos()
	activity := &recordingActivity{}
	svc := NewStudentService(repos.students, billing.DefaultCatalog(), activity, fixedClock(octoberNoon), nil, nil)
	return svc, repos, activity
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func TestStudentServiceEnroll(t *testing.T) {
	ctx := context.Background()
	svc, _, activity := newStudentFixture()

	student, err := svc.Enroll(ctx, dto.CreateStudentRequest{
		Name:          "Lucía",
		Surname:       "Gómez",
		ScheduleID:    "h_400",
		BirthDate:     "2023-03-14",
		PaymentMethod: "DIRECT_DEBIT",
	}, "staff")
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, octoberNoon.UnixMilli(), student.NumericID)
	require.NotNil(t, student.BirthDate)
	assert.Equal(t, "2023-03-14", student.BirthDate.String())
	assert.Empty(t, student.Documents)
	assert.Empty(t, student.ModificationHistory)
	assert.Equal(t, models.PaymentMethodDirectDebit, student.PaymentMethod)
	assert.Contains(t, activity.actionNames(), "Enrollment")

	second, err := svc.Enroll(ctx, dto.CreateStudentRequest{Name: "Mateo", Surname: "Ruiz", ScheduleID: "h_305"}, "staff")
	require.NoError(t, err)
	assert.Equal(t, student.NumericID+1, second.NumericID)

	_, err = svc.Enroll(ctx, dto.CreateStudentRequest{Name: "Sara", Surname: "Díaz", ScheduleID: "h_999"}, "staff")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestStudentServiceUpdateRecordsChanges(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newStudentFixture()
	stored := repos.addStudent(t, models.Student{NumericID: 1001, Name: "Lucía", Surname: "Gómez", ScheduleID: "h_400"})

	updated, err := svc.Update(ctx, stored.ID, dto.UpdateStudentRequest{
		ScheduleID:     strPtr("h_560"),
		EnrollmentPaid: boolPtr(true),
		Name:           strPtr("Lucía"),
	}, "admin")
	require.NoError(t, err)
	require.Len(t, updated.ModificationHistory, 1)
	entry := updated.ModificationHistory[0]
	assert.Equal(t, "admin", entry.User)
	assert.Equal(t, octoberNoon, entry.Timestamp)
	assert.ElementsMatch(t, []models.FieldChange{
		{Field: "schedule_id", From: "h_400", To: "h_560"},
		{Field: "enrollment_paid", From: "false", To: "true"},
	}, entry.Changes)

	unchanged, err := svc.Update(ctx, stored.ID, dto.UpdateStudentRequest{Name: strPtr("Lucía")}, "admin")
	require.NoError(t, err)
	assert.Len(t, unchanged.ModificationHistory, 1)

	_, err = svc.Update(ctx, stored.ID, dto.UpdateStudentRequest{ScheduleID: strPtr("nope")}, "admin")
	requireAppError(t, err, http.StatusBadRequest)
	_, err = svc.Update(ctx, "missing", dto.UpdateStudentRequest{Name: strPtr("X")}, "admin")
	requireAppError(t, err, http.StatusNotFound)
}

func TestStudentServiceDocumentsAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newStudentFixture()
	stored := repos.addStudent(t, models.Student{NumericID: 1001, Name: "Lucía", ScheduleID: "h_400"})

	doc, err := svc.AddDocument(ctx, stored.ID, dto.AddStudentDocumentRequest{Name: "vacunas.pdf", ContentType: "application/pdf", Data: "JVBERi0xLjQ="}, "staff")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)

	loaded, err := svc.Get(ctx, stored.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Documents, 1)
	assert.Equal(t, "vacunas.pdf", loaded.Documents[0].Name)

	_, err = svc.AddDocument(ctx, stored.ID, dto.AddStudentDocumentRequest{Name: "bad", Data: "%%%"}, "staff")
	requireAppError(t, err, http.StatusBadRequest)

	require.NoError(t, svc.Delete(ctx, stored.ID, "admin"))
	_, err = svc.Get(ctx, stored.ID)
	requireAppError(t, err, http.StatusNotFound)
	requireAppError(t, svc.Delete(ctx, stored.ID, "admin"), http.StatusNotFound)
}
