package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/storage"
)

func newExportFixture(t *testing.T) (*ExportService, testRepos) {
	t.Helper()
	repos := newTestRepos()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("export-secret", time.Hour)
	sources := ExportSources{
		Students:   repos.students,
		Attendance: repos.attendance,
		Invoices:   repos.invoices,
		Penalties:  repos.penalties,
		Staff:      repos.staff,
		History:    repos.history,
	}
	svc := NewExportService(sources, defaultTestSettings(), files, signer, &recordingActivity{}, fixedClock(octoberNoon), ExportConfig{APIPrefix: "/api/v1"}, nil, nil, nil)
	return svc, repos
}

func TestExportServiceCSV(t *testing.T) {
	ctx := context.Background()
	svc, repos := newExportFixture(t)

	_, _, err := svc.CSV(ctx, ExportStudents, "admin")
	requireAppError(t, err, http.StatusNotFound)

	repos.addStudent(t, models.Student{NumericID: 1001, Name: "Lucía", Surname: "Gómez", ScheduleID: "h_400", NIF: "12345678Z"})
	filename, body, err := svc.CSV(ctx, ExportStudents, "admin")
	require.NoError(t, err)
	assert.Equal(t, "students_export_2026-10-19.csv", filename)
	assert.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(body), "Lucía,Gómez")
	assert.Contains(t, string(body), "12345678Z")

	_, _, err = svc.CSV(ctx, "grades", "admin")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestExportServiceInvoicePDF(t *testing.T) {
	ctx := context.Background()
	svc, repos := newExportFixture(t)
	repos.addStudent(t, models.Student{
		NumericID:         1001,
		Name:              "Lucía",
		Surname:           "Gómez",
		ScheduleID:        "h_400",
		AccountHolderName: "María Gómez",
		NIF:               "12345678Z",
		Address:           "Calle Mayor 1, Madrid",
		PaymentMethod:     models.PaymentMethodTransfer,
	})
	invoices := NewInvoiceService(repos.invoices, repos.students, repos.penalties, billing.DefaultCatalog(), &recordingActivity{}, nil, fixedClock(octoberNoon), nil, nil)
	invoice, _, err := invoices.GenerateSingle(ctx, dto.GenerateSingleInvoiceRequest{StudentID: 1001}, "staff")
	require.NoError(t, err)

	link, err := svc.InvoicePDF(ctx, invoice.ID, "staff")
	require.NoError(t, err)
	assert.Equal(t, "factura_2026-10-1001.pdf", link.Filename)
	require.True(t, strings.HasPrefix(link.URL, "/api/v1/export/"))

	filename, file, err := svc.Open(strings.TrimPrefix(link.URL, "/api/v1/export/"))
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, link.Filename, filename)
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	_, _, err = svc.Open("forged.token")
	requireAppError(t, err, http.StatusForbidden)

	_, err = svc.InvoicePDF(ctx, "missing", "staff")
	requireAppError(t, err, http.StatusNotFound)
}

func TestExportServiceInvoiceDocumentLines(t *testing.T) {
	svc, _ := newExportFixture(t)
	invoice := models.Invoice{
		Number:                "2026-10-1001",
		StudentName:           "Lucía Gómez",
		Date:                  models.NewDate(2026, time.October, 19),
		BaseAmount:            billing.DefaultCatalog().All()[0].Price,
		PenaltiesAmount:       decimal.NewFromInt(20),
		EnrollmentFeeIncluded: true,
	}
	doc := svc.invoiceDocument(invoice, nil)
	require.Len(t, doc.Lines, 3)
	assert.Equal(t, "Matrícula", doc.Lines[0].Concept)
	assert.Equal(t, "Jardín de infancia (octubre 2026)", doc.Lines[1].Concept)
	assert.Equal(t, "Lucía Gómez", doc.ClientName)
	assert.Equal(t, "€", doc.Currency)
	assert.Equal(t, "19/10/2026", doc.Date)
}

func TestExportServiceInvoicePDFRemovesFileWhenSigningFails(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	sources := ExportSources{Students: repos.students, Invoices: repos.invoices}
	svc := NewExportService(sources, defaultTestSettings(), files, storage.NewSignedURLSigner("", time.Hour), &recordingActivity{}, fixedClock(octoberNoon), ExportConfig{}, nil, nil, nil)

	repos.addStudent(t, models.Student{NumericID: 1001, Name: "Lucía", Surname: "Gómez", ScheduleID: "h_400"})
	invoices := NewInvoiceService(repos.invoices, repos.students, repos.penalties, billing.DefaultCatalog(), &recordingActivity{}, nil, fixedClock(octoberNoon), nil, nil)
	invoice, _, err := invoices.GenerateSingle(ctx, dto.GenerateSingleInvoiceRequest{StudentID: 1001}, "staff")
	require.NoError(t, err)

	_, err = svc.InvoicePDF(ctx, invoice.ID, "staff")
	requireAppError(t, err, http.StatusInternalServerError)

	_, statErr := os.Stat(files.Path("invoices/2026-10/factura_2026-10-1001.pdf"))
	assert.True(t, os.IsNotExist(statErr))
}
