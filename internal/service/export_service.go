package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/dto"
	"github.com/noah-isme/daycare-api/internal/models"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
	"github.com/noah-isme/daycare-api/pkg/export"
	"github.com/noah-isme/daycare-api/pkg/storage"
)

// Export types accepted by CSV.
const (
	ExportStudents   = "students"
	ExportAttendance = "attendance"
	ExportInvoices   = "invoices"
	ExportPenalties  = "penalties"
	ExportStaff      = "staff"
	ExportHistory    = "history"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type invoiceRenderer interface {
	Render(doc export.InvoiceDocument) ([]byte, error)
}

type attendanceLister interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
}

type invoiceLister interface {
	FindByID(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error)
}

type staffLister interface {
	List(ctx context.Context) ([]models.StaffMember, error)
}

type historyLister interface {
	List(ctx context.Context, limit int) ([]models.HistoryEntry, error)
}

// ExportSources groups the collections ExportService reads.
type ExportSources struct {
	Students   studentDirectory
	Attendance attendanceLister
	Invoices   invoiceLister
	Penalties  penaltyLister
	Staff      staffLister
	History    historyLister
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
	Issuer    export.Issuer
}

// ExportService renders CSV exports and invoice PDFs.
type ExportService struct {
	sources  ExportSources
	settings settingsSource
	storage  fileStorage
	signer   *storage.SignedURLSigner
	csv      csvRenderer
	pdf      invoiceRenderer
	activity activityLogger
	clock    Clock
	cfg      ExportConfig
	logger   *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the BOM-prefixed CSV exporter and the gofpdf invoice layout.
func NewExportService(sources ExportSources, settings settingsSource, files fileStorage, signer *storage.SignedURLSigner, activity activityLogger, clock Clock, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf invoiceRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Issuer == (export.Issuer{}) {
		cfg.Issuer = export.DefaultIssuer
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewInvoicePDFRenderer()
	}
	return &ExportService{
		sources:  sources,
		settings: settings,
		storage:  files,
		signer:   signer,
		csv:      csv,
		pdf:      pdf,
		activity: activity,
		clock:    clock,
		cfg:      cfg,
		logger:   logger,
	}
}

// CSV renders a whole collection and returns the download filename and body.
func (s *ExportService) CSV(ctx context.Context, exportType, actor string) (string, []byte, error) {
	dataset, err := s.buildDataset(ctx, exportType)
	if err != nil {
		return "", nil, err
	}
	if len(dataset.Rows) == 0 {
		return "", nil, appErrors.Clone(appErrors.ErrNoData, fmt.Sprintf("no %s to export", exportType))
	}
	body, err := s.csv.Render(dataset)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	filename := fmt.Sprintf("%s_export_%s.csv", exportType, s.clock.today())
	s.activity.LogAction(ctx, actor, "Export", fmt.Sprintf("%d %s rows exported.", len(dataset.Rows), exportType))
	return filename, body, nil
}

// InvoicePDF renders an invoice, stores it and returns a signed download link.
func (s *ExportService) InvoicePDF(ctx context.Context, invoiceID, actor string) (*dto.ExportLink, error) {
	invoice, err := s.sources.Invoices.FindByID(ctx, invoiceID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}
	student, err := s.sources.Students.FindByNumericID(ctx, invoice.StudentID)
	if err != nil && !isNotFound(err) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	payload, err := s.pdf.Render(s.invoiceDocument(*invoice, student))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render invoice")
	}
	filename := fmt.Sprintf("factura_%s.pdf", invoice.Number)
	relPath, err := s.storage.Save(fmt.Sprintf("invoices/%s/%s", invoice.Date.Format("2006-01"), filename), payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store invoice")
	}
	token, expiresAt, err := s.signer.Generate(invoice.ID, relPath)
	if err != nil {
		if delErr := s.storage.Delete(relPath); delErr != nil {
			s.logger.Warn("unsigned invoice file left behind", zap.String("path", relPath), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	s.activity.LogAction(ctx, actor, "Invoice PDF", fmt.Sprintf("Invoice %s rendered for %s.", invoice.Number, invoice.StudentName))
	return &dto.ExportLink{
		URL:       fmt.Sprintf("%s/export/%s", s.apiPrefix(), token),
		Filename:  filename,
		ExpiresAt: expiresAt,
	}, nil
}

// Open resolves a download token into the stored file.
func (s *ExportService) Open(token string) (string, *os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download link")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
		}
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}
	return relPath[strings.LastIndex(relPath, "/")+1:], file, nil
}

// Cleanup removes rendered files older than ttl, or the result TTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	removed, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		s.logger.Info("stale exports removed", zap.Int("count", len(removed)))
	}
	return removed, nil
}

func (s *ExportService) apiPrefix() string {
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return prefix
}

func (s *ExportService) invoiceDocument(invoice models.Invoice, student *models.Student) export.InvoiceDocument {
	settings := s.settings.Current()
	doc := export.InvoiceDocument{
		CenterName: settings.CenterName,
		Currency:   settings.Currency,
		Issuer:     s.cfg.Issuer,
		Number:     invoice.Number,
		Date:       invoice.Date.Format("02/01/2006"),
		ClientName: invoice.StudentName,
		Total:      invoice.TotalAmount,
	}
	if student != nil {
		if name := student.BillingName(); name != "" {
			doc.ClientName = name
		}
		doc.ClientNIF = student.NIF
		doc.ClientAddress = student.Address
		doc.PaymentMethod = student.PaymentMethod.Label()
	}

	if invoice.EnrollmentFeeIncluded {
		fee := billing.EnrollmentFee()
		doc.Lines = append(doc.Lines, export.InvoiceLine{Concept: "Matrícula", Quantity: "1", UnitPrice: &fee, Amount: fee})
	}
	base := invoice.BaseAmount
	doc.Lines = append(doc.Lines, export.InvoiceLine{
		Concept:   fmt.Sprintf("Jardín de infancia (%s)", monthLabel(invoice.Date)),
		Quantity:  "1",
		UnitPrice: &base,
		Amount:    base,
	})
	if invoice.PenaltiesAmount.IsPositive() {
		doc.Lines = append(doc.Lines, export.InvoiceLine{Concept: "Penalizaciones por retraso", Quantity: "-", Amount: invoice.PenaltiesAmount})
	}
	return doc
}

var monthNames = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

func monthLabel(d models.Date) string {
	return fmt.Sprintf("%s %d", monthNames[d.Month()-1], d.Year())
}

func (s *ExportService) buildDataset(ctx context.Context, exportType string) (export.Dataset, error) {
	var (
		dataset export.Dataset
		err     error
	)
	switch exportType {
	case ExportStudents:
		dataset, err = s.studentDataset(ctx)
	case ExportAttendance:
		dataset, err = s.attendanceDataset(ctx)
	case ExportInvoices:
		dataset, err = s.invoiceDataset(ctx)
	case ExportPenalties:
		dataset, err = s.penaltyDataset(ctx)
	case ExportStaff:
		dataset, err = s.staffDataset(ctx)
	case ExportHistory:
		dataset, err = s.historyDataset(ctx)
	default:
		return export.Dataset{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export type %q", exportType))
	}
	if err != nil {
		return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export data")
	}
	return dataset, nil
}

func (s *ExportService) studentDataset(ctx context.Context) (export.Dataset, error) {
	students, err := s.sources.Students.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		birth := ""
		if st.BirthDate != nil {
			birth = st.BirthDate.String()
		}
		rows = append(rows, map[string]string{
			"ID":              strconv.FormatInt(st.NumericID, 10),
			"Name":            st.Name,
			"Surname":         st.Surname,
			"Birth Date":      birth,
			"Schedule":        st.ScheduleID,
			"Enrollment Paid": strconv.FormatBool(st.EnrollmentPaid),
			"Monthly Payment": strconv.FormatBool(st.MonthlyPayment),
			"Father":          st.FatherName,
			"Mother":          st.MotherName,
			"Phone 1":         st.Phone1,
			"Phone 2":         st.Phone2,
			"Email":           st.ParentEmail,
			"Allergies":       st.Allergies,
			"Payment Method":  string(st.PaymentMethod),
			"NIF":             st.NIF,
		})
	}
	return export.Dataset{
		Headers: []string{"ID", "Name", "Surname", "Birth Date", "Schedule", "Enrollment Paid", "Monthly Payment", "Father", "Mother", "Phone 1", "Phone 2", "Email", "Allergies", "Payment Method", "NIF"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) attendanceDataset(ctx context.Context) (export.Dataset, error) {
	records, err := s.sources.Attendance.List(ctx, models.AttendanceFilter{})
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]string{
			"Date":           rec.Date.String(),
			"Student ID":     strconv.FormatInt(rec.StudentID, 10),
			"Student":        rec.StudentName,
			"Entry":          rec.EntryTime,
			"Exit":           rec.ExitTime,
			"Dropped Off By": rec.DroppedOffBy,
			"Picked Up By":   rec.PickedUpBy,
		})
	}
	return export.Dataset{
		Headers: []string{"Date", "Student ID", "Student", "Entry", "Exit", "Dropped Off By", "Picked Up By"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) invoiceDataset(ctx context.Context) (export.Dataset, error) {
	invoices, err := s.sources.Invoices.List(ctx, models.InvoiceFilter{})
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, map[string]string{
			"Number":         inv.Number,
			"Date":           inv.Date.String(),
			"Student ID":     strconv.FormatInt(inv.StudentID, 10),
			"Student":        inv.StudentName,
			"Base":           inv.BaseAmount.StringFixed(2),
			"Penalties":      inv.PenaltiesAmount.StringFixed(2),
			"Enrollment Fee": strconv.FormatBool(inv.EnrollmentFeeIncluded),
			"Total":          inv.TotalAmount.StringFixed(2),
			"Status":         string(inv.Status),
		})
	}
	return export.Dataset{
		Headers: []string{"Number", "Date", "Student ID", "Student", "Base", "Penalties", "Enrollment Fee", "Total", "Status"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) penaltyDataset(ctx context.Context) (export.Dataset, error) {
	penalties, err := s.sources.Penalties.List(ctx, models.PenaltyFilter{})
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(penalties))
	for _, p := range penalties {
		rows = append(rows, map[string]string{
			"Date":       p.Date.String(),
			"Student ID": strconv.FormatInt(p.StudentID, 10),
			"Student":    p.StudentName,
			"Amount":     p.Amount.StringFixed(2),
			"Reason":     p.Reason,
		})
	}
	return export.Dataset{
		Headers: []string{"Date", "Student ID", "Student", "Amount", "Reason"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) staffDataset(ctx context.Context) (export.Dataset, error) {
	members, err := s.sources.Staff.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, map[string]string{
			"Name":      m.Name,
			"Role":      m.Role,
			"Phone":     m.Phone,
			"Check In":  formatTimestamp(m.CheckIn),
			"Check Out": formatTimestamp(m.CheckOut),
		})
	}
	return export.Dataset{
		Headers: []string{"Name", "Role", "Phone", "Check In", "Check Out"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) historyDataset(ctx context.Context) (export.Dataset, error) {
	entries, err := s.sources.History.List(ctx, 0)
	if err != nil {
		return export.Dataset{}, err
	}
	rows := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, map[string]string{
			"Timestamp": e.Timestamp.UTC().Format(time.RFC3339),
			"User":      e.User,
			"Action":    e.Action,
			"Details":   e.Details,
		})
	}
	return export.Dataset{
		Headers: []string{"Timestamp", "User", "Action", "Details"},
		Rows:    rows,
	}, nil
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
