package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

// Invoice statuses.
const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

// Invoice is the monthly bill of one student.
type Invoice struct {
	ID                    string          `json:"id"`
	Number                string          `json:"number"`
	StudentID             int64           `json:"student_id"`
	StudentName           string          `json:"student_name"`
	Date                  Date            `json:"date"`
	BaseAmount            decimal.Decimal `json:"base_amount"`
	PenaltiesAmount       decimal.Decimal `json:"penalties_amount"`
	EnrollmentFeeIncluded bool            `json:"enrollment_fee_included"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	Status                InvoiceStatus   `json:"status"`
	GeneratedAt           time.Time       `json:"generated_at"`
	UpdatedAt             *time.Time      `json:"updated_at,omitempty"`
}

// InvoiceFilter narrows invoice listings. Zero values match everything.
type InvoiceFilter struct {
	StudentID int64
	Status    InvoiceStatus
	Year      int
	Month     int
}

// InvoiceGenerationResult summarises a monthly batch.
type InvoiceGenerationResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
