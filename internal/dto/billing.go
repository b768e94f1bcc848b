package dto

import "github.com/shopspring/decimal"

// UpdatePenaltyRequest edits a penalty. Nil fields are left untouched.
type UpdatePenaltyRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Reason *string          `json:"reason" validate:"omitempty,min=1,max=500"`
}

// ListPenaltiesQuery filters penalty listings.
type ListPenaltiesQuery struct {
	StudentID int64 `form:"student_id" validate:"omitempty,gt=0"`
	Year      int   `form:"year" validate:"omitempty,gte=2000,lte=2100"`
	Month     int   `form:"month" validate:"omitempty,gte=1,lte=12"`
}

// ListInvoicesQuery filters invoice listings.
type ListInvoicesQuery struct {
	StudentID int64  `form:"student_id" validate:"omitempty,gt=0"`
	Status    string `form:"status" validate:"omitempty,oneof=PENDING PAID OVERDUE"`
	Year      int    `form:"year" validate:"omitempty,gte=2000,lte=2100"`
	Month     int    `form:"month" validate:"omitempty,gte=1,lte=12"`
}

// UpdateInvoiceStatusRequest moves an invoice to a new status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
}

// GenerateSingleInvoiceRequest targets one student by numeric ID.
type GenerateSingleInvoiceRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
}

// UpdateSettingsRequest replaces the center settings.
type UpdateSettingsRequest struct {
	CenterName string          `json:"center_name" validate:"required,max=120"`
	Currency   string          `json:"currency" validate:"required,max=8"`
	LateFee    decimal.Decimal `json:"late_fee"`
}
