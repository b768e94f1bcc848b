package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates the figures shown on the home screen.
type DashboardSummary struct {
	Date              Date                              `json:"date"`
	Students          int                               `json:"students"`
	PresentToday      int                               `json:"present_today"`
	PickedUpToday     int                               `json:"picked_up_today"`
	StaffOnSite       int                               `json:"staff_on_site"`
	MonthPenalties    decimal.Decimal                   `json:"month_penalties"`
	MonthInvoiceTotal map[InvoiceStatus]decimal.Decimal `json:"month_invoice_total"`
	GeneratedAt       time.Time                         `json:"generated_at"`
}
