package billing

import "github.com/noah-isme/daycare-api/internal/models"

var allowedTransitions = map[models.InvoiceStatus][]models.InvoiceStatus{
	models.InvoiceStatusPending: {models.InvoiceStatusPaid, models.InvoiceStatusOverdue},
	models.InvoiceStatusOverdue: {models.InvoiceStatusPaid},
}

// CanTransition reports whether staff may move an invoice from one status to
// another. PENDING is only reached by regenerating the invoice.
func CanTransition(from, to models.InvoiceStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known invoice status.
func ValidStatus(s models.InvoiceStatus) bool {
	switch s {
	case models.InvoiceStatusPending, models.InvoiceStatusPaid, models.InvoiceStatusOverdue:
		return true
	}
	return false
}
