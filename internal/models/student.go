package models

import (
	"strings"
	"time"
)

// PaymentMethod describes how a family pays the monthly fee.
type PaymentMethod string

// Supported payment methods.
const (
	PaymentMethodCash        PaymentMethod = "CASH"
	PaymentMethodTransfer    PaymentMethod = "TRANSFER"
	PaymentMethodDirectDebit PaymentMethod = "DIRECT_DEBIT"
)

// Label is the wording printed on invoices.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentMethodCash:
		return "Efectivo"
	case PaymentMethodTransfer:
		return "Transferencia"
	case PaymentMethodDirectDebit:
		return "Domiciliación"
	default:
		return string(p)
	}
}

// StudentDocument is a file attached to a student record, base64 encoded.
type StudentDocument struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type,omitempty"`
	Data        string    `json:"data"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// FieldChange records one edited field.
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// ModificationEntry is one edit of a student record.
type ModificationEntry struct {
	ID        string        `json:"id"`
	User      string        `json:"user"`
	Timestamp time.Time     `json:"timestamp"`
	Changes   []FieldChange `json:"changes"`
}

// Student is an enrolled child. NumericID links attendance, penalties and invoices.
type Student struct {
	ID                  string              `json:"id"`
	NumericID           int64               `json:"numeric_id"`
	Name                string              `json:"name"`
	Surname             string              `json:"surname"`
	ScheduleID          string              `json:"schedule_id"`
	EnrollmentPaid      bool                `json:"enrollment_paid"`
	MonthlyPayment      bool                `json:"monthly_payment"`
	BirthDate           *Date               `json:"birth_date,omitempty"`
	Address             string              `json:"address,omitempty"`
	FatherName          string              `json:"father_name,omitempty"`
	MotherName          string              `json:"mother_name,omitempty"`
	Phone1              string              `json:"phone1,omitempty"`
	Phone2              string              `json:"phone2,omitempty"`
	ParentEmail         string              `json:"parent_email,omitempty"`
	Allergies           string              `json:"allergies,omitempty"`
	AuthorizedPickup    string              `json:"authorized_pickup,omitempty"`
	PaymentMethod       PaymentMethod       `json:"payment_method,omitempty"`
	AccountHolderName   string              `json:"account_holder_name,omitempty"`
	NIF                 string              `json:"nif,omitempty"`
	Documents           []StudentDocument   `json:"documents"`
	ModificationHistory []ModificationEntry `json:"modification_history"`
	CreatedAt           time.Time           `json:"created_at"`
}

// FullName joins name and surname.
func (s Student) FullName() string {
	return strings.TrimSpace(s.Name + " " + s.Surname)
}

// BillingName is the account holder, falling back to the parents.
func (s Student) BillingName() string {
	if name := strings.TrimSpace(s.AccountHolderName); name != "" {
		return name
	}
	return strings.TrimSpace(s.FatherName + " " + s.MotherName)
}
