package billing

import (
	"fmt"
	"time"

	"github.com/noah-isme/daycare-api/internal/models"
)

// InvoiceKey identifies the single invoice of a student for a month.
type InvoiceKey struct {
	StudentID int64
	Year      int
	Month     time.Month
}

// InvoiceKeyFor derives the key from an invoice date.
func InvoiceKeyFor(studentID int64, date models.Date) InvoiceKey {
	return InvoiceKey{StudentID: studentID, Year: date.Year(), Month: date.Month()}
}

// DocumentID is the deterministic store ID of the invoice.
func (k InvoiceKey) DocumentID() string {
	return fmt.Sprintf("inv-%d-%04d-%02d", k.StudentID, k.Year, int(k.Month))
}

// Number is the human invoice number: year, month and the last four digits of the student ID.
func (k InvoiceKey) Number() string {
	return fmt.Sprintf("%04d-%02d-%04d", k.Year, int(k.Month), abs(k.StudentID)%10000)
}

// AttendanceKey identifies the single attendance record of a student for a day.
type AttendanceKey struct {
	StudentID int64
	Date      models.Date
}

// DocumentID is the deterministic store ID of the attendance record.
func (k AttendanceKey) DocumentID() string {
	return fmt.Sprintf("att-%d-%s", k.StudentID, k.Date.Format("20060102"))
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
