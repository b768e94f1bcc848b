package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PenaltyRecord is a late-pickup charge.
type PenaltyRecord struct {
	ID          string          `json:"id"`
	StudentID   int64           `json:"student_id"`
	StudentName string          `json:"student_name"`
	Date        Date            `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Reason      string          `json:"reason"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PenaltyFilter narrows penalty listings. Zero values match everything.
type PenaltyFilter struct {
	StudentID int64
	Year      int
	Month     int
}
