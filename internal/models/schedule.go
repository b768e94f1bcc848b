package models

import "github.com/shopspring/decimal"

// Schedule is a fee plan: monthly price and the time pickup is due.
type Schedule struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	EndTime string          `json:"end_time"`
}
