package models

import "github.com/shopspring/decimal"

// Settings is the center-wide configuration document.
type Settings struct {
	CenterName string          `json:"center_name"`
	Currency   string          `json:"currency"`
	LateFee    decimal.Decimal `json:"late_fee"`
}
