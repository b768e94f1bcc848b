package dto

import "time"

// ExportLink is returned when a rendered file is available for download.
type ExportLink struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expires_at"`
}
