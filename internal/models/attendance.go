package models

// AttendanceRecord is one student's attendance on one day. Times are HH:MM.
type AttendanceRecord struct {
	ID           string `json:"id"`
	StudentID    int64  `json:"student_id"`
	StudentName  string `json:"student_name"`
	Date         Date   `json:"date"`
	EntryTime    string `json:"entry_time,omitempty"`
	ExitTime     string `json:"exit_time,omitempty"`
	DroppedOffBy string `json:"dropped_off_by,omitempty"`
	PickedUpBy   string `json:"picked_up_by,omitempty"`
}

// AttendanceFilter narrows attendance listings.
type AttendanceFilter struct {
	Date      *Date
	StudentID int64
}
