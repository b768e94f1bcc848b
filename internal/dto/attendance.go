package dto

// SaveAttendanceRequest records entry and/or exit for a student on a day.
type SaveAttendanceRequest struct {
	StudentID    int64  `json:"student_id" validate:"required,gt=0"`
	StudentName  string `json:"student_name" validate:"omitempty,max=200"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	EntryTime    string `json:"entry_time" validate:"omitempty,datetime=15:04"`
	ExitTime     string `json:"exit_time" validate:"omitempty,datetime=15:04"`
	DroppedOffBy string `json:"dropped_off_by" validate:"omitempty,max=150"`
	PickedUpBy   string `json:"picked_up_by" validate:"omitempty,max=150"`
}

// ListAttendanceQuery filters attendance listings.
type ListAttendanceQuery struct {
	Date      string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	StudentID int64  `form:"student_id" validate:"omitempty,gt=0"`
}
