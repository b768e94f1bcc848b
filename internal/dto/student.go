package dto

// CreateStudentRequest enrolls a new student.
type CreateStudentRequest struct {
	Name              string `json:"name" validate:"required,max=100"`
	Surname           string `json:"surname" validate:"required,max=100"`
	ScheduleID        string `json:"schedule_id" validate:"required"`
	EnrollmentPaid    bool   `json:"enrollment_paid"`
	MonthlyPayment    bool   `json:"monthly_payment"`
	BirthDate         string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Address           string `json:"address" validate:"omitempty,max=255"`
	FatherName        string `json:"father_name" validate:"omitempty,max=100"`
	MotherName        string `json:"mother_name" validate:"omitempty,max=100"`
	Phone1            string `json:"phone1" validate:"omitempty,max=30"`
	Phone2            string `json:"phone2" validate:"omitempty,max=30"`
	ParentEmail       string `json:"parent_email" validate:"omitempty,email"`
	Allergies         string `json:"allergies" validate:"omitempty,max=500"`
	AuthorizedPickup  string `json:"authorized_pickup" validate:"omitempty,max=500"`
	PaymentMethod     string `json:"payment_method" validate:"omitempty,oneof=CASH TRANSFER DIRECT_DEBIT"`
	AccountHolderName string `json:"account_holder_name" validate:"omitempty,max=150"`
	NIF               string `json:"nif" validate:"omitempty,max=20"`
}

// UpdateStudentRequest patches a student. Nil fields are left untouched.
type UpdateStudentRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=100"`
	Surname           *string `json:"surname" validate:"omitempty,min=1,max=100"`
	ScheduleID        *string `json:"schedule_id" validate:"omitempty,min=1"`
	EnrollmentPaid    *bool   `json:"enrollment_paid"`
	MonthlyPayment    *bool   `json:"monthly_payment"`
	BirthDate         *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Address           *string `json:"address" validate:"omitempty,max=255"`
	FatherName        *string `json:"father_name" validate:"omitempty,max=100"`
	MotherName        *string `json:"mother_name" validate:"omitempty,max=100"`
	Phone1            *string `json:"phone1" validate:"omitempty,max=30"`
	Phone2            *string `json:"phone2" validate:"omitempty,max=30"`
	ParentEmail       *string `json:"parent_email" validate:"omitempty,email"`
	Allergies         *string `json:"allergies" validate:"omitempty,max=500"`
	AuthorizedPickup  *string `json:"authorized_pickup" validate:"omitempty,max=500"`
	PaymentMethod     *string `json:"payment_method" validate:"omitempty,oneof=CASH TRANSFER DIRECT_DEBIT"`
	AccountHolderName *string `json:"account_holder_name" validate:"omitempty,max=150"`
	NIF               *string `json:"nif" validate:"omitempty,max=20"`
}

// AddStudentDocumentRequest attaches a base64 encoded file to a student.
type AddStudentDocumentRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"omitempty,max=100"`
	Data        string `json:"data" validate:"required,base64"`
}
