package dto

// CreateStaffRequest adds an employee.
type CreateStaffRequest struct {
	Name  string `json:"name" validate:"required,max=150"`
	Role  string `json:"role" validate:"required,max=100"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}
