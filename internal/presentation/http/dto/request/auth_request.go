package request

// LoginRequest represents a staff sign-in at the till
type LoginRequest struct {
	StaffID string `json:"staff_id" binding:"required,max=64"`
	PIN     string `json:"pin" binding:"required,min=4,max=12"`
}
