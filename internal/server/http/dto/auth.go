package dto

// AuthRequest describes the register/login payload. Role is optional on
// registration and defaults to buyer.
type AuthRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}
