package request

// LoginRequest represents an email and password login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// PINLoginRequest represents a till login with a store and staff PIN
type PINLoginRequest struct {
	StoreID string `json:"store_id" binding:"required,uuid"`
	PIN     string `json:"pin" binding:"required"`
}
