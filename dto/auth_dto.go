package dto

// LoginRequest representa el request de login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse representa la respuesta del login
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
