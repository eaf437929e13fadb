package controllers

import (
	"net/http"

	"bookings-api/dto"
	"bookings-api/services"

	"github.com/gin-gonic/gin"
)

// AuthController maneja el login
type AuthController struct {
	service services.AuthService
}

// NewAuthController crea una nueva instancia del controlador
func NewAuthController(service services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Login maneja POST /v1/auth
// Devuelve un token firmado con {id, role}
func (ctrl *AuthController) Login(c *gin.Context) {
	// 1. Leer el JSON del body
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	// 2. Verificar credenciales
	resp, err := ctrl.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
