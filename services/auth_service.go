package services

import (
	"context"
	"errors"
	"fmt"

	"bookings-api/domain"
	"bookings-api/dto"
	"bookings-api/logging"
	"bookings-api/repositories"
	"bookings-api/utils"
)

// AuthService verifica credenciales y tokens
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Authenticate(token string) (*domain.Principal, error)
	EnsureUser(ctx context.Context, username, password string, role domain.Role) error
}

// authService es la implementación
type authService struct {
	repo       repositories.UserRepository
	tokens     *utils.TokenManager
	bcryptCost int
}

// NewAuthService crea una nueva instancia del servicio
func NewAuthService(repo repositories.UserRepository, tokens *utils.TokenManager, bcryptCost int) AuthService {
	return &authService{repo: repo, tokens: tokens, bcryptCost: bcryptCost}
}

// Login autentica un usuario y devuelve un JWT token
// Usuario inexistente y contraseña incorrecta dan el mismo error
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. Buscar usuario
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, wrapInternal("failed to load user", err)
	}

	// 2. Verificar contraseña
	if !utils.PasswordMatches(user.Password, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Generar token con {id, role}
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, domain.NewInternalError("failed to generate token", err)
	}

	logging.Ctx(ctx).Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("User authenticated")

	return &dto.LoginResponse{
		Message: "Authentication successful",
		Token:   token,
	}, nil
}

// Authenticate valida un token y devuelve la identidad que contiene
func (s *authService) Authenticate(token string) (*domain.Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindUnauthorized, Code: "invalid_token", Message: "invalid or expired token", Err: err}
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return nil, &domain.Error{Kind: domain.KindUnauthorized, Code: "invalid_token", Message: "token has an unknown role"}
	}

	return &domain.Principal{UserID: claims.UserID, Role: role}, nil
}

// EnsureUser crea el usuario si todavía no existe
// Se usa al arrancar para cargar las credenciales configuradas
func (s *authService) EnsureUser(ctx context.Context, username, password string, role domain.Role) error {
	if !role.Valid() {
		return domain.NewValidationError("invalid_role", fmt.Sprintf("unknown role %q", role))
	}

	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return wrapInternal("failed to load user", err)
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return domain.NewInternalError("failed to hash password", err)
	}

	if err := s.repo.Create(ctx, &domain.User{Username: username, Password: hash, Role: role}); err != nil {
		return wrapInternal("failed to create user", err)
	}

	logging.Ctx(ctx).Info().Str("username", username).Str("role", string(role)).Msg("Seed user created")
	return nil
}
