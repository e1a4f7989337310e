package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sigfarma/sigfarma-api/internal/application/audit"
	"github.com/sigfarma/sigfarma-api/internal/application/dto"
	"github.com/sigfarma/sigfarma-api/internal/domain"
	"github.com/sigfarma/sigfarma-api/internal/domain/entity"
	"github.com/sigfarma/sigfarma-api/internal/domain/repository"
	"github.com/sigfarma/sigfarma-api/pkg/jwt"
)

// SessionConfig configuración para la generación del token de sesión.
type SessionConfig struct {
	Secret  string
	ExpDays int
	Issuer  string
}

// AuthUseCase login y resolución del usuario en sesión.
type AuthUseCase struct {
	userRepo repository.UserRepository
	recorder *audit.Recorder
	cfg      SessionConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, recorder *audit.Recorder, cfg SessionConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, recorder: recorder, cfg: cfg}
}

// Login verifica correo (sin distinguir mayúsculas) y contraseña. Devuelve
// ErrUnauthorized tanto para usuario inexistente como para contraseña
// incorrecta o cuenta inactiva: el cliente no distingue los casos. Con éxito
// genera el token de sesión y emite la entrada de auditoría.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(in.Correo)))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.cfg.Secret, user.ID, user.Email, user.Role, uc.cfg.Issuer, uc.cfg.ExpDays)
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(user.ID, "login", map[string]string{"correo": user.Email})

	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// Me devuelve el usuario en sesión, o ErrUnauthorized si ya no existe o fue
// desactivado después de emitirse el token.
func (uc *AuthUseCase) Me(userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	return ToUserResponse(user), nil
}

// ToUserResponse proyecta la entidad al DTO público (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
