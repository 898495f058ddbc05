package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/enplural/konyx-api/internal/application/dto"
	"github.com/enplural/konyx-api/internal/application/ports"
	"github.com/enplural/konyx-api/internal/domain"
	"github.com/enplural/konyx-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso del panel: login, cambio de contraseña y gestión
// de claves API. La credencial vive en el almacén de estado como hash
// bcrypt; los intentos fallidos se contabilizan ahí mismo.
type AuthUseCase struct {
	store  ports.SettingsStore
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(store ports.SettingsStore, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{store: store, jwtCfg: jwtCfg}
}

// Login verifica la contraseña del panel y emite un JWT. Cada intento
// fallido incrementa el contador persistente de logins fallidos.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	settings, err := uc.store.Load()
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(settings.PasswordHash), []byte(in.Password)) != nil {
		settings.FailedLogins++
		_ = uc.store.Save(settings)
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, in.User, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: in.User}, nil
}

// ChangePassword cambia la contraseña del panel previa verificación de la actual.
func (uc *AuthUseCase) ChangePassword(in dto.ChangePasswordRequest) error {
	if in.NewPassword == "" {
		return domain.ErrInvalidInput
	}
	settings, err := uc.store.Load()
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(settings.PasswordHash), []byte(in.OldPassword)) != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	settings.PasswordHash = string(hash)
	return uc.store.Save(settings)
}

// UpdateAPIKeys actualiza las claves API configuradas. Los campos no
// enviados se conservan.
func (uc *AuthUseCase) UpdateAPIKeys(in dto.UpdateAPIKeysRequest) error {
	settings, err := uc.store.Load()
	if err != nil {
		return err
	}
	if in.Kissoro != nil {
		settings.APIKissoro = *in.Kissoro
	}
	if in.EnPlural != nil {
		settings.APIEnPlural = *in.EnPlural
	}
	if in.Groq != nil {
		settings.APIGroq = *in.Groq
	}
	return uc.store.Save(settings)
}
