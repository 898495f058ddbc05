package ports

import "github.com/enplural/konyx-api/internal/domain/entity"

// SettingsStore define el puerto hacia el almacén de estado persistente
// (contraseña, claves API, contadores de ejecuciones). El pipeline solo lee
// e incrementa contadores y la marca de última exportación; las credenciales
// las gestiona el caso de uso de auth.
type SettingsStore interface {
	Load() (*entity.Settings, error)
	Save(*entity.Settings) error
}
