// Package store persiste el estado de la aplicación (credencial del panel,
// claves API, contadores de ejecuciones) como un único documento JSON plano.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/enplural/konyx-api/internal/application/ports"
	"github.com/enplural/konyx-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que JSONStore implementa SettingsStore.
var _ ports.SettingsStore = (*JSONStore)(nil)

// JSONStore almacén de estado sobre un archivo JSON. Las operaciones están
// serializadas con un mutex: varios casos de uso comparten el mismo store.
type JSONStore struct {
	mu              sync.Mutex
	path            string
	defaultPassword string
}

// NewJSONStore construye el almacén. defaultPassword es la contraseña
// inicial del panel, usada solo si el archivo no existe todavía.
func NewJSONStore(path, defaultPassword string) *JSONStore {
	return &JSONStore{path: path, defaultPassword: defaultPassword}
}

// Load lee el estado; si el archivo no existe lo crea con los valores por
// defecto (contraseña inicial hasheada, contadores a cero).
func (s *JSONStore) Load() (*entity.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		settings, derr := s.defaults()
		if derr != nil {
			return nil, derr
		}
		if werr := s.write(settings); werr != nil {
			return nil, werr
		}
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", s.path, err)
	}

	var settings entity.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsear %s: %w", s.path, err)
	}
	return &settings, nil
}

// Save persiste el estado completo.
func (s *JSONStore) Save(settings *entity.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(settings)
}

func (s *JSONStore) defaults() (*entity.Settings, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(s.defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &entity.Settings{
		PasswordHash: string(hash),
		LastExport:   "-",
	}, nil
}

func (s *JSONStore) write(settings *entity.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("crear el directorio de %s: %w", s.path, err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("escribir %s: %w", s.path, err)
	}
	return nil
}
