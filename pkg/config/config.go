package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	JWT    JWTConfig
	Export ExportConfig
	Store  StoreConfig
	LLM    LLMConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// ExportConfig configuración de la generación de artefactos de exportación.
// Si TimestampFiles es true cada ejecución genera un archivo nuevo
// (p. ej. holded_export_20250315_104502.csv); si es false el nombre se
// construye con empresa+formato+fecha y se sobrescribe la ejecución anterior.
type ExportConfig struct {
	Dir            string
	TimestampFiles bool
}

// StoreConfig ubicación del archivo de estado (contadores, claves API, contraseña).
type StoreConfig struct {
	DataFile        string
	DefaultPassword string // contraseña inicial si el archivo no existe aún
}

// LLMConfig configuración del servicio de completado de texto
// (enriquecimiento de contactos). El proveedor por defecto es Groq, cuya
// clave se gestiona desde el panel y vive en el almacén de estado; las claves
// de los proveedores alternativos vienen de entorno.
type LLMConfig struct {
	Provider     string // groq (por defecto), anthropic, gemini
	Model        string // vacío usa el modelo por defecto del proveedor
	Timeout      int    // segundos por llamada
	AnthropicKey string
	GeminiKey    string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, JWT_SECRET, EXPORT_DIR, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "konyx"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "konyx"),
		},
		Export: ExportConfig{
			Dir:            getString(v, "EXPORT_DIR", "./exports"),
			TimestampFiles: getBool(v, "EXPORT_TIMESTAMP_FILES", true),
		},
		Store: StoreConfig{
			DataFile:        getString(v, "DATA_FILE", "./data.json"),
			DefaultPassword: getString(v, "KONYX_PASSWORD", "admin123"),
		},
		LLM: LLMConfig{
			Provider:     getString(v, "LLM_PROVIDER", "groq"),
			Model:        getString(v, "LLM_MODEL", ""),
			Timeout:      getInt(v, "LLM_TIMEOUT_SECONDS", 10),
			AnthropicKey: getString(v, "ANTHROPIC_API_KEY", ""),
			GeminiKey:    getString(v, "GEMINI_API_KEY", ""),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
