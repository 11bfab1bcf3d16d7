package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Backup  BackupConfig
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

// StorageConfig configuración del almacén clave-valor local.
type StorageConfig struct {
	DataDir       string        // directorio de blobs JSON
	RetryAttempts int           // reintentos de escritura
	RetryDelay    time.Duration // espera fija entre reintentos
	WatchWindow   time.Duration // agrupamiento de avisos del observador de archivos
}

// BackupConfig configuración del gestor de respaldos y la cola de guardado.
type BackupConfig struct {
	MaxBackups         int
	Interval           time.Duration // respaldo completo periódico
	IntegrityInterval  time.Duration // chequeo estructural ligero
	ValidationInterval time.Duration // validación profunda con limpieza
	StartupDelay       time.Duration // respaldo inicial tras el arranque
	SaveDebounce       time.Duration // ventana de la cola de guardado
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, STORAGE_DATA_DIR, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "stockmaster"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Storage: StorageConfig{
			DataDir:       getString(v, "STORAGE_DATA_DIR", "./data"),
			RetryAttempts: getInt(v, "STORAGE_RETRY_ATTEMPTS", 3),
			RetryDelay:    getDuration(v, "STORAGE_RETRY_DELAY", time.Second),
			WatchWindow:   getDuration(v, "STORAGE_WATCH_WINDOW", 500*time.Millisecond),
		},
		Backup: BackupConfig{
			MaxBackups:         getInt(v, "BACKUP_MAX", 10),
			Interval:           getDuration(v, "BACKUP_INTERVAL", 5*time.Minute),
			IntegrityInterval:  getDuration(v, "BACKUP_INTEGRITY_INTERVAL", 30*time.Second),
			ValidationInterval: getDuration(v, "BACKUP_VALIDATION_INTERVAL", 5*time.Minute),
			StartupDelay:       getDuration(v, "BACKUP_STARTUP_DELAY", 2*time.Second),
			SaveDebounce:       getDuration(v, "SAVE_DEBOUNCE", time.Second),
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

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d := v.GetDuration(key); d > 0 {
			return d
		}
	}
	return def
}
