package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Modos de autenticación contra el backend remoto.
const (
	AuthModeFallback = "fallback" // cabecera propia y, ante 401/403, Bearer
	AuthModeToken    = "token"
	AuthModeBearer   = "bearer"
)

// Tipos de almacén de sesiones.
const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
)

// Config agrupa la configuración del dashboard (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	Session SessionConfig
	DB      DBConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env          string // development, staging, production
	Name         string
	LogLevel     string
	PharmacyName string // encabezado de recibos y reportes PDF
	Locale       string // formato de montos en los PDF (BCP 47)
}

// BackendConfig describe el backend REST remoto que es dueño de todos los datos.
type BackendConfig struct {
	BaseURL     string
	Timeout     time.Duration
	AuthMode    string // fallback, token, bearer
	TokenHeader string // cabecera del esquema propio (por defecto x-auth-token)
}

// SessionConfig configuración de las sesiones del dashboard.
type SessionConfig struct {
	Secret       string // firma HS256 de la cookie de sesión
	TTL          time.Duration
	Store        string // memory, postgres
	CookieName   string
	CookieSecure bool
}

// DBConfig configuración de PostgreSQL (solo para SESSION_STORE=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
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

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env o config.env).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:          getString(v, "APP_ENV", "development"),
			Name:         getString(v, "APP_NAME", "farmacia-admin"),
			LogLevel:     getString(v, "LOG_LEVEL", "info"),
			PharmacyName: getString(v, "PHARMACY_NAME", "Farmacia"),
			Locale:       getString(v, "PHARMACY_LOCALE", "es"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Backend: BackendConfig{
			BaseURL:     strings.TrimRight(getString(v, "BACKEND_BASE_URL", ""), "/"),
			Timeout:     time.Duration(getInt(v, "BACKEND_TIMEOUT_SECONDS", 20)) * time.Second,
			AuthMode:    strings.ToLower(getString(v, "BACKEND_AUTH_MODE", AuthModeFallback)),
			TokenHeader: getString(v, "BACKEND_TOKEN_HEADER", "x-auth-token"),
		},
		Session: SessionConfig{
			Secret:       getString(v, "SESSION_SECRET", ""),
			TTL:          time.Duration(getInt(v, "SESSION_TTL_MINUTES", 480)) * time.Minute,
			Store:        strings.ToLower(getString(v, "SESSION_STORE", SessionStoreMemory)),
			CookieName:   getString(v, "SESSION_COOKIE_NAME", "farmacia_session"),
			CookieSecure: getBool(v, "SESSION_COOKIE_SECURE", false),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "farmacia_admin"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
		},
	}
}

// Validate revisa los valores obligatorios y los enumerados.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("config: BACKEND_BASE_URL es obligatorio")
	}
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("config: BACKEND_BASE_URL inválido: %w", err)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("config: SESSION_SECRET es obligatorio")
	}
	switch c.Backend.AuthMode {
	case AuthModeFallback, AuthModeToken, AuthModeBearer:
	default:
		return fmt.Errorf("config: BACKEND_AUTH_MODE desconocido %q", c.Backend.AuthMode)
	}
	switch c.Session.Store {
	case SessionStoreMemory, SessionStorePostgres:
	default:
		return fmt.Errorf("config: SESSION_STORE desconocido %q", c.Session.Store)
	}
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = 20 * time.Second
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}
