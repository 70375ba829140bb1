package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseViper() *viper.Viper {
	v := viper.New()
	v.Set("BACKEND_BASE_URL", "https://api.farmacia.test/")
	v.Set("SESSION_SECRET", "secreto")
	return v
}

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg := fromViper(baseViper())
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://api.farmacia.test", cfg.Backend.BaseURL, "se quita la barra final")
	assert.Equal(t, AuthModeFallback, cfg.Backend.AuthMode)
	assert.Equal(t, "x-auth-token", cfg.Backend.TokenHeader)
	assert.Equal(t, 20*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, "farmacia_session", cfg.Session.CookieName)
	assert.Equal(t, 8*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 10, cfg.DB.MaxConns)
}

func TestFromViper_LeeEnteroYBooleanoComoTexto(t *testing.T) {
	v := baseViper()
	v.Set("HTTP_PORT", " 9090 ")
	v.Set("SESSION_TTL_MINUTES", "30")
	v.Set("SESSION_COOKIE_SECURE", "true")
	v.Set("BACKEND_AUTH_MODE", "Bearer")
	v.Set("SESSION_STORE", "POSTGRES")

	cfg := fromViper(v)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, AuthModeBearer, cfg.Backend.AuthMode)
	assert.Equal(t, SessionStorePostgres, cfg.Session.Store)
}

func TestFromViper_EnteroInvalidoUsaDefault(t *testing.T) {
	v := baseViper()
	v.Set("HTTP_PORT", "ochenta")
	assert.Equal(t, 8080, fromViper(v).HTTP.Port)
}

func TestValidate_Errores(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"sin backend", "BACKEND_BASE_URL", "", "BACKEND_BASE_URL es obligatorio"},
		{"backend inválido", "BACKEND_BASE_URL", "no una url", "BACKEND_BASE_URL inválido"},
		{"sin secreto", "SESSION_SECRET", "", "SESSION_SECRET es obligatorio"},
		{"modo desconocido", "BACKEND_AUTH_MODE", "basic", "BACKEND_AUTH_MODE desconocido"},
		{"store desconocido", "SESSION_STORE", "redis", "SESSION_STORE desconocido"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := baseViper()
			v.Set(tc.key, tc.val)
			err := fromViper(v).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "farmacia", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/farmacia?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
