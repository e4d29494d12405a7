package config

import (
	"context"
	"testing"
	"time"

	"eticket/internal/store"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ADDR", "GIN_MODE", "DB_DRIVER", "DB_DSN", "JWT_SECRET", "CORS_ALLOWED_ORIGINS", "LOGO_FETCH_TIMEOUT", "LOGO_ALLOWED_HOSTS", "MAX_LOGO_BYTES"} {
		t.Setenv(k, "")
	}
	env := LoadEnv()
	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, DriverMemory, env.DBDriver)
	assert.Equal(t, defaultCorsOrigins, env.CorsOrigins)
	assert.Equal(t, 10*time.Second, env.LogoFetchTimeout)
	assert.Equal(t, int64(2<<20), env.MaxLogoBytes)
	assert.Empty(t, env.LogoAllowedHosts)
	assert.NotEmpty(t, env.JWTSecret)
	assert.NoError(t, env.Validate())
}

func TestLoadEnv_ReleaseNeedsJWTSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", "")
	env := LoadEnv()
	assert.Empty(t, env.JWTSecret)
	assert.ErrorContains(t, env.Validate(), "JWT_SECRET")

	assert.Error(t, Env{GinMode: "release", JWTSecret: devJWTSecret}.Validate())

	t.Setenv("JWT_SECRET", "prod-secret")
	env = LoadEnv()
	assert.Equal(t, "prod-secret", env.JWTSecret)
	assert.NoError(t, env.Validate())
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "user:pw@tcp(db:3306)/tickets?parseTime=true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LOGO_FETCH_TIMEOUT", "3s")
	t.Setenv("LOGO_ALLOWED_HOSTS", "cdn.example.com, assets.example.org")
	t.Setenv("MAX_LOGO_BYTES", "not-a-number")

	env := LoadEnv()
	assert.Equal(t, ":9090", env.AppAddr)
	assert.Equal(t, DriverMySQL, env.DBDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.CorsOrigins)
	assert.Equal(t, 3*time.Second, env.LogoFetchTimeout)
	assert.Equal(t, []string{"cdn.example.com", "assets.example.org"}, env.LogoAllowedHosts)
	assert.Equal(t, int64(2<<20), env.MaxLogoBytes)
}

func TestMySQLDSN_ForcesParseTime(t *testing.T) {
	out, err := mysqlDSN("user:pw@tcp(db:3306)/tickets")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(out)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, time.UTC, cfg.Loc)
	assert.Equal(t, "tickets", cfg.DBName)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	out, err = mysqlDSN("user:pw@tcp(db:3306)/tickets?parseTime=false&timeout=2s")
	require.NoError(t, err)
	cfg, err = mysql.ParseDSN(out)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, 2*time.Second, cfg.Timeout)

	_, err = mysqlDSN("not a dsn")
	assert.ErrorContains(t, err, "DB_DSN")
}

func TestOpenStore_Memory(t *testing.T) {
	s, err := OpenStore(context.Background(), Env{DBDriver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, s)
}

func TestOpenStore_Errors(t *testing.T) {
	_, err := OpenStore(context.Background(), Env{DBDriver: "sqlite"})
	assert.Error(t, err)

	_, err = OpenStore(context.Background(), Env{DBDriver: DriverMySQL})
	assert.ErrorContains(t, err, "DB_DSN")

	_, err = OpenStore(context.Background(), Env{DBDriver: DriverPostgres})
	assert.ErrorContains(t, err, "DB_DSN")
}
