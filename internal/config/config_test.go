package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Port != "5432" {
		t.Errorf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Auth.JWTSecret != devJWTSecret {
		t.Errorf("expected development secret fallback")
	}
	if len(cfg.CORS.AllowOrigins) != 2 {
		t.Errorf("expected 2 default origins, got %v", cfg.CORS.AllowOrigins)
	}
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error without JWT_SECRET in production")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "DB_DRIVER=sqlite\nDB_PATH=/tmp/console-test.db\nSESSION_TTL=2h\nCORS_ALLOW_ORIGINS= https://a.example , https://b.example \n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set
	for _, key := range []string{"DB_DRIVER", "DB_PATH", "SESSION_TTL", "CORS_ALLOW_ORIGINS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN() != "/tmp/console-test.db" {
		t.Errorf("unexpected sqlite config: %+v", cfg.Database)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("expected 2h TTL, got %v", cfg.Auth.TokenTTL)
	}
	if len(cfg.CORS.AllowOrigins) != 2 || cfg.CORS.AllowOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins: %v", cfg.CORS.AllowOrigins)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestDSN(t *testing.T) {
	pg := DatabaseConfig{Driver: "postgres", User: "u", Password: "p", Host: "h", Port: "5432", Name: "db", SSLMode: "disable"}
	if got := pg.DSN(); got != "postgres://u:p@h:5432/db?sslmode=disable" {
		t.Errorf("unexpected postgres DSN: %s", got)
	}
	my := DatabaseConfig{Driver: "mysql", User: "u", Password: "p", Host: "h", Port: "3306", Name: "db"}
	if got := my.DSN(); got != "u:p@tcp(h:3306)/db?charset=utf8mb4&parseTime=True&loc=Local" {
		t.Errorf("unexpected mysql DSN: %s", got)
	}
}
