package config

import "testing"

func validConfig() *Config {
	return &Config{
		Port:          "8000",
		Env:           "development",
		DatabaseURL:   "postgres://localhost:5432/matricare",
		JWTSecret:     "0123456789abcdef0123456789abcdef",
		TokenTTLHours: 72,
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidate_MissingJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = "too-short"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short JWT_SECRET")
	}
}

func TestValidate_BadTokenTTL(t *testing.T) {
	cfg := validConfig()
	cfg.TokenTTLHours = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive TOKEN_TTL_HOURS")
	}
}

func TestIsDev(t *testing.T) {
	cfg := validConfig()
	if !cfg.IsDev() {
		t.Error("expected development mode")
	}
	cfg.Env = "production"
	if cfg.IsDev() {
		t.Error("expected non-development mode")
	}
}
