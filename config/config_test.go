package config

import "testing"

func TestDSNFromURL(t *testing.T) {
	c := DatabaseConfig{URL: "postgres://h:5432/x?sslmode=disable", Host: "ignored"}
	if got := c.DSN(); got != "postgres://h:5432/x?sslmode=disable" {
		t.Errorf("DSN() = %q, want DATABASE_URL verbatim", got)
	}
}

func TestDSNFromComponents(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: "5433", User: "app", Password: "secret",
		DBName: "meetings", SSLMode: "require",
	}
	want := "postgres://app:secret@db:5433/meetings?sslmode=require"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port == "" {
		t.Error("server port default missing")
	}
	if cfg.JWT.ExpireHours <= 0 {
		t.Errorf("jwt expire hours = %d, want positive default", cfg.JWT.ExpireHours)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VALUE", "42")
	if got := getEnvInt("TEST_INT_VALUE", 7); got != 42 {
		t.Errorf("getEnvInt = %d, want 42", got)
	}
	t.Setenv("TEST_INT_VALUE", "not-a-number")
	if got := getEnvInt("TEST_INT_VALUE", 7); got != 7 {
		t.Errorf("getEnvInt with garbage = %d, want fallback 7", got)
	}
}
