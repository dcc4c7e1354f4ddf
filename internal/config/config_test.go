package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Supabase.KYCBucket != "kyc-documents" {
		t.Fatalf("bucket = %q", cfg.Supabase.KYCBucket)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  addr: ":9090"
  rate_limit_rps: 5
owner:
  email: owner@carryspace.example
logging:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.RateLimitRPS != 5 {
		t.Fatalf("rps = %d", cfg.Server.RateLimitRPS)
	}
	if cfg.Owner.Email != "owner@carryspace.example" {
		t.Fatalf("owner = %q", cfg.Owner.Email)
	}
	// Values absent from the file keep their defaults.
	if cfg.Supabase.KYCBucket != "kyc-documents" {
		t.Fatalf("bucket = %q", cfg.Supabase.KYCBucket)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("owner:\n  email: file@example.com\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OWNER_EMAIL", "env@example.com")
	t.Setenv("SERVER_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Owner.Email != "env@example.com" {
		t.Fatalf("owner = %q", cfg.Owner.Email)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when owner email is empty")
	}

	cfg.Owner.Email = "owner@carryspace.example"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	cfg.Server.Addr = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when server addr is empty")
	}
}
