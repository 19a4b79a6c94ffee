package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "ZEON_DOTENV_A=hello\n# comment\nZEON_DOTENV_B=\"quoted value\"\nexport ZEON_DOTENV_D=exported\ninvalid line\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	os.Unsetenv("ZEON_DOTENV_A")
	os.Unsetenv("ZEON_DOTENV_B")
	os.Unsetenv("ZEON_DOTENV_D")
	t.Setenv("ZEON_DOTENV_C", "preset")
	defer func() {
		os.Unsetenv("ZEON_DOTENV_A")
		os.Unsetenv("ZEON_DOTENV_B")
		os.Unsetenv("ZEON_DOTENV_D")
	}()

	if err := LoadDotenv(path); err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}

	if got := os.Getenv("ZEON_DOTENV_A"); got != "hello" {
		t.Errorf("A = %q", got)
	}
	if got := os.Getenv("ZEON_DOTENV_B"); got != "quoted value" {
		t.Errorf("B = %q", got)
	}
	if got := os.Getenv("ZEON_DOTENV_C"); got != "preset" {
		t.Errorf("existing var overridden: C = %q", got)
	}
	if got := os.Getenv("ZEON_DOTENV_D"); got != "exported" {
		t.Errorf("D = %q", got)
	}
}

func TestLoadDotenv_MissingFile(t *testing.T) {
	if err := LoadDotenv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing .env should not error: %v", err)
	}
}
