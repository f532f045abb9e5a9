package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_LoadsExistingFilesOnly(t *testing.T) {
	tmp := t.TempDir()
	requireWriteFile(t, filepath.Join(tmp, ".env"), "CSLBSYNC_TEST_ENV_LOAD=ok\n")

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("CSLBSYNC_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("CSLBSYNC_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded, got %q", got)
	}
}

func TestDatabaseOptions_ConnectionString(t *testing.T) {
	opts := DatabaseOptions{
		Name:     "portal",
		Host:     "db.internal",
		Port:     "5433",
		User:     "app",
		Password: "secret",
	}
	want := "host=db.internal port=5433 user=app dbname=portal password=secret sslmode=disable"
	if got := opts.ConnectionString(); got != want {
		t.Fatalf("unexpected connection string: %q", got)
	}
}

func TestLogrusLogLevel_Mapping(t *testing.T) {
	cases := map[string]string{
		"silent": "panic",
		"error":  "error",
		"warn":   "warning",
		"info":   "info",
		"debug":  "debug",
		"bogus":  "info",
		"":       "info",
	}
	for in, want := range cases {
		c := &Configuration{LogLevel: in}
		if got := c.LogrusLogLevel().String(); got != want {
			t.Fatalf("LogLevel %q: expected %s, got %s", in, want, got)
		}
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
