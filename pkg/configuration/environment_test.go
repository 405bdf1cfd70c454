package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "REVIEW_SDK_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "modules", "review")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("REVIEW_SDK_TEST_ENV_LOAD")
	t.Cleanup(func() { _ = os.Unsetenv("REVIEW_SDK_TEST_ENV_LOAD") })

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("REVIEW_SDK_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func TestReviewOptions_Validate(t *testing.T) {
	valid := ReviewOptions{EncryptionSecret: "s3cret", DefaultCycleYear: 2025, MaxUploadSize: 1024}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid options, got %v", err)
	}

	cases := map[string]ReviewOptions{
		"empty secret": {EncryptionSecret: " ", DefaultCycleYear: 2025, MaxUploadSize: 1024},
		"bad year":     {EncryptionSecret: "s", DefaultCycleYear: 12, MaxUploadSize: 1024},
		"zero upload":  {EncryptionSecret: "s", DefaultCycleYear: 2025, MaxUploadSize: 0},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			if err := opts.Validate(); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestRateLimitOptions_Validate(t *testing.T) {
	opts := RateLimitOptions{GlobalRPS: 10, Storage: "redis"}
	if err := opts.Validate(); err == nil {
		t.Fatal("expected error when redis storage has no URL")
	}
	opts.RedisURL = "redis://localhost:6379/0"
	if err := opts.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
