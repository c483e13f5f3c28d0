// Package testutil provides utilities for testing protoc-prebuilt in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// managedEnv lists every variable the resolver reads.
var managedEnv = []string{
	"OUT_DIR",
	"PROTOC_PREBUILT_FORCE_PROTOC_PATH",
	"PROTOC_PREBUILT_FORCE_INCLUDE_PATH",
	"PROTOC_PREBUILT_NOT_CHECK_VERSION",
	"PROTOC_PREBUILT_NOT_USE_PROXY",
	"PROTOC_PREBUILT_NOT_ADD_GITHUB_TOKEN",
	"PROTOC_PREBUILT_GITHUB_TOKEN_ENV_NAME",
	"GITHUB_TOKEN",
	"http_proxy", "HTTP_PROXY", "https_proxy", "HTTPS_PROXY",
	"no_proxy", "NO_PROXY",
}

// SetupTestEnv clears every variable the resolver reads and points OUT_DIR
// at a fresh temporary directory, which it returns. The previous environment
// is restored when the test ends.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	for _, key := range managedEnv {
		Unsetenv(t, key)
	}

	outDir := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", outDir, err)
	}
	t.Setenv("OUT_DIR", outDir)

	return outDir
}

// Unsetenv removes key for the duration of the test.
func Unsetenv(t *testing.T, key string) {
	t.Helper()

	// t.Setenv registers the restore
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}
