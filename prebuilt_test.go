package prebuilt_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	prebuilt "github.com/ZebulonRouseFrantzich/protoc-prebuilt"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/testutil"
)

const (
	testVersion = "22.0"
	testAsset   = "protoc-22.0-linux-x86_64"
)

// fakeRunner stands in for running the installed binary.
type fakeRunner struct {
	out   []byte
	err   error
	calls []string
}

func (r *fakeRunner) Run(_ context.Context, path string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, path)
	return r.out, r.err
}

func reporting(version string) *fakeRunner {
	return &fakeRunner{out: []byte("libprotoc " + version + "\n")}
}

func newConfig(outDir string) *prebuilt.Config {
	return &prebuilt.Config{OutDir: outDir, CheckVersion: true}
}

func serverOptions(server *testutil.ReleaseServer, runner prebuilt.Runner) []prebuilt.Option {
	return []prebuilt.Option{
		prebuilt.WithPlatform("linux", "x86_64"),
		prebuilt.WithBaseURLs(server.URL, server.URL),
		prebuilt.WithRunner(runner),
	}
}

func TestInitWithConfig_Install(t *testing.T) {
	server := testutil.NewReleaseServer(t, testVersion, testAsset, testutil.ProtocZip(t))
	outDir := t.TempDir()
	runner := reporting(testVersion)

	bin, include, err := prebuilt.InitWithConfig(context.Background(), newConfig(outDir), testVersion, serverOptions(server, runner)...)
	if err != nil {
		t.Fatalf("InitWithConfig() error = %v", err)
	}

	wantBin := filepath.Join(outDir, testAsset, "bin", "protoc")
	if bin != wantBin {
		t.Errorf("bin = %q, want %q", bin, wantBin)
	}
	wantInclude := filepath.Join(outDir, testAsset, "include")
	if include != wantInclude {
		t.Errorf("include = %q, want %q", include, wantInclude)
	}
	if _, err := os.Stat(filepath.Join(include, "google", "protobuf", "empty.proto")); err != nil {
		t.Errorf("include content missing: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0] != wantBin {
		t.Errorf("runner calls = %v, want one probe of %s", runner.calls, wantBin)
	}

	// a second call reuses the install
	before := server.Requests.Load()
	if _, _, err := prebuilt.InitWithConfig(context.Background(), newConfig(outDir), testVersion, serverOptions(server, runner)...); err != nil {
		t.Fatalf("second InitWithConfig() error = %v", err)
	}
	if got := server.Requests.Load(); got != before {
		t.Errorf("second call made %d requests", got-before)
	}
}

func TestInitWithConfig_VersionCheck(t *testing.T) {
	tests := []struct {
		name         string
		reported     string
		checkVersion bool
		wantErr      bool
	}{
		{name: "match", reported: testVersion, checkVersion: true},
		{name: "mismatch", reported: "21.12", checkVersion: true, wantErr: true},
		{name: "mismatch ignored", reported: "21.12", checkVersion: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewReleaseServer(t, testVersion, testAsset, testutil.ProtocZip(t))
			cfg := newConfig(t.TempDir())
			cfg.CheckVersion = tt.checkVersion

			_, _, err := prebuilt.InitWithConfig(context.Background(), cfg, testVersion, serverOptions(server, reporting(tt.reported))...)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("InitWithConfig() error = %v", err)
				}
				return
			}

			if !prebuilt.ErrVersionMismatch.Has(err) {
				t.Fatalf("InitWithConfig() error = %v, want ErrVersionMismatch", err)
			}
			var mismatch *prebuilt.MismatchError
			if !errors.As(err, &mismatch) {
				t.Fatalf("error %v has no *MismatchError payload", err)
			}
			if mismatch.Required != testVersion || mismatch.Reported != tt.reported {
				t.Errorf("payload = %+v", mismatch)
			}
		})
	}
}

func TestInitWithConfig_ProbeFailures(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{name: "non utf-8 output", runner: &fakeRunner{out: []byte{0xff, 0xfe, 'x'}}},
		{name: "probe fails", runner: &fakeRunner{err: errors.New("exec format error")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewReleaseServer(t, testVersion, testAsset, testutil.ProtocZip(t))
			cfg := newConfig(t.TempDir())
			// the utf-8 check does not depend on the version check
			cfg.CheckVersion = false

			_, _, err := prebuilt.InitWithConfig(context.Background(), cfg, testVersion, serverOptions(server, tt.runner)...)
			if !prebuilt.ErrIO.Has(err) {
				t.Errorf("InitWithConfig() error = %v, want ErrIO", err)
			}
		})
	}
}

func TestInitWithConfig_ForcedPaths(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "bin", "protoc")
	if err := os.MkdirAll(filepath.Dir(bin), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	include := filepath.Join(dir, "custom-include")
	if err := os.MkdirAll(include, 0o755); err != nil {
		t.Fatal(err)
	}

	t.Run("forced binary needs no out dir", func(t *testing.T) {
		cfg := &prebuilt.Config{ForceProtocPath: bin, CheckVersion: true}
		runner := reporting(testVersion)

		gotBin, gotInclude, err := prebuilt.InitWithConfig(context.Background(), cfg, testVersion, prebuilt.WithRunner(runner))
		if err != nil {
			t.Fatalf("InitWithConfig() error = %v", err)
		}
		if gotBin != bin {
			t.Errorf("bin = %q, want %q", gotBin, bin)
		}
		if want := filepath.Join(dir, "include"); gotInclude != want {
			t.Errorf("include = %q, want %q", gotInclude, want)
		}
	})

	t.Run("forced include", func(t *testing.T) {
		cfg := &prebuilt.Config{ForceProtocPath: bin, ForceIncludePath: include}

		_, gotInclude, err := prebuilt.InitWithConfig(context.Background(), cfg, testVersion, prebuilt.WithRunner(reporting(testVersion)))
		if err != nil {
			t.Fatalf("InitWithConfig() error = %v", err)
		}
		if gotInclude != include {
			t.Errorf("include = %q, want %q", gotInclude, include)
		}
	})

	tests := []struct {
		name string
		cfg  *prebuilt.Config
	}{
		{name: "missing binary", cfg: &prebuilt.Config{ForceProtocPath: filepath.Join(dir, "nope")}},
		{name: "binary is a directory", cfg: &prebuilt.Config{ForceProtocPath: dir}},
		{name: "include is a file", cfg: &prebuilt.Config{ForceProtocPath: bin, ForceIncludePath: bin}},
		{name: "missing include", cfg: &prebuilt.Config{ForceProtocPath: bin, ForceIncludePath: filepath.Join(dir, "nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := prebuilt.InitWithConfig(context.Background(), tt.cfg, testVersion, prebuilt.WithRunner(reporting(testVersion)))
			if !prebuilt.ErrForcePath.Has(err) {
				t.Errorf("InitWithConfig() error = %v, want ErrForcePath", err)
			}
		})
	}
}

func TestInitWithConfig_InvalidIncludeOverrideSkipsInstall(t *testing.T) {
	server := testutil.NewReleaseServer(t, testVersion, testAsset, testutil.ProtocZip(t))
	outDir := t.TempDir()
	runner := reporting(testVersion)

	cfg := newConfig(outDir)
	cfg.ForceIncludePath = filepath.Join(t.TempDir(), "does-not-exist")

	_, _, err := prebuilt.InitWithConfig(context.Background(), cfg, testVersion, serverOptions(server, runner)...)
	if !prebuilt.ErrForcePath.Has(err) {
		t.Fatalf("InitWithConfig() error = %v, want ErrForcePath", err)
	}

	if got := server.Requests.Load(); got != 0 {
		t.Errorf("requests = %d, want 0", got)
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner calls = %v, want none", runner.calls)
	}
	if _, err := os.Stat(filepath.Join(outDir, testAsset)); !os.IsNotExist(err) {
		t.Errorf("install dir created despite invalid include override: %v", err)
	}
}

func TestInitWithConfig_Errors(t *testing.T) {
	t.Run("missing out dir", func(t *testing.T) {
		_, _, err := prebuilt.InitWithConfig(context.Background(), &prebuilt.Config{CheckVersion: true}, testVersion,
			prebuilt.WithPlatform("linux", "x86_64"), prebuilt.WithRunner(reporting(testVersion)))
		if !prebuilt.ErrEnvMissing.Has(err) {
			t.Errorf("InitWithConfig() error = %v, want ErrEnvMissing", err)
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		server := testutil.NewReleaseServer(t, testVersion, testAsset, testutil.ProtocZip(t))
		_, _, err := prebuilt.InitWithConfig(context.Background(), newConfig(t.TempDir()), testVersion,
			prebuilt.WithPlatform("freebsd", "x86_64"),
			prebuilt.WithBaseURLs(server.URL, server.URL),
			prebuilt.WithRunner(reporting(testVersion)))
		if !prebuilt.ErrPlatformUnsupported.Has(err) {
			t.Errorf("InitWithConfig() error = %v, want ErrPlatformUnsupported", err)
		}
		if got := server.Requests.Load(); got != 0 {
			t.Errorf("requests = %d, want 0", got)
		}
	})

	t.Run("version not found", func(t *testing.T) {
		server := testutil.NewReleaseServer(t, testVersion, testAsset, testutil.ProtocZip(t))
		server.ReleaseCode = http.StatusNotFound

		_, _, err := prebuilt.InitWithConfig(context.Background(), newConfig(t.TempDir()), testVersion, serverOptions(server, reporting(testVersion))...)
		if !prebuilt.ErrVersionNotFound.Has(err) {
			t.Errorf("InitWithConfig() error = %v, want ErrVersionNotFound", err)
		}
	})

	t.Run("remote failure payload", func(t *testing.T) {
		server := testutil.NewReleaseServer(t, testVersion, testAsset, testutil.ProtocZip(t))
		server.AssetCode = http.StatusBadGateway
		server.AssetBody = []byte("upstream down")

		_, _, err := prebuilt.InitWithConfig(context.Background(), newConfig(t.TempDir()), testVersion, serverOptions(server, reporting(testVersion))...)
		var remote *prebuilt.RemoteError
		if !prebuilt.ErrRemote.Has(err) || !errors.As(err, &remote) {
			t.Fatalf("InitWithConfig() error = %v, want ErrRemote with payload", err)
		}
		if remote.StatusCode != http.StatusBadGateway || remote.Body != "upstream down" {
			t.Errorf("payload = %+v", remote)
		}
	})
}

func TestInitWithConfig_LegacyWindowsLayout(t *testing.T) {
	const (
		version = "3.0.0-beta-3"
		asset   = "protoc-3.0.0-beta-3-win32"
	)
	archive := testutil.BuildZip(t, []testutil.ZipEntry{
		{Name: "protoc.exe", Body: "MZ", Mode: 0o755},
		{Name: "google/protobuf/any.proto", Body: "x", Mode: 0o644},
	})
	server := testutil.NewReleaseServer(t, version, asset, archive)
	outDir := t.TempDir()

	bin, include, err := prebuilt.InitWithConfig(context.Background(), newConfig(outDir), version,
		prebuilt.WithPlatform("windows", "x86"),
		prebuilt.WithBaseURLs(server.URL, server.URL),
		prebuilt.WithRunner(reporting("3.0.0")))
	if err != nil {
		t.Fatalf("InitWithConfig() error = %v", err)
	}

	if want := filepath.Join(outDir, asset, "protoc.exe"); bin != want {
		t.Errorf("bin = %q, want %q", bin, want)
	}
	if want := filepath.Join(outDir, asset); include != want {
		t.Errorf("include = %q, want %q", include, want)
	}
}

func TestInit_ReadsEnvironment(t *testing.T) {
	testutil.SetupTestEnv(t)
	testutil.Unsetenv(t, "OUT_DIR")

	_, _, err := prebuilt.Init(context.Background(), testVersion)
	if !prebuilt.ErrEnvMissing.Has(err) {
		t.Errorf("Init() error = %v, want ErrEnvMissing", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	cfg := prebuilt.ConfigFromEnv(func(key string) (string, bool) {
		switch key {
		case "OUT_DIR":
			return "/tmp/protoc", true
		case "PROTOC_PREBUILT_NOT_CHECK_VERSION":
			return "true", true
		}
		return "", false
	})

	if cfg.OutDir != "/tmp/protoc" {
		t.Errorf("OutDir = %q", cfg.OutDir)
	}
	if cfg.CheckVersion {
		t.Error("CheckVersion = true, want false")
	}
	if !cfg.UseProxy {
		t.Error("UseProxy = false, want true by default")
	}
}
