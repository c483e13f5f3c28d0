package install

import (
	"testing"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/testutil"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/transport"
)

const (
	testVersion = "22.0"
	testAsset   = "protoc-22.0-linux-x86_64"
)

func newReleaseServer(t *testing.T, archive []byte) *testutil.ReleaseServer {
	return testutil.NewReleaseServer(t, testVersion, testAsset, archive)
}

func newTestManager(t *testing.T, server *testutil.ReleaseServer, outDir string) *Manager {
	t.Helper()

	client, err := transport.New(transport.Options{})
	if err != nil {
		t.Fatalf("transport.New() error = %v", err)
	}

	m, err := NewManager(Config{
		OutDir:          outDir,
		OS:              "linux",
		Arch:            "x86_64",
		Fetcher:         client,
		APIBaseURL:      server.URL,
		DownloadBaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}
