package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/zip"
)

// ZipEntry is one file of a test archive. A zero Mode keeps the zip default.
type ZipEntry struct {
	Name string
	Body string
	Mode os.FileMode
}

// BuildZip returns a zip archive holding entries.
func BuildZip(t *testing.T, entries []ZipEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		if e.Mode != 0 {
			hdr.SetMode(e.Mode)
		}
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", e.Name, err)
		}
		if e.Body == "" {
			continue
		}
		if _, err := w.Write([]byte(e.Body)); err != nil {
			t.Fatalf("write zip entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// ProtocZip is a minimal release archive with the modern layout: bin/protoc
// and include/.
func ProtocZip(t *testing.T) []byte {
	t.Helper()

	return BuildZip(t, []ZipEntry{
		{Name: "bin/", Mode: os.ModeDir | 0o755},
		{Name: "bin/protoc", Body: "#!/bin/sh\necho libprotoc 22.0\n", Mode: 0o755},
		{Name: "include/google/protobuf/empty.proto", Body: "syntax = \"proto3\";\n", Mode: 0o644},
		{Name: "readme.txt", Body: "protoc\n"},
	})
}

// ReleaseServer serves one release tag through the GitHub API paths and one
// release asset, and counts requests. Set the exported fields before the
// first request.
type ReleaseServer struct {
	*httptest.Server
	Requests atomic.Int32

	ReleaseCode int
	ReleaseBody string
	AssetCode   int
	AssetBody   []byte
}

// NewReleaseServer starts a ReleaseServer for version and asset, closed when
// the test ends. Use its URL as both the API and the download base URL.
func NewReleaseServer(t *testing.T, version, asset string, archive []byte) *ReleaseServer {
	t.Helper()

	releasePath := "/repos/protocolbuffers/protobuf/releases/tags/v" + version
	assetPath := "/protocolbuffers/protobuf/releases/download/v" + version + "/" + asset + ".zip"

	s := &ReleaseServer{
		ReleaseCode: http.StatusOK,
		ReleaseBody: `{"tag_name":"v` + version + `"}`,
		AssetCode:   http.StatusOK,
		AssetBody:   archive,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Requests.Add(1)
		switch r.URL.Path {
		case releasePath:
			w.WriteHeader(s.ReleaseCode)
			_, _ = w.Write([]byte(s.ReleaseBody))
		case assetPath:
			w.Header().Set("Content-Length", strconv.Itoa(len(s.AssetBody)))
			w.WriteHeader(s.AssetCode)
			_, _ = w.Write(s.AssetBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)

	return s
}
