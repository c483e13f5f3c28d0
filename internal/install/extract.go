package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zip"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"
)

const (
	zipMIME = "application/zip"
	// DefaultMaxFileSize bounds the decompressed size of a single entry.
	DefaultMaxFileSize = 512 << 20
)

// Extractor handles archive extraction
type Extractor struct {
	maxFileSize int64
}

// NewExtractor creates a new extractor
func NewExtractor() *Extractor {
	return &Extractor{maxFileSize: DefaultMaxFileSize}
}

// Extract checks the archive's type by its magic bytes and unpacks it into
// destDir. Only zip archives are accepted.
func (e *Extractor) Extract(archivePath, destDir string) error {
	mime, err := mimetype.DetectFile(archivePath)
	if err != nil {
		return protoc.ErrArchive.Wrap(fmt.Errorf("detect archive type: %w", err))
	}
	if !isZip(mime) {
		return protoc.ErrArchive.New("unexpected archive type %s", mime.String())
	}

	return e.Unzip(archivePath, destDir)
}

// isZip reports whether mime is zip or a zip-based format.
func isZip(mime *mimetype.MIME) bool {
	for m := mime; m != nil; m = m.Parent() {
		if m.Is(zipMIME) {
			return true
		}
	}
	return false
}

// Unzip extracts a zip archive into destDir, keeping each entry's mode.
// Entries that would land outside destDir are rejected.
func (e *Extractor) Unzip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if r != nil {
		defer r.Close()
	}
	if err != nil {
		return protoc.ErrArchive.Wrap(fmt.Errorf("open archive: %w", err))
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return protoc.ErrIO.Wrap(fmt.Errorf("create dest dir: %w", err))
	}

	for _, f := range r.File {
		if err := e.extractFile(f, destDir); err != nil {
			return err
		}
	}

	return nil
}

func (e *Extractor) extractFile(f *zip.File, destDir string) error {
	target, err := validatePath(f.Name, destDir)
	if err != nil {
		return err
	}

	mode := f.Mode()
	switch {
	case mode.IsDir():
		if err := os.MkdirAll(target, 0o755); err != nil {
			return protoc.ErrIO.Wrap(fmt.Errorf("create directory %s: %w", target, err))
		}
		return nil
	case mode&os.ModeSymlink != 0:
		// protoc releases ship none
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return protoc.ErrIO.Wrap(fmt.Errorf("create parent dir for %s: %w", target, err))
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}

	rc, err := f.Open()
	if err != nil {
		return protoc.ErrArchive.Wrap(fmt.Errorf("open %s: %w", f.Name, err))
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return protoc.ErrIO.Wrap(fmt.Errorf("create file %s: %w", target, err))
	}

	n, err := io.Copy(out, io.LimitReader(rc, e.maxFileSize+1))
	if err != nil {
		out.Close()
		return protoc.ErrArchive.Wrap(fmt.Errorf("write file %s: %w", target, err))
	}
	if n > e.maxFileSize {
		out.Close()
		return protoc.ErrArchive.New("decompressed size of %s exceeds limit %d", f.Name, e.maxFileSize)
	}

	if err := out.Close(); err != nil {
		return protoc.ErrIO.Wrap(fmt.Errorf("close file %s: %w", target, err))
	}
	return nil
}

// validatePath joins name onto destDir and rejects traversal.
func validatePath(name, destDir string) (string, error) {
	target := filepath.Join(destDir, name)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", protoc.ErrArchive.New("illegal file path: %s", name)
	}
	return target, nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0o755); err != nil {
		return protoc.ErrIO.Wrap(fmt.Errorf("set executable: %w", err))
	}
	return nil
}
