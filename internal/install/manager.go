package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/config"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/lock"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/transport"
)

const (
	// DefaultAPIBaseURL is the GitHub REST API root.
	DefaultAPIBaseURL = "https://api.github.com"
	// DefaultDownloadBaseURL is the root of release asset downloads.
	DefaultDownloadBaseURL = "https://github.com"

	// Repository is the GitHub repository that publishes protoc releases.
	Repository = "protocolbuffers/protobuf"

	// archiveExt is the extension of every protoc release asset.
	archiveExt = ".zip"
	// maxErrorBody bounds how much of a failed response is kept.
	maxErrorBody = 64 << 10
)

// Fetcher performs GET requests. *transport.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*transport.Response, error)
}

// ProgressFunc returns a writer that receives the downloaded bytes of asset.
// total is -1 when the size is unknown. A writer implementing io.Closer is
// closed when the download ends.
type ProgressFunc func(asset string, total int64) io.Writer

// Config holds configuration for the install manager.
type Config struct {
	// OutDir is the output root that holds install directories.
	OutDir string
	// OS and Arch select the release asset.
	OS   string
	Arch string

	Fetcher Fetcher

	// APIBaseURL and DownloadBaseURL default to GitHub.
	APIBaseURL      string
	DownloadBaseURL string

	// Extractor defaults to NewExtractor().
	Extractor *Extractor
	Progress  ProgressFunc
	Logger    config.Logger
}

// Manager orchestrates release lookup, download and extraction.
type Manager struct {
	outDir       string
	os           string
	arch         string
	fetcher      Fetcher
	apiBase      string
	downloadBase string
	extractor    *Extractor
	progress     ProgressFunc
	logger       config.Logger
}

// NewManager creates a new install manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.OutDir == "" {
		return nil, protoc.ErrEnvMissing.New("%s", config.EnvOutDir)
	}
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	m := &Manager{
		outDir:       cfg.OutDir,
		os:           cfg.OS,
		arch:         cfg.Arch,
		fetcher:      cfg.Fetcher,
		apiBase:      strings.TrimRight(cfg.APIBaseURL, "/"),
		downloadBase: strings.TrimRight(cfg.DownloadBaseURL, "/"),
		extractor:    cfg.Extractor,
		progress:     cfg.Progress,
		logger:       config.OrNoop(cfg.Logger),
	}

	if m.apiBase == "" {
		m.apiBase = DefaultAPIBaseURL
	}
	if m.downloadBase == "" {
		m.downloadBase = DefaultDownloadBaseURL
	}
	if m.extractor == nil {
		m.extractor = NewExtractor()
	}

	return m, nil
}

// AssetName returns the release asset name for version on the manager's platform.
func (m *Manager) AssetName(version string) (string, error) {
	return protoc.AssetName(version, m.os, m.arch)
}

// InstallDir returns <out_dir>/<asset name> for version.
func (m *Manager) InstallDir(version string) (string, error) {
	asset, err := m.AssetName(version)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.outDir, asset), nil
}

// IsInstalled reports whether the install directory for version exists.
func (m *Manager) IsInstalled(version string) (bool, error) {
	dir, err := m.InstallDir(version)
	if err != nil {
		return false, err
	}
	return exists(dir)
}

// ReleaseURL returns the GitHub API URL of the release tag for version.
func (m *Manager) ReleaseURL(version string) string {
	return fmt.Sprintf("%s/repos/%s/releases/tags/v%s", m.apiBase, Repository, version)
}

// AssetURL returns the download URL of the asset archive.
func (m *Manager) AssetURL(version, asset string) string {
	return fmt.Sprintf("%s/%s/releases/download/v%s/%s%s", m.downloadBase, Repository, version, asset, archiveExt)
}

// Install makes sure the release for version is unpacked under the output
// root and returns its install directory.
func (m *Manager) Install(ctx context.Context, version string) (string, error) {
	asset, err := m.AssetName(version)
	if err != nil {
		return "", err
	}
	installDir := filepath.Join(m.outDir, asset)

	installed, err := exists(installDir)
	if err != nil {
		return "", err
	}
	if installed {
		m.logger.Debug("already installed", "dir", installDir)
		return installDir, nil
	}

	if err := os.MkdirAll(m.outDir, 0o755); err != nil {
		return "", protoc.ErrIO.Wrap(fmt.Errorf("create output dir: %w", err))
	}

	waiting := func() {
		m.logger.Info("waiting for another install to finish", "lock", lock.Path(installDir))
	}
	err = lock.With(ctx, installDir, waiting, func() error {
		// another process may have finished while we waited
		installed, err := exists(installDir)
		if err != nil || installed {
			return err
		}
		return m.install(ctx, version, asset, installDir)
	})
	if err != nil {
		if protoc.ErrorClass(err) == nil {
			err = protoc.ErrIO.Wrap(err)
		}
		return "", err
	}

	return installDir, nil
}

func (m *Manager) install(ctx context.Context, version, asset, installDir string) error {
	m.logger.Debug("checking release", "version", version)
	if err := m.checkRelease(ctx, version); err != nil {
		return err
	}

	archivePath := filepath.Join(m.outDir, asset+archiveExt)
	defer func() {
		if err := os.Remove(archivePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("failed to remove archive", "path", archivePath, "error", err)
		}
	}()

	m.logger.Debug("downloading", "asset", asset)
	if err := m.download(ctx, version, asset, archivePath); err != nil {
		return err
	}

	m.logger.Debug("extracting", "archive", archivePath, "dir", installDir)
	if err := m.unpack(version, archivePath, installDir); err != nil {
		return err
	}

	m.logger.Debug("installed", "dir", installDir)
	return nil
}

// checkRelease confirms the release tag exists.
func (m *Manager) checkRelease(ctx context.Context, version string) error {
	url := m.ReleaseURL(version)

	resp, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return protoc.ErrVersionNotFound.New("`%s`", version)
	case !success(resp.StatusCode):
		return remoteError(url, resp)
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return nil
}

// download writes the asset archive to archivePath.
func (m *Manager) download(ctx context.Context, version, asset, archivePath string) error {
	url := m.AssetURL(version, asset)

	resp, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return protoc.ErrPlatformBuildNotFound.New("version `%s`, asset `%s`", version, asset)
	case !success(resp.StatusCode):
		return remoteError(url, resp)
	}

	if err := os.Remove(archivePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return protoc.ErrIO.Wrap(fmt.Errorf("remove stale archive: %w", err))
	}

	file, err := os.OpenFile(archivePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return protoc.ErrIO.Wrap(fmt.Errorf("create archive: %w", err))
	}

	var body io.Reader = resp.Body
	if m.progress != nil {
		w := m.progress(asset, resp.ContentLength)
		if c, ok := w.(io.Closer); ok {
			defer c.Close()
		}
		body = io.TeeReader(resp.Body, w)
	}

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		return protoc.ErrTransport.Wrap(fmt.Errorf("read asset body: %w", err))
	}
	if err := file.Close(); err != nil {
		return protoc.ErrIO.Wrap(fmt.Errorf("close archive: %w", err))
	}

	return nil
}

// unpack extracts into a temporary sibling of installDir and renames it into
// place, so a failed extraction never leaves an install directory behind.
// The archive must contain the protoc binary.
func (m *Manager) unpack(version, archivePath, installDir string) error {
	tmpDir, err := os.MkdirTemp(filepath.Dir(installDir), filepath.Base(installDir)+".tmp-")
	if err != nil {
		return protoc.ErrIO.Wrap(fmt.Errorf("create temp dir: %w", err))
	}

	renamed := false
	defer func() {
		if !renamed {
			os.RemoveAll(tmpDir)
		}
	}()

	if err := m.extractor.Extract(archivePath, tmpDir); err != nil {
		return err
	}

	binPath := protoc.BinPath(version, tmpDir, m.os)
	if _, err := os.Stat(binPath); err != nil {
		rel, _ := filepath.Rel(tmpDir, binPath)
		return protoc.ErrArchive.New("%s not found in archive", filepath.ToSlash(rel))
	}
	if err := SetExecutable(binPath); err != nil {
		return err
	}

	if err := os.Rename(tmpDir, installDir); err != nil {
		return protoc.ErrIO.Wrap(fmt.Errorf("move into place: %w", err))
	}
	renamed = true

	return nil
}

func success(code int) bool {
	return code >= 200 && code < 300
}

func remoteError(url string, resp *transport.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return protoc.ErrIO.Wrap(fmt.Errorf("read error response: %w", err))
	}
	return protoc.ErrRemote.Wrap(&protoc.RemoteError{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	})
}

// exists reports whether path exists. Errors other than "not exist" are
// returned as ErrIO.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, protoc.ErrIO.Wrap(err)
	}
}
