package prebuilt

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/config"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/install"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/platform"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/transport"
)

// Version is the module version sent in the User-Agent header.
const Version = "0.1.0"

// UserAgent identifies this module to GitHub.
const UserAgent = "protoc-prebuilt/" + Version

type (
	// Config is the resolver configuration; see ConfigFromEnv.
	Config = config.Config
	// Logger receives debug traces of the install steps.
	Logger = config.Logger
	// Runner runs the binary for the version probe.
	Runner = install.Runner
	// Fetcher performs GET requests against GitHub.
	Fetcher = install.Fetcher
	// Response is what a Fetcher returns.
	Response = transport.Response
	// ProgressFunc receives the download byte stream.
	ProgressFunc = install.ProgressFunc
)

// ConfigFromEnv builds a Config using lookup, which has the signature of
// os.LookupEnv.
func ConfigFromEnv(lookup func(key string) (string, bool)) *Config {
	return config.FromEnv(lookup)
}

type options struct {
	detector        platform.Detector
	runner          Runner
	fetcher         Fetcher
	logger          Logger
	progress        ProgressFunc
	apiBaseURL      string
	downloadBaseURL string
}

// Option configures InitWithConfig.
type Option func(*options)

// WithPlatform selects the release for os and arch instead of the host's,
// using the names "linux", "macos", "windows" and "x86", "x86_64",
// "aarch64", "powerpc64", "s390x".
func WithPlatform(os, arch string) Option {
	return func(o *options) {
		o.detector = platform.StaticDetector{OS: os, Arch: arch}
	}
}

// WithRunner replaces the process runner used for the version probe.
func WithRunner(r Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithFetcher replaces the HTTP client.
func WithFetcher(f Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProgress sets a download progress sink.
func WithProgress(p ProgressFunc) Option {
	return func(o *options) { o.progress = p }
}

// WithBaseURLs points the release lookup and the asset download at other
// hosts, such as a mirror. Empty values keep the GitHub defaults.
func WithBaseURLs(api, download string) Option {
	return func(o *options) {
		o.apiBaseURL = api
		o.downloadBaseURL = download
	}
}

// Init installs protoc version if needed and returns the paths to the
// binary and the include directory. Configuration is read from the process
// environment once.
func Init(ctx context.Context, version string) (bin, include string, err error) {
	return InitWithConfig(ctx, config.FromOS(), version)
}

// InitWithConfig is Init with explicit configuration.
func InitWithConfig(ctx context.Context, cfg *Config, version string, opts ...Option) (bin, include string, err error) {
	o := &options{
		detector: platform.NewDetector(),
		runner:   install.ExecRunner{},
	}
	for _, opt := range opts {
		opt(o)
	}
	logger := config.OrNoop(o.logger)

	bin, err = install.ForceBin(cfg)
	if err != nil {
		return "", "", err
	}
	include, err = install.ForceInclude(cfg)
	if err != nil {
		return "", "", err
	}

	var info *platform.Info
	if bin == "" {
		info, err = o.detector.Detect(ctx)
		if err != nil {
			return "", "", protoc.ErrIO.Wrap(err)
		}

		bin, err = installed(ctx, cfg, o, info, version, logger)
		if err != nil {
			return "", "", err
		}
	} else {
		logger.Debug("using forced protoc", "path", bin)
	}

	if _, err := os.Stat(bin); err != nil {
		return "", "", protoc.ErrIO.Wrap(err)
	}

	out, err := o.runner.Run(ctx, bin, "--version")
	if err != nil {
		if protoc.ErrorClass(err) == nil {
			err = protoc.ErrIO.Wrap(err)
		}
		return "", "", err
	}
	if !utf8.Valid(out) {
		return "", "", protoc.ErrIO.New("parse test run protoc output fail")
	}

	if cfg.CheckVersion {
		reported := protoc.ParseSelfReport(string(out))
		if !protoc.CompareVersions(version, reported) {
			return "", "", protoc.ErrVersionMismatch.Wrap(&protoc.MismatchError{
				Required: version,
				Reported: reported,
			})
		}
		logger.Debug("version check passed", "required", version, "reported", reported)
	}

	if include == "" {
		include = protoc.IncludePath(version, bin)
	}

	return bin, include, nil
}

// installed installs the release for the detected platform and returns the
// binary path inside it.
func installed(ctx context.Context, cfg *Config, o *options, info *platform.Info, version string, logger Logger) (string, error) {
	if cfg.OutDir == "" {
		return "", protoc.ErrEnvMissing.New("%s", config.EnvOutDir)
	}

	fetcher := o.fetcher
	if fetcher == nil {
		client, err := transport.New(transport.Options{
			UserAgent: UserAgent,
			Token:     cfg.Token,
			UseProxy:  cfg.UseProxy,
			Proxy:     cfg.HTTPProxy,
			NoProxy:   cfg.NoProxy,
		})
		if err != nil {
			return "", err
		}
		fetcher = client
	}

	m, err := install.NewManager(install.Config{
		OutDir:          cfg.OutDir,
		OS:              info.OS,
		Arch:            info.Arch,
		Fetcher:         fetcher,
		APIBaseURL:      o.apiBaseURL,
		DownloadBaseURL: o.downloadBaseURL,
		Progress:        o.progress,
		Logger:          logger,
	})
	if err != nil {
		return "", fmt.Errorf("create install manager: %w", err)
	}

	dir, err := m.Install(ctx, version)
	if err != nil {
		return "", err
	}

	return protoc.BinPath(version, dir, info.OS), nil
}
