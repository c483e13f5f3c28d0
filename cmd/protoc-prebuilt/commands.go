package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	prebuilt "github.com/ZebulonRouseFrantzich/protoc-prebuilt"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/config"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/install"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/platform"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/transport"
)

// platformFlags select a release other than the host's.
func platformFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "os",
			Usage: "Target OS: linux, macos or windows",
		},
		&cli.StringFlag{
			Name:  "arch",
			Usage: "Target architecture: x86, x86_64, aarch64, powerpc64 or s390x",
		},
	}
}

// mirrorFlags point the install at hosts other than GitHub.
func mirrorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "api-url",
			Usage: "Base URL of the GitHub API",
			Value: install.DefaultAPIBaseURL,
		},
		&cli.StringFlag{
			Name:  "download-url",
			Usage: "Base URL release assets are downloaded from",
			Value: install.DefaultDownloadBaseURL,
		},
	}
}

type installResult struct {
	Version string `json:"version"`
	Bin     string `json:"bin"`
	Include string `json:"include"`
}

type pathsResult struct {
	installResult
	Installed bool `json:"installed"`
}

type assetResult struct {
	Version string `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	Asset   string `json:"asset"`
	URL     string `json:"url"`
}

type platformResult struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
	KernelArch string `json:"kernel_arch,omitempty"`
	Distro     string `json:"distro,omitempty"`
	Family     string `json:"family,omitempty"`
	Release    string `json:"release,omitempty"`
	Asset      string `json:"asset_example,omitempty"`
}

func (a *app) installCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Install a protoc release and print its paths",
		ArgsUsage: "[version]",
		Flags:     append(platformFlags(), mirrorFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(a.stderr, cmd.Bool("verbose"))

			cfg, pinned, err := a.loadConfig(ctx, cmd, logger)
			if err != nil {
				return err
			}
			version, err := versionArg(cmd, pinned)
			if err != nil {
				return err
			}

			opts := []prebuilt.Option{
				prebuilt.WithLogger(logger),
				prebuilt.WithBaseURLs(cmd.String("api-url"), cmd.String("download-url")),
			}
			if cmd.String("os") != "" || cmd.String("arch") != "" {
				info, err := a.detect(ctx, cmd)
				if err != nil {
					return err
				}
				opts = append(opts, prebuilt.WithPlatform(info.OS, info.Arch))
			}
			if !cmd.Bool("no-progress") && !cmd.Bool("json") {
				opts = append(opts, prebuilt.WithProgress(progressTo(a.stderr)))
			}
			if a.runner != nil {
				opts = append(opts, prebuilt.WithRunner(a.runner))
			}

			bin, include, err := prebuilt.InitWithConfig(ctx, cfg, version, opts...)
			if err != nil {
				return err
			}

			res := installResult{Version: version, Bin: bin, Include: include}
			if cmd.Bool("json") {
				return a.printJSON(res)
			}
			fmt.Fprintf(a.stdout, "bin: %s\ninclude: %s\n", res.Bin, res.Include)
			return nil
		},
	}
}

func (a *app) assetCommand() *cli.Command {
	return &cli.Command{
		Name:      "asset",
		Usage:     "Print the release asset name and download URL",
		ArgsUsage: "[version]",
		Flags:     append(platformFlags(), mirrorFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(a.stderr, cmd.Bool("verbose"))

			_, pinned, err := a.loadConfig(ctx, cmd, logger)
			if err != nil {
				return err
			}
			version, err := versionArg(cmd, pinned)
			if err != nil {
				return err
			}

			info, err := a.detect(ctx, cmd)
			if err != nil {
				return err
			}

			asset, err := protoc.AssetName(version, info.OS, info.Arch)
			if err != nil {
				return err
			}

			res := assetResult{
				Version: version,
				OS:      info.OS,
				Arch:    info.Arch,
				Asset:   asset,
				URL: fmt.Sprintf("%s/%s/releases/download/v%s/%s.zip",
					cmd.String("download-url"), install.Repository, version, asset),
			}
			if cmd.Bool("json") {
				return a.printJSON(res)
			}
			fmt.Fprintln(a.stdout, res.Asset)
			fmt.Fprintln(a.stdout, res.URL)
			return nil
		},
	}
}

func (a *app) pathsCommand() *cli.Command {
	return &cli.Command{
		Name:      "paths",
		Usage:     "Print the binary and include paths of an install without downloading",
		ArgsUsage: "[version]",
		Flags: append(platformFlags(),
			&cli.StringFlag{
				Name:      "dir",
				Usage:     "Install directory (default: <out-dir>/<asset>)",
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Fail unless the release is already installed",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(a.stderr, cmd.Bool("verbose"))

			cfg, pinned, err := a.loadConfig(ctx, cmd, logger)
			if err != nil {
				return err
			}
			version, err := versionArg(cmd, pinned)
			if err != nil {
				return err
			}

			info, err := a.detect(ctx, cmd)
			if err != nil {
				return err
			}

			dir, installed, err := installState(cfg, info, version, cmd.String("dir"))
			if err != nil {
				return err
			}
			if cmd.Bool("check") && !installed {
				return fmt.Errorf("protoc %s is not installed in %s", version, dir)
			}

			bin := protoc.BinPath(version, dir, info.OS)
			res := pathsResult{
				installResult: installResult{Version: version, Bin: bin, Include: protoc.IncludePath(version, bin)},
				Installed:     installed,
			}
			if cmd.Bool("json") {
				return a.printJSON(res)
			}
			fmt.Fprintf(a.stdout, "bin: %s\ninclude: %s\ninstalled: %t\n", res.Bin, res.Include, res.Installed)
			return nil
		},
	}
}

// installState returns the install directory for version and whether it
// exists. An explicit dir is used as is; otherwise the manager derives it
// from the output root.
func installState(cfg *config.Config, info *platform.Info, version, dir string) (string, bool, error) {
	if dir != "" {
		_, err := os.Stat(dir)
		switch {
		case err == nil:
			return dir, true, nil
		case errors.Is(err, os.ErrNotExist):
			return dir, false, nil
		default:
			return "", false, protoc.ErrIO.Wrap(err)
		}
	}

	// no request is made; the client only satisfies the manager
	client, err := transport.New(transport.Options{UserAgent: prebuilt.UserAgent})
	if err != nil {
		return "", false, err
	}
	m, err := install.NewManager(install.Config{
		OutDir:  cfg.OutDir,
		OS:      info.OS,
		Arch:    info.Arch,
		Fetcher: client,
	})
	if err != nil {
		return "", false, err
	}

	dir, err = m.InstallDir(version)
	if err != nil {
		return "", false, err
	}
	installed, err := m.IsInstalled(version)
	if err != nil {
		return "", false, err
	}
	return dir, installed, nil
}

func (a *app) platformCommand() *cli.Command {
	return &cli.Command{
		Name:  "platform",
		Usage: "Print the detected platform",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info, err := a.hostDetector().Detect(ctx)
			if err != nil {
				return err
			}

			res := platformResult{
				OS:         info.OS,
				Arch:       info.Arch,
				GOOS:       info.GOOS,
				GOARCH:     info.GOARCH,
				KernelArch: info.KernelArch,
			}
			if d := info.GetDistro(); d != nil {
				res.Distro, res.Family, res.Release = d.ID, d.Family, d.Version
			}
			if asset, err := protoc.AssetName("22.0", info.OS, info.Arch); err == nil {
				res.Asset = asset
			}

			if cmd.Bool("json") {
				return a.printJSON(res)
			}
			fmt.Fprintf(a.stdout, "os: %s\narch: %s\n", res.OS, res.Arch)
			if res.Distro != "" {
				fmt.Fprintf(a.stdout, "distro: %s %s (%s)\n", res.Distro, res.Release, res.Family)
			}
			if res.Asset == "" {
				fmt.Fprintln(a.stdout, "supported: no")
			} else {
				fmt.Fprintf(a.stdout, "supported: yes (e.g. %s)\n", res.Asset)
			}
			return nil
		},
	}
}

// loadConfig reads the environment, the --out-dir flag and the optional pin
// file. The pin file's version is returned separately.
func (a *app) loadConfig(ctx context.Context, cmd *cli.Command, logger config.Logger) (*config.Config, string, error) {
	cfg := config.FromEnv(a.lookup)
	if dir := cmd.String("out-dir"); dir != "" {
		cfg.OutDir = dir
	}

	path := cmd.String("config")
	if path == "" {
		return cfg, "", nil
	}

	d, err := a.detector(ctx, cmd)
	if err != nil {
		return nil, "", err
	}
	pins, err := config.NewParser(d).WithLogger(logger).ParseFile(ctx, path)
	if err != nil {
		return nil, "", errors.New(config.FormatError(err, cmd.Bool("verbose")))
	}
	logger.Debug("loaded pin file", "path", path, "version", pins.Version)

	return pins.Apply(cfg), pins.Version, nil
}

// versionArg returns the version argument, falling back to the pinned one.
func versionArg(cmd *cli.Command, pinned string) (string, error) {
	if v := cmd.Args().First(); v != "" {
		return v, nil
	}
	if pinned != "" {
		return pinned, nil
	}
	return "", fmt.Errorf("a version argument or a pin file with protoc.version is required")
}

// detector honors --os and --arch, and probes the host otherwise. When only
// one of them is given, the other comes from the host.
func (a *app) detector(ctx context.Context, cmd *cli.Command) (platform.Detector, error) {
	goos, arch := cmd.String("os"), cmd.String("arch")
	if goos == "" && arch == "" {
		return a.hostDetector(), nil
	}
	if goos != "" && arch != "" {
		return platform.StaticDetector{OS: goos, Arch: arch}, nil
	}

	info, err := a.hostDetector().Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect host platform: %w", err)
	}
	if goos == "" {
		goos = info.OS
	}
	if arch == "" {
		arch = info.Arch
	}
	return platform.StaticDetector{OS: goos, Arch: arch}, nil
}

func (a *app) hostDetector() platform.Detector {
	if a.host != nil {
		return a.host
	}
	return platform.NewDetector()
}

// detect runs the detector selected by --os and --arch.
func (a *app) detect(ctx context.Context, cmd *cli.Command) (*platform.Info, error) {
	d, err := a.detector(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return d.Detect(ctx)
}

func (a *app) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.stdout, string(data))
	return err
}
