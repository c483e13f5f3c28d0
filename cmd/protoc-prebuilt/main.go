// Command protoc-prebuilt installs pre-built protoc releases and prints the
// paths to the binary and its include directory.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	prebuilt "github.com/ZebulonRouseFrantzich/protoc-prebuilt"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/config"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/platform"
)

// app carries the process dependencies the commands use.
type app struct {
	stdout io.Writer
	stderr io.Writer
	lookup config.LookupFunc
	runner prebuilt.Runner
	host   platform.Detector
}

func main() {
	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		lookup: os.LookupEnv,
		host:   platform.NewDetector(),
	}

	if err := a.command().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      "protoc-prebuilt",
		Usage:     "Install pre-built protoc releases from GitHub",
		Version:   prebuilt.Version,
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log every install step",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
			&cli.StringFlag{
				Name:      "config",
				Aliases:   []string{"c"},
				Usage:     "Lua pin file setting the version and install options",
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:    "out-dir",
				Usage:   "Directory releases are unpacked into",
				Sources: cli.EnvVars(config.EnvOutDir),
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Do not draw a download progress bar",
			},
		},
		Commands: []*cli.Command{
			a.installCommand(),
			a.assetCommand(),
			a.pathsCommand(),
			a.platformCommand(),
		},
	}
}
