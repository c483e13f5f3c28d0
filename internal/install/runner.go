package install

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"
)

// Runner runs a program and returns its standard output.
type Runner interface {
	Run(ctx context.Context, path string, args ...string) ([]byte, error)
}

// ExecRunner is a Runner backed by os/exec.
type ExecRunner struct{}

// Run runs path with args. A non-zero exit status is an ErrIO error that
// includes the program's stderr.
func (ExecRunner) Run(ctx context.Context, path string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, protoc.ErrIO.Wrap(fmt.Errorf("test run protoc fail: %w: %s", err, msg))
		}
		return nil, protoc.ErrIO.Wrap(fmt.Errorf("test run protoc fail: %w", err))
	}

	return stdout.Bytes(), nil
}
