package install

import (
	"os"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/config"
	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"
)

// ForceBin validates the forced protoc path. It returns "" when no path is
// forced. The path must exist and must not be a directory.
func ForceBin(cfg *config.Config) (string, error) {
	path := cfg.ForceProtocPath
	if path == "" {
		return "", nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", protoc.ErrForcePath.New("nothing exists by %s path %s", config.EnvForceProtocPath, path)
	}
	if info.IsDir() {
		return "", protoc.ErrForcePath.New("directory found by %s path %s", config.EnvForceProtocPath, path)
	}

	return path, nil
}

// ForceInclude validates the forced include path. It returns "" when no path
// is forced. The path must exist and must be a directory.
func ForceInclude(cfg *config.Config) (string, error) {
	path := cfg.ForceIncludePath
	if path == "" {
		return "", nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", protoc.ErrForcePath.New("nothing exists by %s path %s", config.EnvForceIncludePath, path)
	}
	if !info.IsDir() {
		return "", protoc.ErrForcePath.New("file found by %s path %s", config.EnvForceIncludePath, path)
	}

	return path, nil
}
