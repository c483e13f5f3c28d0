package protoc

import "path/filepath"

// Asset layout eras:
//   - the binary lives in bin/ and headers in include/;
//   - before 3.0.0-beta-4 (inclusive) the binary sits in the asset root;
//   - from 3.0.0-alpha-3 to 3.0.0-beta-3 the include content sits in the root;
//   - before 3.0.0-alpha-3 no include content is shipped at all, callers must
//     tolerate a missing include directory.
var binaryInRoot = map[string]bool{
	"2.4.1":         true,
	"2.5.0":         true,
	"2.6.0":         true,
	"2.6.1":         true,
	"3.0.0-alpha-1": true,
	"3.0.0-alpha-2": true,
	"3.0.0-alpha-3": true,
	"3.0.0-beta-1":  true,
	"3.0.0-beta-2":  true,
	"3.0.0-beta-3":  true,
	"3.0.0-beta-4":  true,
}

const (
	binaryName = "protoc"
	binDir     = "bin"
	includeDir = "include"
)

// BinaryFileName returns the protoc file name for os.
func BinaryFileName(os string) string {
	if os == OSWindows {
		return binaryName + ".exe"
	}
	return binaryName
}

// BinPath returns the protoc binary path inside installDir for version.
func BinPath(version, installDir, os string) string {
	if binaryInRoot[version] {
		return filepath.Join(installDir, BinaryFileName(os))
	}
	return filepath.Join(installDir, binDir, BinaryFileName(os))
}

// IncludePath returns the include directory matching a binary path returned
// by BinPath. A forced binary path is accepted too, in which case the include
// directory is assumed to sit next to it.
func IncludePath(version, binPath string) string {
	dir := filepath.Dir(binPath)
	if binaryInRoot[version] {
		return dir
	}
	return filepath.Join(filepath.Dir(dir), includeDir)
}
