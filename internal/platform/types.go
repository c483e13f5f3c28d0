// Package platform detects the host operating system and architecture and
// normalizes them to the names used by the protoc release tables.
//
// OS and architecture come from the Go runtime. gopsutil supplies the kernel
// architecture and Linux distribution details, with graceful fallback when
// that detection fails. The result can be injected into a Lua state as a
// read-only table for pin files.
package platform

import (
	"context"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS         string // "linux", "macos", "windows", or the raw GOOS when unknown
	Arch       string // "x86", "x86_64", "aarch64", "powerpc64", "s390x", or the raw GOARCH
	GOOS       string // runtime.GOOS
	GOARCH     string // runtime.GOARCH
	KernelArch string // kernel architecture from gopsutil (e.g. "x86_64", "arm64"), may be empty
	Platform   string // distro ID (Linux only, e.g., "ubuntu")
	Family     string // canonical family (e.g., "debian")
	Version    string // distro version (Linux only, e.g., "22.04")
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if !i.IsLinux() || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == protoc.OSLinux
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == protoc.OSMacOS
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == protoc.OSWindows
}

// IsX86_64 returns true if the architecture is 64-bit x86.
func (i *Info) IsX86_64() bool {
	return i.Arch == protoc.ArchX86_64
}

// IsAArch64 returns true if the architecture is 64-bit ARM.
func (i *Info) IsAArch64() bool {
	return i.Arch == protoc.ArchAArch64
}

// IsAppleSilicon returns true if running on Apple Silicon (macOS + aarch64).
func (i *Info) IsAppleSilicon() bool {
	return i.IsMacOS() && i.IsAArch64()
}

// IsTranslated returns true when the process architecture differs from the
// kernel architecture, as with an x86_64 build running under Rosetta 2.
func (i *Info) IsTranslated() bool {
	if i.KernelArch == "" {
		return false
	}
	return normalizeArch(i.KernelArch) != i.Arch
}

// AssetName returns the protoc release asset name for version on this platform.
func (i *Info) AssetName(version string) (string, error) {
	return protoc.AssetName(version, i.OS, i.Arch)
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
