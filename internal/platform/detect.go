package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct {
	goos   string
	goarch string
	// hostInfo is replaceable in tests.
	hostInfo func(ctx context.Context) (*host.InfoStat, error)
}

// NewDetector creates a new platform detector for the running process.
func NewDetector() Detector {
	return &RealDetector{
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
		hostInfo: host.InfoWithContext,
	}
}

// Detect performs platform detection and returns platform information.
//
// OS and architecture are those of the running process, since the installed
// binary will be executed by it. If gopsutil fails, KernelArch and the distro
// fields are left empty and detection still succeeds; only a cancelled
// context is a hard failure.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:     normalizeOS(d.goos),
		Arch:   normalizeArch(d.goarch),
		GOOS:   d.goos,
		GOARCH: d.goarch,
	}

	if d.hostInfo == nil {
		return info, nil
	}

	stat, err := d.hostInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	info.KernelArch = stat.KernelArch

	if info.IsLinux() {
		platform := normalizePlatform(stat.Platform)
		if platform != "" {
			info.Platform = platform
			info.Family = mapFamily(stat.PlatformFamily)
			info.Version = normalizePlatform(stat.PlatformVersion)
		}
	}

	return info, nil
}

// StaticDetector returns a fixed platform, for explicit --os/--arch requests.
type StaticDetector struct {
	OS   string
	Arch string
}

// Detect returns the configured platform without probing the host.
func (d StaticDetector) Detect(context.Context) (*Info, error) {
	return &Info{OS: d.OS, Arch: d.Arch}, nil
}
