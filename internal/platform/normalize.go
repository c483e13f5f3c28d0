package platform

import (
	"strings"

	"github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"
)

// familyMap maps distribution names to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// osMap maps GOOS values to protoc OS names.
var osMap = map[string]string{
	"linux":   protoc.OSLinux,
	"darwin":  protoc.OSMacOS,
	"windows": protoc.OSWindows,
}

// archMap maps GOARCH values, and the uname spellings gopsutil reports, to
// protoc architecture names. Big-endian ppc64 has no published build.
var archMap = map[string]string{
	"386":     protoc.ArchX86,
	"i386":    protoc.ArchX86,
	"i686":    protoc.ArchX86,
	"amd64":   protoc.ArchX86_64,
	"x86_64":  protoc.ArchX86_64,
	"arm64":   protoc.ArchAArch64,
	"aarch64": protoc.ArchAArch64,
	"ppc64le": protoc.ArchPowerPC64,
	"s390x":   protoc.ArchS390X,
}

// normalizeOS converts a GOOS value to the protoc OS name. Unknown values are
// returned unchanged so the asset resolver can report them.
func normalizeOS(goos string) string {
	if name, ok := osMap[goos]; ok {
		return name
	}
	return goos
}

// normalizeArch converts a GOARCH value to the protoc architecture name.
// Unknown values are returned unchanged.
func normalizeArch(arch string) string {
	if name, ok := archMap[strings.ToLower(strings.TrimSpace(arch))]; ok {
		return name
	}
	return arch
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}

	return FamilyUnknown
}
