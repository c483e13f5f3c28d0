package protoc

import "fmt"

// Operating systems.
const (
	OSLinux   = "linux"
	OSMacOS   = "macos"
	OSWindows = "windows"
)

// Architectures.
const (
	ArchX86       = "x86"
	ArchX86_64    = "x86_64"
	ArchAArch64   = "aarch64"
	ArchPowerPC64 = "powerpc64"
	ArchS390X     = "s390x"
)

// versionPrefixLen is the length of the version prefix used by range overrides.
const versionPrefixLen = 4

type platformKey struct {
	os   string
	arch string
}

// archOverride replaces the default arch spelling for some versions. An exact
// version match wins over a prefix match.
type archOverride struct {
	versions map[string]string
	prefixes map[string]string
}

// assetOS maps an OS to its spelling inside asset names.
var assetOS = map[string]string{
	OSLinux:   "linux",
	OSMacOS:   "osx",
	OSWindows: "win",
}

// assetArch maps an (os, arch) pair to its default spelling inside asset names.
var assetArch = map[platformKey]string{
	{OSLinux, ArchAArch64}:   "aarch_64",
	{OSLinux, ArchPowerPC64}: "ppcle_64",
	{OSLinux, ArchS390X}:     "s390_64",
	{OSLinux, ArchX86}:       "x86_32",
	{OSLinux, ArchX86_64}:    "x86_64",

	{OSMacOS, ArchAArch64}: "aarch_64",
	{OSMacOS, ArchX86}:     "x86_32",
	{OSMacOS, ArchX86_64}:  "x86_64",

	{OSWindows, ArchX86}:    "32",
	{OSWindows, ArchX86_64}: "64",
}

// assetArchOverrides holds the era-dependent arch spellings.
//
// 3.0.0-beta-4 used a hyphen in its 32-bit linux asset. Linux s390x was named
// "s390x_64" from 3.10.0-rc1 up to 3.12.0-rc1 and "s390x" from 3.12.0-rc1 up
// to 3.16.0-rc1.
var assetArchOverrides = map[platformKey]archOverride{
	{OSLinux, ArchX86}: {
		versions: map[string]string{
			"3.0.0-beta-4": "x86-32",
		},
	},
	{OSLinux, ArchS390X}: {
		prefixes: map[string]string{
			"3.10": "s390x_64",
			"3.11": "s390x_64",
			"3.12": "s390x",
			"3.13": "s390x",
			"3.14": "s390x",
			"3.15": "s390x",
		},
	},
}

// osArchSeparator is the separator between the os and arch parts, keyed by os.
// Windows assets have none ("win64").
var osArchSeparator = map[string]string{
	OSLinux:   "-",
	OSMacOS:   "-",
	OSWindows: "",
}

// AssetName returns the release asset base name (without ".zip") for the
// given version and platform, for example "protoc-22.0-linux-x86_32".
//
// An unmapped platform is always an ErrPlatformUnsupported error, never a
// best-guess name.
func AssetName(version, os, arch string) (string, error) {
	osName, ok := assetOS[os]
	if !ok {
		return "", ErrPlatformUnsupported.New("`%s-%s`", os, arch)
	}

	archName, err := assetArchName(version, os, arch)
	if err != nil {
		return "", err
	}

	sep := osArchSeparator[os]
	return fmt.Sprintf("protoc-%s-%s%s%s", AssetVersion(version), osName, sep, archName), nil
}

func assetArchName(version, os, arch string) (string, error) {
	key := platformKey{os: os, arch: arch}

	name, ok := assetArch[key]
	if !ok {
		return "", ErrPlatformUnsupported.New("`%s-%s`", os, arch)
	}

	override, ok := assetArchOverrides[key]
	if !ok {
		return name, nil
	}
	if v, ok := override.versions[version]; ok {
		return v, nil
	}
	if len(version) >= versionPrefixLen {
		if v, ok := override.prefixes[version[:versionPrefixLen]]; ok {
			return v, nil
		}
	}

	return name, nil
}
