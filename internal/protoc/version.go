package protoc

import "strings"

// rcMarker is the release candidate marker inside a version string.
const rcMarker = "rc"

// assetVersionExceptions lists release candidates whose asset names do not
// follow the "<prefix>rc-<n>" rule at all.
var assetVersionExceptions = map[string]string{
	"3.7.0-rc.3": "3.7.0-rc-3",
	"3.7.0rc2":   "3.7.0-rc-2",
	"3.7.0rc1":   "3.7.0-rc1",
	"3.2.0rc2":   "3.2.0rc2",
}

// AssetVersion returns the version substring used inside asset file names.
//
// Release candidate tags look like "v22.0-rc3" while their assets are named
// "protoc-22.0-rc-3-*", so a hyphen is inserted after the marker.
func AssetVersion(version string) string {
	if !strings.Contains(version, rcMarker) {
		return version
	}

	if name, ok := assetVersionExceptions[version]; ok {
		return name
	}

	prefix, suffix, _ := strings.Cut(version, rcMarker)
	return prefix + rcMarker + "-" + suffix
}
