package protoc

import "strings"

// selfReportPrefix precedes the version in "protoc --version" output.
const selfReportPrefix = "libprotoc "

type versionPair struct {
	required string
	reported string
}

// selfReportDefects lists releases whose binaries report a wrong version.
// 21.0-rc1 and 21.0-rc2 print nothing at all.
var selfReportDefects = map[versionPair]bool{
	{"3.0.2", "3.0.0"}:           true,
	{"3.10.0-rc1", "30.10.0"}:    true,
	{"3.12.2", "3.12.1"}:         true,
	{"3.19.0-rc2", "3.19.0-rc1"}: true,
	{"21.0-rc1", ""}:             true,
	{"21.0-rc2", ""}:             true,
}

// nonStandardRC maps release candidates with irregular tag names to the base
// version their binaries report.
var nonStandardRC = map[string]string{
	"3.2.0rc2":   "3.2.0",
	"3.7.0rc1":   "3.7.0",
	"3.7.0rc2":   "3.7.0",
	"3.7.0-rc.3": "3.7.0",
}

// legacyRCPrefixes are the version lines whose "-rcN" builds report the base
// version. From 3.14.0-rc1 on the rc suffix is reported.
var legacyRCPrefixes = []string{"3.8.", "3.9.", "3.10.", "3.11.", "3.12.", "3.13."}

// legacyRCMarker is the marker stripped for legacyRCPrefixes versions.
const legacyRCMarker = "-rc"

// prefixedLine is the release line whose binaries report a "3." prefix
// ("21.12" reports "3.21.12").
const prefixedLine = "21."

// preReleaseBase maps 3.0.0 alpha and beta builds to the version they report.
var preReleaseBase = map[string]string{
	"3.0.0-alpha-1": "3.0.0",
	"3.0.0-alpha-2": "3.0.0",
	"3.0.0-alpha-3": "3.0.0",
	"3.0.0-beta-1":  "3.0.0",
	"3.0.0-beta-2":  "3.0.0",
	"3.0.0-beta-3":  "3.0.0",
	"3.0.0-beta-4":  "3.0.0",
}

// ParseSelfReport extracts the version from "protoc --version" output, for
// example "libprotoc 3.21.12\n" -> "3.21.12".
func ParseSelfReport(stdout string) string {
	return strings.ReplaceAll(strings.TrimSpace(stdout), selfReportPrefix, "")
}

// CompareVersions reports whether the version a binary reported about itself
// matches the requested release version. Rules are applied in order and the
// first one that applies decides.
func CompareVersions(required, reported string) bool {
	if selfReportDefects[versionPair{required, reported}] {
		return true
	}

	if base, ok := nonStandardRC[required]; ok && base == reported {
		return true
	}

	if strings.Contains(required, legacyRCMarker) && hasAnyPrefix(required, legacyRCPrefixes) {
		base, _, _ := strings.Cut(required, legacyRCMarker)
		return base == reported
	}

	if strings.HasPrefix(required, prefixedLine) {
		return "3."+required == reported
	}

	if base, ok := preReleaseBase[required]; ok && base == reported {
		return true
	}

	return required == reported
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
