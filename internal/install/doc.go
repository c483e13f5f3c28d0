// Package install downloads and unpacks pre-built protoc releases.
//
// # Acquisition
//
// Manager.Install materializes the release asset for one version into
// <out_dir>/<asset name>. The install directory's existence is the only
// "already installed" marker, so a second call makes no network requests.
// Otherwise it:
//
//  1. confirms the release tag exists through the GitHub API,
//  2. downloads <asset name>.zip from the release,
//  3. writes it to <out_dir>/<asset name>.zip, replacing any stale file,
//  4. unpacks it into a temporary sibling directory and renames that onto
//     the install directory,
//  5. removes the archive.
//
// No step is retried. Installs of the same asset are serialized with a lock
// file next to the install directory, and the existence check is repeated
// once the lock is held.
//
// # Overrides
//
// ForceBin and ForceInclude validate the paths from
// PROTOC_PREBUILT_FORCE_PROTOC_PATH and PROTOC_PREBUILT_FORCE_INCLUDE_PATH.
//
// # Probe
//
// ExecRunner runs the installed binary with --version.
package install
