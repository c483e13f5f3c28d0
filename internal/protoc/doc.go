// Package protoc holds the pure naming and layout rules for the pre-built
// protobuf compiler releases published on GitHub.
//
// Nothing in this package performs I/O. Every historical irregularity of the
// upstream release assets is kept in an explicit lookup table so it can be
// tested entry by entry:
//
//   - AssetVersion maps a release tag version to the version substring used
//     inside asset file names.
//   - AssetName maps (version, os, arch) to the asset base name.
//   - BinPath and IncludePath map a version and install directory to the
//     location of the protoc binary and its include directory.
//   - CompareVersions matches a requested version against the version the
//     binary reports about itself.
package protoc
