// Package prebuilt installs the pre-built protobuf compiler published on the
// protocolbuffers/protobuf GitHub releases and returns the paths to the
// protoc binary and its include directory.
//
// Typical use from a code generator:
//
//	bin, include, err := prebuilt.Init(ctx, "22.0")
//	if err != nil {
//		return err
//	}
//	cmd := exec.Command(bin, "-I", include, "--go_out=.", "api.proto")
//
// The version is a release tag without the "v" prefix, for example "21.12"
// or "22.0-rc3". Releases are unpacked under $OUT_DIR, once per asset; later
// calls make no network requests.
//
// Environment:
//
//	OUT_DIR                                output root, required unless a binary is forced
//	PROTOC_PREBUILT_FORCE_PROTOC_PATH      use this protoc binary instead of installing
//	PROTOC_PREBUILT_FORCE_INCLUDE_PATH     use this include directory
//	PROTOC_PREBUILT_NOT_CHECK_VERSION      skip comparing the requested and reported versions
//	PROTOC_PREBUILT_NOT_USE_PROXY          ignore http_proxy/https_proxy
//	PROTOC_PREBUILT_NOT_ADD_GITHUB_TOKEN   never send a GitHub token
//	PROTOC_PREBUILT_GITHUB_TOKEN_ENV_NAME  variable holding the token (default GITHUB_TOKEN)
//
// Boolean variables are false when unset or set to "", "0", "no", "off" or
// "false", and true otherwise.
//
// Errors belong to the classes declared in errors.go. Use Class.Has to
// classify an error and errors.As to reach *RemoteError or *MismatchError.
package prebuilt
