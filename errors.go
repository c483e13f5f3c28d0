package prebuilt

import "github.com/ZebulonRouseFrantzich/protoc-prebuilt/internal/protoc"

// Re-export error classes from internal/protoc for public API consumers.
var (
	ErrPlatformUnsupported   = &protoc.ErrPlatformUnsupported
	ErrVersionNotFound       = &protoc.ErrVersionNotFound
	ErrPlatformBuildNotFound = &protoc.ErrPlatformBuildNotFound
	ErrRemote                = &protoc.ErrRemote
	ErrVersionMismatch       = &protoc.ErrVersionMismatch
	ErrForcePath             = &protoc.ErrForcePath
	ErrEnvMissing            = &protoc.ErrEnvMissing
	ErrIO                    = &protoc.ErrIO
	ErrTransport             = &protoc.ErrTransport
	ErrArchive               = &protoc.ErrArchive
)

// Error payload types.
type (
	RemoteError   = protoc.RemoteError
	MismatchError = protoc.MismatchError
)
