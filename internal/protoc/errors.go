package protoc

import (
	"fmt"

	"github.com/zeebo/errs"
)

// Error classes. Each failure returned by this module belongs to exactly one
// class; use Class.Has to classify and errors.As to reach a payload.
var (
	// ErrPlatformUnsupported indicates no pre-built binary is published for the os/arch pair.
	ErrPlatformUnsupported = errs.Class("pre-built binaries not provided for platform")
	// ErrVersionNotFound indicates the requested release tag does not exist.
	ErrVersionNotFound = errs.Class("pre-built binaries version not exists")
	// ErrPlatformBuildNotFound indicates the release exists but has no asset for the platform.
	ErrPlatformBuildNotFound = errs.Class("pre-built binaries for platform not provided in version")
	// ErrRemote indicates the GitHub API answered with an unexpected status.
	ErrRemote = errs.Class("GitHub API response error")
	// ErrVersionMismatch indicates the installed binary reported a different version.
	ErrVersionMismatch = errs.Class("pre-built binaries version check error")
	// ErrForcePath indicates an override path from the environment is unusable.
	ErrForcePath = errs.Class("force defined paths error")
	// ErrEnvMissing indicates a required environment variable is not set.
	ErrEnvMissing = errs.Class("environment variable missing")
	// ErrIO indicates a local filesystem or process failure.
	ErrIO = errs.Class("i/o error")
	// ErrTransport indicates the HTTP request could not be performed.
	ErrTransport = errs.Class("transport error")
	// ErrArchive indicates the downloaded archive could not be unpacked.
	ErrArchive = errs.Class("archive error")
)

// classes lists every class, in the order ErrorClass checks them.
var classes = []*errs.Class{
	&ErrPlatformUnsupported,
	&ErrVersionNotFound,
	&ErrPlatformBuildNotFound,
	&ErrRemote,
	&ErrVersionMismatch,
	&ErrForcePath,
	&ErrEnvMissing,
	&ErrTransport,
	&ErrArchive,
	&ErrIO,
}

// ErrorClass returns the class err belongs to, or nil for an unclassified error.
func ErrorClass(err error) *errs.Class {
	for _, class := range classes {
		if class.Has(err) {
			return class
		}
	}
	return nil
}

// RemoteError carries the status and body of a failed GitHub response.
type RemoteError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%d %s (%s)", e.StatusCode, e.Body, e.URL)
}

// MismatchError carries the requested version and the one the binary reported.
type MismatchError struct {
	Required string
	Reported string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("require `%s`, returned `%s`", e.Required, e.Reported)
}
