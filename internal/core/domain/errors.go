// Package domain defines the error taxonomy shared by the web pipeline.
package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
)

// Kind classifies a failure by where it happened in the connection pipeline.
type Kind int

const (
	// KindUnknown is an error that does not belong to any known class.
	KindUnknown Kind = iota
	// KindTransport covers accept, handshake, read and write failures.
	KindTransport
	// KindProtocol covers malformed request lines and headers.
	KindProtocol
	// KindResource covers paths outside the web root and missing files.
	KindResource
	// KindMethod covers methods the server does not serve content for.
	KindMethod
	// KindStartup covers failures that abort the process before listening.
	KindStartup
)

// String returns the lower-case name of the kind, used as a log/metric label.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	case KindResource:
		return "resource"
	case KindMethod:
		return "method"
	case KindStartup:
		return "startup"
	default:
		return "unknown"
	}
}

// Error is a classified pipeline error with a stable code.
// Codes follow the format SW-<AREA>-<NNNN>.
type Error struct {
	Kind    Kind
	Code    string // e.g. "SW-PROT-4000"
	Message string
	Details string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new Error.
func NewError(kind Kind, code, message string) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *Error) WithDetails(details string) *Error {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	c := *e
	c.Cause = cause
	return &c
}

// Transport errors (TRAN).
var (
	// ErrHandshakeFailed indicates the TLS handshake did not complete.
	ErrHandshakeFailed = NewError(KindTransport, "SW-TRAN-5000", "tls handshake failed")

	// ErrReadFailed indicates the request could not be read from the connection.
	ErrReadFailed = NewError(KindTransport, "SW-TRAN-5001", "read failed")

	// ErrWriteFailed indicates the response could not be written.
	ErrWriteFailed = NewError(KindTransport, "SW-TRAN-5002", "write failed")

	// ErrRateLimited indicates the peer exceeded its connection rate.
	ErrRateLimited = NewError(KindTransport, "SW-TRAN-4290", "connection rate exceeded")
)

// Protocol errors (PROT).
var (
	// ErrEmptyRequest indicates the client connected and sent nothing.
	// It is not reported to the client.
	ErrEmptyRequest = NewError(KindProtocol, "SW-PROT-2040", "empty request")

	// ErrMalformedRequestLine indicates the request line is not "METHOD TARGET HTTP/x".
	ErrMalformedRequestLine = NewError(KindProtocol, "SW-PROT-4000", "malformed request line")

	// ErrInvalidContentLength indicates Content-Length is not a non-negative integer.
	ErrInvalidContentLength = NewError(KindProtocol, "SW-PROT-4001", "invalid content-length")

	// ErrLineTooLong indicates a request or header line exceeded the limit.
	ErrLineTooLong = NewError(KindProtocol, "SW-PROT-4310", "line too long")

	// ErrTooManyHeaders indicates the header block exceeded the line count limit.
	ErrTooManyHeaders = NewError(KindProtocol, "SW-PROT-4311", "too many header lines")
)

// Resource errors (RSRC).
var (
	// ErrResourceNotFound covers both missing files and paths outside the root.
	ErrResourceNotFound = NewError(KindResource, "SW-RSRC-4040", "resource not found")
)

// Method errors (METH).
var (
	// ErrUnsupportedMethod indicates a method other than GET.
	ErrUnsupportedMethod = NewError(KindMethod, "SW-METH-4180", "unsupported method")
)

// Startup errors (STRT).
var (
	// ErrCertificateMissing indicates the certificate or key file is absent.
	ErrCertificateMissing = NewError(KindStartup, "SW-STRT-5000", "certificate or key file not found")

	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = NewError(KindStartup, "SW-STRT-5001", "invalid configuration")
)

// KindOf classifies err. Classified *Error values report their own kind;
// network and I/O failures are transport errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if IsDisconnect(err) || IsTimeout(err) {
		return KindTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransport
	}
	return KindUnknown
}

// IsTimeout reports whether err is a deadline expiry.
func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsDisconnect reports whether err means the peer went away: EOF, reset,
// broken pipe or a closed connection. These are routine on a public port
// and are logged at debug level only.
func IsDisconnect(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
