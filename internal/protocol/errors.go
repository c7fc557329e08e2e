package protocol

import (
	"errors"
	"net"

	"github.com/danmuck/stsctl/internal/datum"
)

var (
	ErrMalformedHeader    = errors.New("protocol: malformed header")
	ErrLengthMismatch     = errors.New("protocol: length mismatch")
	ErrUnsupportedFormat  = errors.New("protocol: unsupported format")
	ErrPeerClosed         = errors.New("protocol: peer closed connection")
	ErrUnexpectedResponse = errors.New("protocol: unexpected response")
	ErrReservedID         = errors.New("protocol: id -1 is reserved as the end-of-request sentinel")
)

// ErrorKind groups errors the way callers handle them.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindCodec      ErrorKind = "codec"
	KindTransport  ErrorKind = "transport"
	KindProtocol   ErrorKind = "protocol"
	KindUnknown    ErrorKind = "unknown"
)

// Kind classifies err for logs, metrics labels and HTTP status mapping.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	switch {
	case errors.Is(err, datum.ErrInvalidFormat),
		errors.Is(err, datum.ErrValueMismatch),
		errors.Is(err, datum.ErrMissingID),
		errors.Is(err, datum.ErrTimestampRange),
		errors.Is(err, datum.ErrTextEncoding),
		errors.Is(err, ErrReservedID):
		return KindValidation
	case errors.Is(err, ErrMalformedHeader),
		errors.Is(err, ErrLengthMismatch),
		errors.Is(err, ErrUnsupportedFormat):
		return KindCodec
	case errors.Is(err, ErrUnexpectedResponse):
		return KindProtocol
	case errors.Is(err, ErrPeerClosed), errors.Is(err, net.ErrClosed):
		return KindTransport
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransport
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindTransport
	}
	return KindUnknown
}
