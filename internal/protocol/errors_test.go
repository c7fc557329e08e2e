package protocol

import (
	"errors"
	"fmt"
	"net"
	"os"
	"testing"

	"github.com/danmuck/stsctl/internal/datum"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{fmt.Errorf("batch[2]: %w", datum.ErrValueMismatch), KindValidation},
		{datum.ErrMissingID, KindValidation},
		{fmt.Errorf("ids[0]: %w", ErrReservedID), KindValidation},
		{fmt.Errorf("%w: tag 9", ErrUnsupportedFormat), KindCodec},
		{ErrLengthMismatch, KindCodec},
		{ErrMalformedHeader, KindCodec},
		{fmt.Errorf("%w: %q", ErrUnexpectedResponse, "ERROR: Invalid"), KindProtocol},
		{ErrPeerClosed, KindTransport},
		{&net.OpError{Op: "dial", Net: "tcp", Err: os.ErrDeadlineExceeded}, KindTransport},
		{os.ErrDeadlineExceeded, KindTransport},
		{errors.New("boom"), KindUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Kind(tc.err), "%v", tc.err)
	}
}
