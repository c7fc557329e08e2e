package session

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/danmuck/stsctl/internal/protocol"
)

// Handshake lines sent by the client.
const (
	CmdWrite = "W\n"
	CmdRead  = "R\n"
	CmdExit  = "\n"
	CmdQuit  = "Q\n"
)

// SuccessPrefix starts every accepting server reply, e.g. "OK: Write On".
const SuccessPrefix = "OK"

// EndOfRequest terminates the id list of a read batch.
const EndOfRequest int32 = -1

// CheckResponse accepts a server line that carries the success marker.
func CheckResponse(cmd, line string) error {
	if !strings.HasPrefix(line, SuccessPrefix) {
		return fmt.Errorf("%w: %q after %s", protocol.ErrUnexpectedResponse, line, commandName(cmd))
	}
	return nil
}

// EncodeRequest renders one read request: a raw big-endian int32 with no
// length byte.
func EncodeRequest(id int32) []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(id))
}

func commandName(cmd string) string {
	switch cmd {
	case CmdWrite:
		return "write"
	case CmdRead:
		return "read"
	case CmdExit:
		return "exit"
	case CmdQuit:
		return "quit"
	default:
		return fmt.Sprintf("%q", cmd)
	}
}
