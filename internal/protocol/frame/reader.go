package frame

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/stsctl/internal/protocol"
)

// Reader pulls handshake lines and binary frames off one ordered stream.
// Lines and frames share a single buffer so neither consumes the other's bytes.
type Reader struct {
	br *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadExact returns exactly n bytes. With peek set the bytes stay in the
// stream for the next read. A zero-byte read or EOF before n bytes have
// arrived fails with protocol.ErrPeerClosed.
func (r *Reader) ReadExact(n int, peek bool) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("frame: negative read size %d", n)
	}
	if peek {
		b, err := r.br.Peek(n)
		if err != nil {
			return nil, peerClosed(err, len(b), n)
		}
		out := make([]byte, n)
		copy(out, b)
		return out, nil
	}

	buf := make([]byte, n)
	got := 0
	for got < n {
		m, err := r.br.Read(buf[got:])
		got += m
		if got == n {
			break
		}
		if err != nil {
			return nil, peerClosed(err, got, n)
		}
		if m == 0 {
			return nil, peerClosed(io.EOF, got, n)
		}
	}
	return buf, nil
}

// ReadFrame peeks the length byte, then reads the whole frame in one
// consuming call. The returned slice includes the header.
func (r *Reader) ReadFrame() ([]byte, error) {
	first, err := r.ReadExact(1, true)
	if err != nil {
		return nil, err
	}
	n, err := FrameLen(first[0])
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: declared length %d", protocol.ErrLengthMismatch, n)
	}
	return r.ReadExact(n, false)
}

// ReadLine returns one handshake line without its line terminator.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		return "", peerClosed(err, len(line), len(line)+1)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func peerClosed(err error, got, want int) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrNoProgress) {
		return fmt.Errorf("%w: read %d of %d bytes", protocol.ErrPeerClosed, got, want)
	}
	return err
}
