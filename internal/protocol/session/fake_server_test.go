package session

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danmuck/stsctl/internal/datum"
	"github.com/danmuck/stsctl/internal/protocol/frame"
	"github.com/stretchr/testify/require"
)

// stsScript drives one fake STS connection. Empty reply lines default to
// the success replies of the real server.
type stsScript struct {
	writeOn  string
	writeOff string
	readOn   string
	data     map[int32]datum.Datum
	// raw replies are written verbatim instead of an encoded datum.
	raw map[int32][]byte
	// dropAfter closes the connection on the nth id request (1-based).
	dropAfter int
	// silent never answers anything.
	silent bool
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// serveSTS plays the server side of one session and returns every byte the
// client sent, in order.
func serveSTS(conn net.Conn, script stsScript) []byte {
	var got bytes.Buffer
	br := bufio.NewReader(io.TeeReader(conn, &got))
	drain := func() []byte {
		_, _ = io.Copy(io.Discard, br)
		return got.Bytes()
	}
	reply := func(line string) bool {
		_, _ = conn.Write([]byte(line + "\n"))
		return strings.HasPrefix(line, SuccessPrefix)
	}

	if script.silent {
		return drain()
	}
	line, err := br.ReadString('\n')
	if err != nil {
		return got.Bytes()
	}
	switch line {
	case CmdWrite:
		if !reply(orDefault(script.writeOn, "OK: Write On")) {
			return drain()
		}
		for {
			head, err := br.Peek(1)
			if err != nil {
				return got.Bytes()
			}
			if head[0] == '\n' {
				_, _ = br.Discard(1)
				reply(orDefault(script.writeOff, "OK: Write Off"))
				return drain()
			}
			buf := make([]byte, head[0]&frame.LengthMask)
			if _, err := io.ReadFull(br, buf); err != nil {
				return got.Bytes()
			}
		}
	case CmdRead:
		if !reply(orDefault(script.readOn, "OK: Read On")) {
			return drain()
		}
		for n := 1; ; n++ {
			var req [4]byte
			if _, err := io.ReadFull(br, req[:]); err != nil {
				return got.Bytes()
			}
			id := int32(binary.BigEndian.Uint32(req[:]))
			if id == EndOfRequest {
				return drain()
			}
			if script.dropAfter > 0 && n == script.dropAfter {
				_ = conn.Close()
				return got.Bytes()
			}
			if b, ok := script.raw[id]; ok {
				_, _ = conn.Write(b)
				continue
			}
			d, ok := script.data[id]
			if !ok {
				d = datum.NewInteger(id, time.Unix(0, 0), 0)
			}
			b, err := frame.Encode(d)
			if err != nil {
				panic(err)
			}
			_, _ = conn.Write(b)
		}
	default:
		reply("ERROR: Unknown command")
		return drain()
	}
}

// startSTS serves exactly one connection on a loopback listener.
func startSTS(t *testing.T, script stsScript) (Config, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	out := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			close(out)
			return
		}
		defer conn.Close()
		out <- serveSTS(conn, script)
	}()

	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = ln.Addr().(*net.TCPAddr).Port
	cfg.Timeout = 2 * time.Second
	return cfg, out
}

func waitBytes(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case b := <-ch:
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("fake server did not finish")
		return nil
	}
}

type countingConn struct {
	net.Conn
	closes *atomic.Int32
}

func (c countingConn) Close() error {
	c.closes.Add(1)
	return c.Conn.Close()
}

// countingDialer wraps every dialed connection to count Close calls.
type countingDialer struct {
	inner  net.Dialer
	closes atomic.Int32
	dials  atomic.Int32
}

func (d *countingDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	d.dials.Add(1)
	conn, err := d.inner.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	return countingConn{Conn: conn, closes: &d.closes}, nil
}

type recorded struct {
	sessions    []string
	frames      []string
	truncations int
}

func (r *recorded) ObserveSession(op, result string, _ time.Duration) {
	r.sessions = append(r.sessions, op+":"+result)
}

func (r *recorded) ObserveFrame(direction string, format datum.Format, _ int) {
	r.frames = append(r.frames, direction+":"+format.String())
}

func (r *recorded) ObserveTruncation(datum.Format, int) {
	r.truncations++
}
