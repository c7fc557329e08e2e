package session

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/danmuck/stsctl/internal/datum"
	"github.com/danmuck/stsctl/internal/logging"
	"github.com/danmuck/stsctl/internal/protocol"
	"github.com/rs/zerolog"
)

const (
	OpTransmit = "transmit"
	OpReceive  = "receive"
)

// Dialer opens the TCP connection for one session. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Recorder receives per-session and per-frame observations.
type Recorder interface {
	ObserveSession(op, result string, duration time.Duration)
	ObserveFrame(direction string, format datum.Format, size int)
	ObserveTruncation(format datum.Format, dropped int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSession(string, string, time.Duration) {}

func (nopRecorder) ObserveFrame(string, datum.Format, int) {}

func (nopRecorder) ObserveTruncation(datum.Format, int) {}

// NopRecorder discards observations.
var NopRecorder Recorder = nopRecorder{}

// Client transmits and receives datum batches. It holds no connection state;
// each call opens, uses and closes exactly one connection.
type Client struct {
	cfg      Config
	dialer   Dialer
	logger   zerolog.Logger
	recorder Recorder
}

type Option func(*Client)

func WithDialer(d Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:      cfg,
		dialer:   &net.Dialer{Timeout: cfg.Timeout},
		logger:   logging.Component("session"),
		recorder: NopRecorder,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) String() string {
	return fmt.Sprintf("Client(host='%s', port=%d, timeout=%s)", c.cfg.Host, c.cfg.Port, c.cfg.Timeout)
}

// Transmit writes data to the server in order inside one write-mode
// handshake. An empty batch still enters and leaves write mode.
func (c *Client) Transmit(ctx context.Context, data []datum.Datum) (err error) {
	s, err := c.open(ctx, OpTransmit)
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	if err := s.command(CmdWrite); err != nil {
		return err
	}
	for i, d := range data {
		if err := s.writeDatum(d); err != nil {
			return fmt.Errorf("datum[%d]: %w", i, err)
		}
	}
	if err := s.command(CmdExit); err != nil {
		return err
	}
	return s.send([]byte(CmdQuit))
}

// Receive requests each id in order and returns the decoded replies in the
// same order. The id list is always closed with EndOfRequest, which is
// therefore refused as a requested id before any connection is made.
func (c *Client) Receive(ctx context.Context, ids []int32) (out []datum.Datum, err error) {
	for i, id := range ids {
		if id == EndOfRequest {
			return nil, fmt.Errorf("ids[%d]: %w", i, protocol.ErrReservedID)
		}
	}
	s, err := c.open(ctx, OpReceive)
	if err != nil {
		return nil, err
	}
	defer func() { err = s.finish(err) }()

	if err := s.command(CmdRead); err != nil {
		return nil, err
	}
	out = make([]datum.Datum, 0, len(ids))
	for _, id := range ids {
		d, err := s.request(id)
		if err != nil {
			return nil, fmt.Errorf("id %d: %w", id, err)
		}
		out = append(out, d)
	}
	if err := s.send(EncodeRequest(EndOfRequest)); err != nil {
		return nil, err
	}
	if c.cfg.QuitAfterRead {
		if err := s.send([]byte(CmdQuit)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
