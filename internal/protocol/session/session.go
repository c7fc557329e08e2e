package session

import (
	"context"
	"net"
	"time"

	"github.com/danmuck/stsctl/internal/datum"
	"github.com/danmuck/stsctl/internal/protocol"
	"github.com/danmuck/stsctl/internal/protocol/frame"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

// session is one connection's lifetime. It is not safe for concurrent use.
type session struct {
	op       string
	conn     net.Conn
	r        *frame.Reader
	timeout  time.Duration
	log      zerolog.Logger
	recorder Recorder
	started  time.Time
	frames   int
}

func (c *Client) open(ctx context.Context, op string) (*session, error) {
	started := time.Now()
	logger := c.logger.With().
		Str("session", ksuid.New().String()).
		Str("op", op).
		Str("addr", c.cfg.Addr()).
		Logger()

	conn, err := c.dialer.DialContext(ctx, "tcp", c.cfg.Addr())
	if err != nil {
		logger.Error().Err(err).Str("kind", string(protocol.Kind(err))).Msg("connect failed")
		c.recorder.ObserveSession(op, string(protocol.Kind(err)), time.Since(started))
		return nil, err
	}
	logger.Debug().Msg("connected")
	return &session{
		op:       op,
		conn:     conn,
		r:        frame.NewReader(conn),
		timeout:  c.cfg.Timeout,
		log:      logger,
		recorder: c.recorder,
		started:  started,
	}, nil
}

// finish closes the connection exactly once. A close error only surfaces
// when the batch itself succeeded.
func (s *session) finish(err error) error {
	closeErr := s.conn.Close()
	if err == nil {
		err = closeErr
	} else if closeErr != nil {
		s.log.Debug().Err(closeErr).Msg("close after failure")
	}

	elapsed := time.Since(s.started)
	result := "ok"
	if err != nil {
		kind := protocol.Kind(err)
		result = string(kind)
		s.log.Error().Err(err).Str("kind", result).Int("frames", s.frames).Dur("duration", elapsed).Msg("batch failed")
	} else {
		s.log.Info().Int("frames", s.frames).Dur("duration", elapsed).Msg("batch complete")
	}
	s.recorder.ObserveSession(s.op, result, elapsed)
	return err
}

func (s *session) send(payload []byte) error {
	if s.timeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
			return err
		}
	}
	_, err := s.conn.Write(payload)
	return err
}

func (s *session) readLine() (string, error) {
	if s.timeout > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
			return "", err
		}
	}
	return s.r.ReadLine()
}

// command sends one handshake line and requires a success reply.
func (s *session) command(cmd string) error {
	if err := s.send([]byte(cmd)); err != nil {
		return err
	}
	line, err := s.readLine()
	if err != nil {
		return err
	}
	if err := CheckResponse(cmd, line); err != nil {
		return err
	}
	s.log.Debug().Str("reply", line).Msg(commandName(cmd))
	return nil
}

func (s *session) writeDatum(d datum.Datum) error {
	b, info, err := frame.EncodeWithInfo(d)
	if err != nil {
		return err
	}
	if info.Truncated {
		s.log.Warn().Int32("id", d.ID).Stringer("format", d.Format).Int("dropped", info.Dropped).Msg("text truncated")
		s.recorder.ObserveTruncation(d.Format, info.Dropped)
	}
	if err := s.send(b); err != nil {
		return err
	}
	s.frames++
	s.recorder.ObserveFrame("out", d.Format, len(b))
	s.log.Debug().Int32("id", d.ID).Stringer("format", d.Format).Int("bytes", len(b)).Msg("frame sent")
	return nil
}

func (s *session) request(id int32) (datum.Datum, error) {
	if err := s.send(EncodeRequest(id)); err != nil {
		return datum.Datum{}, err
	}
	if s.timeout > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
			return datum.Datum{}, err
		}
	}
	raw, err := s.r.ReadFrame()
	if err != nil {
		return datum.Datum{}, err
	}
	d, err := frame.Decode(raw)
	if err != nil {
		return datum.Datum{}, err
	}
	s.frames++
	s.recorder.ObserveFrame("in", d.Format, len(raw))
	if d.ID != id {
		s.log.Warn().Int32("requested", id).Int32("received", d.ID).Msg("reply id differs from request")
	}
	s.log.Debug().Int32("id", d.ID).Stringer("format", d.Format).Int("bytes", len(raw)).Msg("frame received")
	return d, nil
}
