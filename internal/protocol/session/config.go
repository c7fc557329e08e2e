package session

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultHost    = "sts"
	DefaultPort    = 9001
	DefaultTimeout = 5 * time.Second
)

var ErrInvalidConfig = errors.New("session: invalid config")

// Config defines where and how long to talk to the STS server.
type Config struct {
	Host string
	Port int
	// Timeout bounds the dial and each individual read or write. Zero disables it.
	Timeout time.Duration
	// QuitAfterRead sends "Q\n" after the end-of-request sentinel.
	QuitAfterRead bool
}

func DefaultConfig() Config {
	return Config{
		Host:    DefaultHost,
		Port:    DefaultPort,
		Timeout: DefaultTimeout,
	}
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidConfig)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, c.Timeout)
	}
	return nil
}
