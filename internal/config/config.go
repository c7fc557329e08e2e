package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danmuck/stsctl/internal/protocol/session"
	"github.com/pelletier/go-toml/v2"
)

// ClientConfig is the [client] table shared by stsctl and stsgw.
type ClientConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Timeout string `toml:"timeout"`
	// TimeoutMS overrides Timeout when present.
	TimeoutMS     *int64 `toml:"timeout_ms,omitempty"`
	QuitAfterRead bool   `toml:"quit_after_read"`
}

type GatewayConfig struct {
	Name        string       `toml:"name"`
	Addr        string       `toml:"addr"`
	CorsOrigins []string     `toml:"cors_origins"`
	WriteToken  string       `toml:"write_token,omitempty"`
	Client      ClientConfig `toml:"client"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Host:    session.DefaultHost,
		Port:    session.DefaultPort,
		Timeout: session.DefaultTimeout.String(),
	}
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Name:        "stsgw",
		Addr:        ":9080",
		CorsOrigins: []string{"http://localhost:3000"},
		Client:      DefaultClientConfig(),
	}
}

func LoadClientConfig(path string) (ClientConfig, error) {
	var cfg ClientConfig
	if err := loadToml(path, &cfg); err != nil {
		return ClientConfig{}, err
	}
	cfg = cfg.withDefaults()
	if err := ValidateClientConfig(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func LoadGatewayConfig(path string) (GatewayConfig, error) {
	var cfg GatewayConfig
	if err := loadToml(path, &cfg); err != nil {
		return GatewayConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "stsgw"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9080"
	}
	cfg.Client = cfg.Client.withDefaults()
	if err := ValidateGatewayConfig(cfg); err != nil {
		return GatewayConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func Encode(cfg any) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config encode failed: %w", err)
	}
	return data, nil
}

// Save writes cfg as TOML, replacing any existing file.
func Save(path string, cfg any) error {
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config write failed (%s): %w", path, err)
	}
	return nil
}

func (c ClientConfig) withDefaults() ClientConfig {
	def := DefaultClientConfig()
	if strings.TrimSpace(c.Host) == "" {
		c.Host = def.Host
	}
	if c.Port == 0 {
		c.Port = def.Port
	}
	if strings.TrimSpace(c.Timeout) == "" {
		c.Timeout = def.Timeout
	}
	return c
}

// FromSession renders a session.Config in file form.
func FromSession(cfg session.Config) ClientConfig {
	return ClientConfig{
		Host:          cfg.Host,
		Port:          cfg.Port,
		Timeout:       cfg.Timeout.String(),
		QuitAfterRead: cfg.QuitAfterRead,
	}
}

// Session converts the file form into a validated session.Config.
func (c ClientConfig) Session() (session.Config, error) {
	timeout, err := time.ParseDuration(strings.TrimSpace(c.Timeout))
	if err != nil {
		return session.Config{}, fmt.Errorf("parse timeout: %w", err)
	}
	if c.TimeoutMS != nil {
		timeout = time.Duration(*c.TimeoutMS) * time.Millisecond
	}
	cfg := session.Config{
		Host:          strings.TrimSpace(c.Host),
		Port:          c.Port,
		Timeout:       timeout,
		QuitAfterRead: c.QuitAfterRead,
	}
	if err := cfg.Validate(); err != nil {
		return session.Config{}, err
	}
	return cfg, nil
}

func ValidateClientConfig(cfg ClientConfig) error {
	_, err := cfg.Session()
	return err
}

func ValidateGatewayConfig(cfg GatewayConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("gateway config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("gateway config missing addr")
	}
	if err := ValidateClientConfig(cfg.Client); err != nil {
		return fmt.Errorf("client invalid: %w", err)
	}
	return nil
}
