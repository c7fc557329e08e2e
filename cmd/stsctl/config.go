package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/stsctl/internal/protocol/session"
)

// fileConfig accepts the keys at the top level (client template) or under a
// [client] table (gateway template). Table keys win.
type fileConfig struct {
	Host          string      `toml:"host"`
	Port          int         `toml:"port"`
	Timeout       string      `toml:"timeout"`
	TimeoutMS     int64       `toml:"timeout_ms"`
	QuitAfterRead bool        `toml:"quit_after_read"`
	Client        *fileConfig `toml:"client"`
}

func loadSessionConfig(path string, cfg session.Config) (session.Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return session.Config{}, fmt.Errorf("load stsctl config: %w", err)
	}

	cfg, err = applyFileKeys(meta, nil, raw, cfg)
	if err != nil {
		return session.Config{}, err
	}
	if raw.Client != nil {
		cfg, err = applyFileKeys(meta, []string{"client"}, *raw.Client, cfg)
		if err != nil {
			return session.Config{}, err
		}
	}
	return cfg, nil
}

func applyFileKeys(meta toml.MetaData, prefix []string, raw fileConfig, cfg session.Config) (session.Config, error) {
	defined := func(key string) bool {
		return meta.IsDefined(append(append([]string{}, prefix...), key)...)
	}

	if defined("host") {
		if host := strings.TrimSpace(raw.Host); host != "" {
			cfg.Host = host
		}
	}

	if defined("port") {
		cfg.Port = raw.Port
	}

	if defined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return session.Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	if defined("timeout_ms") {
		cfg.Timeout = time.Duration(raw.TimeoutMS) * time.Millisecond
	}

	if defined("quit_after_read") {
		cfg.QuitAfterRead = raw.QuitAfterRead
	}

	return cfg, nil
}
