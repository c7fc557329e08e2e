package main

import (
	"flag"

	"github.com/danmuck/stsctl/internal/config"
	"github.com/danmuck/stsctl/internal/observability"
	"github.com/danmuck/stsctl/internal/protocol/session"
	"github.com/danmuck/stsctl/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "cmd/stsgw/config.toml", "gateway config path")
	flag.Parse()

	logger := observability.InitLogger("stsgw")
	cfg, err := config.LoadGatewayConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load gateway config")
	}
	log.Info().Str("path", *configPath).Msg("loaded gateway config")

	sessionCfg, err := cfg.Client.Session()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid client config")
	}
	client, err := session.NewClient(sessionCfg,
		session.WithLogger(logger.With().Str("component", "session").Logger()),
		session.WithRecorder(observability.Recorder()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build sts client")
	}

	gw := server.New(cfg.Name, cfg.Addr, cfg.CorsOrigins, client, logger)
	gw.WriteToken = cfg.WriteToken
	log.Info().Str("gateway", gw.Name).Str("sts", client.String()).Msg("gateway started")
	if err := gw.Serve(); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped")
	}
}
