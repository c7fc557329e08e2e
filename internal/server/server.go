package server

import (
	"context"
	"time"

	"github.com/danmuck/stsctl/internal/datum"
	"github.com/danmuck/stsctl/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const Version = "0.1.0"

// Transceiver is the STS client surface the gateway needs.
// *session.Client satisfies it.
type Transceiver interface {
	Transmit(ctx context.Context, data []datum.Datum) error
	Receive(ctx context.Context, ids []int32) ([]datum.Datum, error)
}

// Gateway exposes an STS server over HTTP. Each request runs exactly one
// STS session.
type Gateway struct {
	Name     string    `json:"name"`
	Addr     string    `json:"addr"`
	Appeared time.Time `json:"appeared"`
	// WriteToken, when set, is required as a bearer token on POST /datums.
	WriteToken string `json:"-"`

	client Transceiver
	router *gin.Engine
	log    zerolog.Logger
}

// New builds the gateway router. Request and session failure logs go to
// logger tagged with the gateway name.
func New(name, addr string, corsOrigins []string, client Transceiver, logger zerolog.Logger) *Gateway {
	observability.RegisterMetrics()
	logger = logger.With().Str("gateway", name).Logger()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Gateway{
		Name:     name,
		Addr:     addr,
		Appeared: time.Now(),
		client:   client,
		router:   r,
		log:      logger,
	}
}

func (g *Gateway) HTTPRouter() *gin.Engine {
	return g.router
}

func (g *Gateway) Serve() error {
	g.RegisterRoutes()
	g.log.Info().Str("addr", g.Addr).Msg("gateway listening")
	return g.router.Run(g.Addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
