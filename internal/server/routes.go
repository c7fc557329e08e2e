package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/danmuck/stsctl/internal/datum"
	"github.com/danmuck/stsctl/internal/observability"
	"github.com/danmuck/stsctl/internal/protocol"
	"github.com/danmuck/stsctl/internal/protocol/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ErrNoIDs     = errors.New("at least one id query parameter is required")
	ErrNonFinite = errors.New("non-finite float cannot be rendered as JSON")
)

func (g *Gateway) RegisterRoutes() {
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(g.Appeared).String(),
			"service": g.Name,
			"version": Version,
		})
	})

	g.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	g.router.GET("/datums", g.handleRead)
	if g.WriteToken != "" {
		g.router.POST("/datums", requireToken(g.WriteToken), g.handleWrite)
	} else {
		g.router.POST("/datums", g.handleWrite)
	}
}

func (g *Gateway) handleRead(c *gin.Context) {
	ids, err := parseIDs(c.QueryArray("id"))
	if err != nil {
		g.reject(c, session.OpReceive, http.StatusBadRequest, protocol.KindValidation, err)
		return
	}

	data, err := g.client.Receive(c.Request.Context(), ids)
	if err != nil {
		g.fail(c, session.OpReceive, err)
		return
	}

	docs := make([]datum.Document, 0, len(data))
	for _, d := range data {
		if !finite(d) {
			g.reject(c, session.OpReceive, http.StatusUnprocessableEntity, protocol.KindCodec,
				fmt.Errorf("id %d: %w", d.ID, ErrNonFinite))
			return
		}
		docs = append(docs, datum.FromDatum(d))
	}
	observability.MarkSession(c, session.OpReceive, "ok")
	c.JSON(http.StatusOK, gin.H{"datums": docs})
}

func (g *Gateway) handleWrite(c *gin.Context) {
	var docs []datum.Document
	if err := c.ShouldBindJSON(&docs); err != nil {
		g.reject(c, session.OpTransmit, http.StatusBadRequest, protocol.KindValidation, err)
		return
	}
	data, err := datum.Documents(docs)
	if err != nil {
		g.reject(c, session.OpTransmit, http.StatusBadRequest, protocol.KindValidation, err)
		return
	}

	if err := g.client.Transmit(c.Request.Context(), data); err != nil {
		g.fail(c, session.OpTransmit, err)
		return
	}
	observability.MarkSession(c, session.OpTransmit, "ok")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "count": len(data)})
}

// reject answers a request the gateway refused on its own, before or after
// the STS session.
func (g *Gateway) reject(c *gin.Context, op string, status int, kind protocol.ErrorKind, err error) {
	observability.MarkSession(c, op, string(kind))
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

func (g *Gateway) fail(c *gin.Context, op string, err error) {
	kind := protocol.Kind(err)
	g.log.Error().
		Str("op", op).
		Str("kind", string(kind)).
		Err(err).
		Msg("sts session failed")
	observability.MarkSession(c, op, string(kind))
	c.JSON(StatusFor(err), gin.H{"error": err.Error(), "kind": kind})
}

// StatusFor maps a session error to the HTTP status the gateway returns.
func StatusFor(err error) int {
	switch protocol.Kind(err) {
	case protocol.KindNone:
		return http.StatusOK
	case protocol.KindValidation:
		return http.StatusBadRequest
	case protocol.KindCodec:
		return http.StatusUnprocessableEntity
	case protocol.KindProtocol, protocol.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func parseIDs(raw []string) ([]int32, error) {
	if len(raw) == 0 {
		return nil, ErrNoIDs
	}
	ids := make([]int32, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", s, err)
		}
		ids = append(ids, int32(id))
	}
	return ids, nil
}

func finite(d datum.Datum) bool {
	var f float64
	switch v := d.Value.(type) {
	case datum.Float:
		f = float64(v)
	case datum.FloatText:
		f = v.Float
	default:
		return true
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
