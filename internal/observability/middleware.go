package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Context keys a handler sets once it knows which STS session it ran.
const (
	ContextOp     = "sts.op"
	ContextResult = "sts.result"
)

const (
	labelNone = "none"
	resultOK  = "ok"
)

// MarkSession tags the request with the STS operation and its outcome: "ok"
// or an error kind such as "transport".
func MarkSession(c *gin.Context, op, result string) {
	c.Set(ContextOp, op)
	c.Set(ContextResult, result)
}

// sessionLabels reads what MarkSession stored; routes that never touch STS
// report "none" for both.
func sessionLabels(c *gin.Context) (op, result string) {
	op = c.GetString(ContextOp)
	if op == "" {
		return labelNone, labelNone
	}
	result = c.GetString(ContextResult)
	if result == "" {
		result = resultOK
	}
	return op, result
}

func routePath(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return c.Request.URL.Path
}

// RequestLogger logs one line per gateway request, including the STS
// operation it ran and how that session ended.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		op, result := sessionLabels(c)

		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		if op != labelNone {
			event = event.Str("sts_op", op).Str("sts_result", result)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", routePath(c)).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("bytes", c.Writer.Size()).
			Msg("gateway_request")
	}
}

// RequestMetricsMiddleware counts requests per gateway, route, status and
// STS outcome.
func RequestMetricsMiddleware(gateway string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		op, result := sessionLabels(c)
		RecordHTTPRequest(HTTPRequest{
			Gateway:  gateway,
			Method:   c.Request.Method,
			Path:     routePath(c),
			Status:   c.Writer.Status(),
			Op:       op,
			Result:   result,
			Duration: time.Since(start),
		})
	}
}
