package observability

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// quietRoutes are polled by scrapers and health checks; they log at debug.
var quietRoutes = map[string]bool{
	"/metrics": true,
	"/health":  true,
	"/ready":   true,
}

// routeLabel keeps metric cardinality bounded to registered routes.
func routeLabel(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return "unmatched"
}

func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := routeLabel(c)

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		case quietRoutes[route]:
			event = logger.Debug()
		default:
			event = logger.Info()
		}

		msg := "http_request"
		if status == http.StatusSwitchingProtocols {
			// the handler returns when the websocket closes
			msg = "ws_session"
		}
		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("bytes", c.Writer.Size()).
			Msg(msg)
	}
}

// RequestMetrics counts requests per registered route for service.
func RequestMetrics(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Writer.Status() == http.StatusSwitchingProtocols {
			return
		}
		RecordHTTPRequest(service, c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
	}
}
