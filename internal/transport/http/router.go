// Package http exposes games over WebSocket and serves operational endpoints.
package http

import (
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds what NewRouter mounts. A nil Gatherer disables /metrics.
type RouterConfig struct {
	WS       *WSHandler
	Gatherer prometheus.Gatherer
	Pprof    bool
}

// NewRouter builds the HTTP handler: /healthz, /ws, /metrics and /debug/pprof.
func NewRouter(c RouterConfig) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery())

	e.GET("/healthz", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "ok")
	})
	if c.WS != nil {
		e.GET("/ws", gin.WrapF(c.WS.ServeWS))
	}
	if c.Gatherer != nil {
		e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Gatherer, promhttp.HandlerOpts{})))
	}
	if c.Pprof {
		pprof.Register(e, "/debug/pprof")
	}
	return e
}
