// Package apiserver serves the diagnostics of a running quantifiers engine
// over HTTP.
package apiserver

import (
	goctx "context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netrixframework/qengine/log"
	"github.com/netrixframework/qengine/quantifiers"
	"github.com/netrixframework/qengine/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultAddr is the default address of the APIServer
const DefaultAddr = "0.0.0.0:7074"

// SnapshotSource publishes the diagnostics view of an engine
type SnapshotSource interface {
	Snapshot() *quantifiers.Snapshot
}

// APIServer exposes the last published snapshot and the metrics of an engine
type APIServer struct {
	router   *gin.Engine
	source   SnapshotSource
	registry *prometheus.Registry

	server *http.Server
	addr   string

	*types.BaseService
}

var _ types.Service = &APIServer{}

// NewAPIServer instantiates APIServer. The metrics of registry are served
// under /metrics.
func NewAPIServer(addr string, source SnapshotSource, registry *prometheus.Registry, logger *log.Logger) *APIServer {
	if addr == "" {
		addr = DefaultAddr
	}
	server := &APIServer{
		source:      source,
		registry:    registry,
		addr:        addr,
		BaseService: types.NewBaseService("APIServer", logger),
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(server.logMiddleware)

	router.GET("/quantifiers", server.handleQuantifiers)
	router.GET("/quantifiers/:id", server.handleQuantifierGet)
	router.GET("/round", server.handleRound)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	server.router = router
	server.server = &http.Server{
		Addr:    server.addr,
		Handler: router,
	}
	return server
}

// Handler returns the router of the server
func (a *APIServer) Handler() http.Handler {
	return a.router
}

func (a *APIServer) logMiddleware(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path
	raw := c.Request.URL.RawQuery

	c.Next()

	end := time.Now()
	if raw != "" {
		path = path + "?" + raw
	}
	a.Logger.With(log.LogParams{
		"latency":     end.Sub(start).String(),
		"client_ip":   c.ClientIP(),
		"method":      c.Request.Method,
		"status_code": c.Writer.Status(),
		"error":       c.Errors.ByType(gin.ErrorTypePrivate).String(),
		"body_size":   c.Writer.Size(),
		"path":        path,
	}).Debug("Handled request")
}

// Start starts listening in the background and implements Service
func (a *APIServer) Start() error {
	a.StartRunning()
	go func() {
		a.Logger.With(log.LogParams{"addr": a.addr}).Info("API server starting!")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.With(log.LogParams{
				"addr": a.addr,
				"err":  err,
			}).Error("API server closed!")
			a.StopRunning()
		}
	}()
	return nil
}

// Stop shuts the server down and implements Service
func (a *APIServer) Stop() error {
	a.StopRunning()
	ctx, cancel := goctx.WithTimeout(goctx.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		a.Logger.Error("API server forcefully shutdown")
		return err
	}
	a.Logger.Info("API server stopped!")
	return nil
}
