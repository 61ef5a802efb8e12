package server

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"zenith/internal/logger"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 3 * time.Second

func (api *API) index(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Zenith productivity API",
		"version": APIVersion,
		"endpoints": gin.H{
			"auth":   "/api/auth",
			"todos":  "/api/todos",
			"notes":  "/api/notes",
			"focus":  "/api/focus",
			"health": "/api/health",
		},
	})
}

func (api *API) warmup(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Server is warm", "timestamp": api.now().UTC()})
}

// health reports liveness and datastore connectivity. An unreachable store
// turns the response into a 503. A store that fell back to memory at
// start-up is reported as degraded.
func (api *API) health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	database, status, code := "connected", "OK", http.StatusOK
	switch err := api.store.Ping(pingCtx); {
	case err != nil:
		logger.Warn("health check: datastore unreachable", "err", err)
		database, status, code = "disconnected", "DEGRADED", http.StatusServiceUnavailable
	case api.cfg.FallbackFrom != "":
		database, status = "fallback", "DEGRADED"
	case api.cfg.Driver == DriverMemory:
		database = "in-memory"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	body := gin.H{
		"success":     code == http.StatusOK,
		"status":      status,
		"timestamp":   api.now().UTC(),
		"uptime":      int64(time.Since(api.startedAt).Seconds()),
		"environment": api.cfg.Environment,
		"database":    database,
		"driver":      api.cfg.Driver,
		"memory": gin.H{
			"alloc":      mem.Alloc,
			"sys":        mem.Sys,
			"numGC":      mem.NumGC,
			"goroutines": runtime.NumGoroutine(),
		},
	}
	if api.cfg.FallbackFrom != "" {
		body["fallbackFrom"] = api.cfg.FallbackFrom
	}
	ctx.JSON(code, body)
}
