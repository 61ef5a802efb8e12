package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"zenith/internal/auth"
	"zenith/internal/domain/errors"
	"zenith/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	principalKey    = "principal"
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// Principal is the authenticated subject attached by AuthRequired.
type Principal struct {
	UserID string
	Email  string
	Name   string
}

func principal(ctx *gin.Context) Principal {
	if p, ok := ctx.Get(principalKey); ok {
		if pr, ok := p.(Principal); ok {
			return pr
		}
	}
	return Principal{}
}

// AuthRequired verifies the bearer token and attaches its subject.
func AuthRequired(tokens *auth.TokenService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := bearerToken(ctx.GetHeader("Authorization"))
		if raw == "" {
			abort(ctx, errors.ErrNoToken)
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			abort(ctx, err)
			return
		}

		ctx.Set(principalKey, Principal{UserID: claims.UserID, Email: claims.Email, Name: claims.Name})
		ctx.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequestLogger writes one line per request and tags it with a request id.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		id := ctx.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx.Set(requestIDKey, id)
		ctx.Header(requestIDHeader, id)

		ctx.Next()

		logger.Info("request",
			"id", id,
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"latency", time.Since(start),
			"ip", ctx.ClientIP(),
			"auth", ctx.GetHeader("Authorization") != "",
		)
	}
}

func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		logger.Error("panic recovered", "path", ctx.Request.URL.Path, "panic", recovered)
		abort(ctx, errors.ErrInternalServer)
	})
}

func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Content-Encoding", "Accept-Encoding"},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// rateLimiter keeps one token bucket per client address. Buckets idle for
// longer than the window are dropped.
type rateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	window    time.Duration
	lastPrune time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(requests int, window time.Duration) *rateLimiter {
	if window <= 0 {
		window = defaultRateWindow
	}
	return &rateLimiter{
		clients:   make(map[string]*clientLimiter),
		limit:     rate.Every(window / time.Duration(requests)),
		burst:     requests,
		window:    window,
		lastPrune: time.Now(),
	}
}

func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastPrune) > l.window {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > l.window {
				delete(l.clients, k)
			}
		}
		l.lastPrune = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func RateLimit(l *rateLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodOptions {
			ctx.Next()
			return
		}
		if !l.allow(ctx.ClientIP()) {
			abort(ctx, errors.ErrRateLimited)
			return
		}
		ctx.Next()
	}
}
