package server

import (
	"context"
	"net/http"
	"time"

	"zenith/internal/auth"
	"zenith/internal/domain/errors"
	"zenith/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
)

const APIVersion = "1.0.0"

type API struct {
	httpSrv   *http.Server
	store     Store
	cfg       *Config
	tokens    *auth.TokenService
	hasher    *auth.PasswordHasher
	validate  *validator.Validate
	limiter   *rateLimiter
	location  *time.Location
	now       func() time.Time
	startedAt time.Time
}

func NewAPI(store Store, cfg *Config) *API {
	if store == nil || cfg == nil {
		return nil
	}

	api := &API{
		httpSrv: &http.Server{
			Addr:              cfg.ListenAddr(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:     store,
		cfg:       cfg,
		tokens:    auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		hasher:    auth.NewPasswordHasher(cfg.BcryptCost),
		validate:  validator.New(),
		location:  cfg.Location(),
		now:       time.Now,
		startedAt: time.Now(),
	}
	if cfg.RateLimit > 0 {
		api.limiter = newRateLimiter(cfg.RateLimit, cfg.RateWindow)
	}

	api.configRoutes()

	return api
}

// WithClock replaces the time source of the handlers and the token service.
func (api *API) WithClock(now func() time.Time) *API {
	api.now = now
	api.tokens.WithClock(now)
	return api
}

func (api *API) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}

	if api.httpSrv.Addr == "" {
		api.httpSrv.Addr = ":8080"
	}

	logger.Info("server listening", "addr", api.httpSrv.Addr, "environment", api.cfg.Environment)
	return api.httpSrv.ListenAndServe()
}

func (api *API) Shutdown(ctx context.Context) error {
	if api.httpSrv == nil {
		return nil
	}
	return api.httpSrv.Shutdown(ctx)
}

func (api *API) configRoutes() {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.ContextWithFallback = true

	router.Use(Recovery())
	router.Use(RequestLogger())
	router.Use(CORS(api.cfg.CORSOrigins))
	router.Use(GzipRequestDecompress())
	router.Use(GzipResponseCompress())

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found", "error": codeNotFound})
	})
	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "Method not allowed", "error": codeMethodNotAllowed})
	})

	root := router.Group("/api")
	if api.limiter != nil {
		root.Use(RateLimit(api.limiter))
	}
	{
		root.GET("", api.index)
		root.GET("/warmup", api.warmup)
		root.GET("/health", api.health)
	}

	authRequired := AuthRequired(api.tokens)

	account := root.Group("/auth")
	{
		account.POST("/register", api.register)
		account.POST("/login", api.login)
		account.POST("/check-email", api.checkEmail)
		account.GET("/me", authRequired, api.me)
		account.PUT("/settings", authRequired, api.updateSettings)
		account.PUT("/profile", authRequired, api.updateProfile)
		account.PUT("/change-password", authRequired, api.changePassword)
		account.POST("/logout", authRequired, api.logout)
	}

	todos := root.Group("/todos", authRequired)
	{
		todos.GET("", api.listTodos)
		todos.POST("", api.createTodo)
		todos.GET("/analytics/stats", api.todoStats)
		todos.PUT("/bulk/update", api.bulkUpdateTodos)
		todos.DELETE("/bulk/delete", api.bulkDeleteTodos)
		todos.GET("/:id", api.getTodo)
		todos.PUT("/:id", api.updateTodo)
		todos.DELETE("/:id", api.deleteTodo)
	}

	notes := root.Group("/notes", authRequired)
	{
		notes.GET("", api.listNotes)
		notes.POST("", api.createNote)
		notes.GET("/search/:query", api.searchNotes)
		notes.GET("/:id", api.getNote)
		notes.PUT("/:id", api.updateNote)
		notes.DELETE("/:id", api.deleteNote)
	}

	focus := root.Group("/focus", authRequired)
	{
		focus.POST("/start", api.startSession)
		focus.PUT("/end/:id", api.endSession)
		focus.GET("/sessions", api.listSessions)
		focus.GET("/stats", api.focusStats)
		focus.GET("/leaderboard", api.leaderboard)
	}

	api.httpSrv.Handler = router
}
