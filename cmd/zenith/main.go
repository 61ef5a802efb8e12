package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zenith/internal/keyring"
	"zenith/internal/logger"
	"zenith/internal/server"
	db "zenith/repository/db"
	"zenith/repository/docstore"
	inmemory "zenith/repository/inmemory"

	"github.com/alecthomas/kong"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" help:"Config file (YAML or JSON)." type:"path"`
	EnvFile  string `name:"env-file" help:"Dotenv file loaded before the environment is read." default:".env"`
	LogLevel string `name:"log-level" help:"Log level: debug, info, warn or error."`
}

func (g *Globals) overrides() server.Overrides {
	return server.Overrides{
		ConfigFile: g.Config,
		EnvFile:    g.EnvFile,
		LogLevel:   g.LogLevel,
	}
}

var cli struct {
	Globals `embed:""`

	Version kong.VersionFlag `help:"Print the version and exit."`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the HTTP API."`
	Migrate MigrateCmd `cmd:"" help:"Apply or roll back the PostgreSQL schema."`
	Secret  struct {
		Set    SecretSetCmd    `cmd:"" help:"Store the token signing key in the OS keyring."`
		Delete SecretDeleteCmd `cmd:"" help:"Remove the token signing key from the OS keyring."`
	} `cmd:"" help:"Manage the token signing key."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("zenith"),
		kong.Description("Productivity API: accounts, todos, notes and focus sessions."),
		kong.UsageOnError(),
		kong.Vars{"version": server.APIVersion},
	)

	if err := ctx.Run(&cli.Globals); err != nil {
		logger.Fatal("command failed", "command", ctx.Command(), "err", err)
	}
}

type ServeCmd struct {
	Addr        string `help:"Listen address."`
	Port        int    `help:"Listen port."`
	Driver      string `help:"Storage driver: postgres, mongo or memory."`
	DB          string `name:"db" help:"PostgreSQL connection string."`
	MigratePath string `name:"migrate-path" help:"Migrations directory."`
}

func (c *ServeCmd) Run(g *Globals) error {
	o := g.overrides()
	o.Addr = c.Addr
	o.Port = c.Port
	o.Driver = c.Driver
	o.DBStr = c.DB
	o.MigratePath = c.MigratePath

	cfg, err := server.ReadConfig(o)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Dir: cfg.LogDir}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Info("starting zenith", "version", server.APIVersion, "environment", cfg.Environment)

	store := InitializeStore(cfg)
	defer store.Close()

	api := server.NewAPI(store, cfg)
	if api == nil {
		return fmt.Errorf("failed to initialise API")
	}

	sigChan, serverErr := StartServer(api)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		if err := HandleShutdown(api, sig, cfg.ShutdownTimeout); err != nil {
			return err
		}
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	}

	logger.Info("zenith stopped")
	return nil
}

// InitializeStore opens the configured backend. Any failure falls back to
// the in-memory store; cfg.Driver is updated to match and cfg.FallbackFrom
// keeps the driver that was asked for.
func InitializeStore(cfg *server.Config) server.Store {
	switch cfg.Driver {
	case server.DriverPostgres:
		if err := RunMigrations(cfg); err != nil {
			logger.Warn("migrations failed, using in-memory storage", "err", err)
			break
		}
		store, err := db.NewStorage(cfg.DBStr)
		if err != nil {
			logger.Warn("database unreachable, using in-memory storage", "err", err)
			break
		}
		logger.Info("storage ready", "driver", cfg.Driver)
		return store
	case server.DriverMongo:
		store, err := docstore.NewStorage(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			logger.Warn("mongodb unreachable, using in-memory storage", "err", err)
			break
		}
		logger.Info("storage ready", "driver", cfg.Driver, "database", cfg.MongoDatabase)
		return store
	}

	if cfg.Driver != server.DriverMemory {
		logger.Error("serving from in-memory storage, data will not survive a restart", "configured_driver", cfg.Driver)
		cfg.FallbackFrom = cfg.Driver
	}
	cfg.Driver = server.DriverMemory
	logger.Info("storage ready", "driver", cfg.Driver)
	return inmemory.NewStorage()
}

func RunMigrations(cfg *server.Config) error {
	return db.Migration(cfg.DBStr, cfg.MigratePath)
}

// Runner is the part of server.API the process lifecycle needs.
type Runner interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// StartServer runs api in the background. The error channel only receives
// failures other than a clean shutdown.
func StartServer(api Runner) (chan os.Signal, <-chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := api.Start(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	return sigChan, serverErr
}

func HandleShutdown(api Runner, sig os.Signal, timeout time.Duration) error {
	logger.Info("shutting down", "signal", sig.String(), "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := api.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("graceful shutdown complete")
	return nil
}

type MigrateCmd struct {
	Down        bool   `help:"Roll back instead of applying."`
	Steps       int    `help:"Migrations to roll back with --down; 0 rolls back everything." default:"1"`
	DB          string `name:"db" help:"PostgreSQL connection string."`
	MigratePath string `name:"migrate-path" help:"Migrations directory."`
}

func (c *MigrateCmd) Run(g *Globals) error {
	o := g.overrides()
	o.DBStr = c.DB
	o.MigratePath = c.MigratePath
	o.SkipSigningKey = true

	cfg, err := server.ReadConfig(o)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Dir: cfg.LogDir}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if c.Down {
		return db.Rollback(cfg.DBStr, cfg.MigratePath, c.Steps)
	}
	return RunMigrations(cfg)
}

type SecretSetCmd struct {
	Value string `arg:"" optional:"" help:"Signing key. A random 256-bit key is generated when omitted."`
}

func (c *SecretSetCmd) Run() error {
	secret := c.Value
	if secret == "" {
		generated, err := GenerateSigningKey()
		if err != nil {
			return err
		}
		secret = generated
	}
	if err := keyring.SetSigningKey(secret); err != nil {
		return err
	}
	fmt.Printf("Signing key stored in the OS keyring (service %q, key %q)\n", keyring.Service, keyring.SigningKeyKey)
	return nil
}

func GenerateSigningKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate signing key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

type SecretDeleteCmd struct{}

func (c *SecretDeleteCmd) Run() error {
	if err := keyring.DeleteSigningKey(); err != nil {
		return err
	}
	fmt.Println("Signing key removed from the OS keyring")
	return nil
}
