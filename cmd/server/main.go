package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"user-manager/internal/config"
	apphttp "user-manager/internal/http"
	"user-manager/internal/repository"
	"user-manager/internal/repository/postgres"
	"user-manager/internal/repository/sqlite"
	"user-manager/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using %s", cfg.Log.Level, logger.GetLevel())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer store.close()

	if err := store.users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := store.roles.Init(ctx); err != nil {
		logger.Fatalf("init role repository: %v", err)
	}

	userService := service.NewUserService(store.users, service.UserServiceConfig{
		BcryptCost: cfg.Security.BcryptCost,
		Logger:     logger,
	})
	roleService := service.NewRoleService(store.roles)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(apphttp.Middleware(logger)...)
	handler := apphttp.NewHandler(userService, roleService, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

type stores struct {
	users repository.UserRepository
	roles repository.RoleRepository
	close func()
}

func openStores(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		logger.Info("using postgres store")
		return &stores{
			users: postgres.NewUserRepository(pool),
			roles: postgres.NewRoleRepository(pool),
			close: closePool(pool),
		}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		logger.Infof("using sqlite store at %s", cfg.Database.Path)
		return &stores{
			users: sqlite.NewUserRepository(db),
			roles: sqlite.NewRoleRepository(db),
			close: closeDB(db, logger),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func closePool(pool *pgxpool.Pool) func() {
	return pool.Close
}

func closeDB(db *sql.DB, logger *logrus.Logger) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Warnf("close database: %v", err)
		}
	}
}
