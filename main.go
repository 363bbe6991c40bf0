// Package main library management API.
//
// @title           Library Management API
// @version         1.0
// @description     Books catalogue and borrowing service.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"libraryapi/app/echoServer"
	bookctrl "libraryapi/app/echoServer/controller/book"
	borrowctrl "libraryapi/app/echoServer/controller/borrow"
	"libraryapi/app/echoServer/validation"
	"libraryapi/config"
	_ "libraryapi/docs"
	bookrepo "libraryapi/repository/book"
	borrowrepo "libraryapi/repository/borrow"
	"libraryapi/repository/memory"
	booksvc "libraryapi/service/book"
	borrowsvc "libraryapi/service/borrow"
	"libraryapi/service/inventory"
	"libraryapi/util/database"
	"libraryapi/util/mongodb"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type stores struct {
	tx      database.TxManager
	books   bookrepo.Repo
	borrows borrowrepo.Repo
	close   func()
}

func openStores(ctx context.Context, cfg config.App, log *slog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		m, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoTxn)
		if err != nil {
			return nil, err
		}
		if err := m.EnsureIndexes(ctx); err != nil {
			_ = m.Close(ctx)
			return nil, err
		}
		if !m.Atomic() {
			log.Warn("mongo transactions unavailable, borrows fall back to compensation",
				"requested", cfg.MongoTxn)
		}
		return &stores{
			tx:      m,
			books:   bookrepo.NewMongo(m.Books()),
			borrows: borrowrepo.NewMongo(m.Borrows(), m.Books()),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = m.Close(ctx)
			},
		}, nil

	case config.DriverMemory:
		s := memory.New()
		return &stores{tx: s, books: s.Books(), borrows: s.Borrows(), close: func() {}}, nil

	default:
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStartup {
			if err := db.Migrate(ctx); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &stores{tx: db, books: bookrepo.New(db), borrows: borrowrepo.New(db), close: db.Close}, nil
	}
}

func main() {

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("store connect failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer st.close()
	log.Info("store ready", "driver", cfg.StoreDriver, "atomic", st.tx.Atomic())

	// services
	inv := inventory.New(st.books)
	bs := booksvc.New(st.tx, st.books, st.borrows)
	brs := borrowsvc.New(st.tx, st.books, inv, st.borrows)

	if cfg.CleanupInterval > 0 {
		go borrowsvc.RunCleaner(ctx, borrowsvc.NewCleaner(st.borrows), cfg.CleanupInterval, log)
	}

	// controllers
	v := validation.New()
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: brs, V: v, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = echoServer.JSONSerializer{}
	e.Validator = v
	echoServer.RegisterMiddlewares(e, log, echoServer.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Welcome to Library Management Server")
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
			"store":   cfg.StoreDriver,
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Book:   bookC,
		Borrow: borrowC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	go func() {
		log.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port, "env", cfg.Env)
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down gracefully")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
}
