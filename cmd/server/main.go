package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"listingchat/internal/api"
	"listingchat/internal/config"
	"listingchat/internal/models"
	"listingchat/internal/planner"
	"listingchat/internal/session"
	"listingchat/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	// The table is immutable after load and the chat path depends on the
	// full row set, so load before accepting traffic. A bad or missing CSV
	// yields an empty store, not a dead server.
	t0 := time.Now()
	st := store.Load(cfg.ListingsCSV, logger)
	logger.Info("store ready", zap.Int("rows", st.Len()), zap.Duration("took", time.Since(t0)))

	sessions := session.NewManager(cfg.SessionTTL)
	stop := make(chan struct{})
	defer close(stop)
	go sessions.Run(stop)

	bridge := planner.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, logger)
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set; chat requests will fail until configured")
	}

	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = api.JSONSerializer{}
	// Everything that escapes a handler, panics included, comes back as the
	// {error} response shape rather than a stack trace.
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := "internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprintf("%v", he.Message)
		}
		if jsonErr := c.JSON(code, models.ChatError{Error: msg}); jsonErr != nil {
			logger.Error("error response failed", zap.Error(jsonErr))
		}
	}
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))

	h := api.NewHandler(st, sessions, bridge, logger)
	h.RegisterRoutes(e)
	e.Static("/", cfg.StaticDir)

	logger.Info("server ready", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return logger
}
