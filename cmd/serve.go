package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	database "internlink_backend/internals/databases"
	"internlink_backend/internals/features/users/auth/scheduler"
	helper "internlink_backend/internals/helpers"
	"internlink_backend/internals/helpers/llm"
	helperOSS "internlink_backend/internals/helpers/oss"
	"internlink_backend/internals/helpers/redisx"
	"internlink_backend/internals/helpers/webtext"
	middlewares "internlink_backend/internals/middlewares"
	"internlink_backend/internals/middlewares/logger"
	routes "internlink_backend/internals/route"
	routeDetails "internlink_backend/internals/route/details"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "run AutoMigrate before serving")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	// 🔌 DB connect + warm-up
	h, err := database.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer h.Close()
	database.WarmUpQueries(h.Restricted)

	if autoMigrate {
		if err := database.AutoMigrate(h.Elevated); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	// Redis opsional: limiter & state pencarian jatuh ke memori
	rdb, err := redisx.Open(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("[WARN] redis unavailable, using in-memory store: %v", err)
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}
	store := redisx.NewStore(rdb, "internlink", 0)
	defer store.Close()

	deps := routeDetails.Deps{
		Cfg:      cfg,
		DB:       h.Restricted,
		Elevated: h.Elevated,
		Validate: helper.NewValidator(),
		Store:    store,
		AI:       llm.New(cfg),
		Web:      webtext.NewFetcher(10 * time.Second),
	}
	files, err := helperOSS.NewOSSService(cfg, "internlink")
	switch {
	case err == nil:
		deps.Files = files
	case errors.Is(err, helperOSS.ErrNotConfigured):
		log.Println("[WARN] ALI_OSS_* not set, file uploads disabled")
	default:
		return fmt.Errorf("object storage: %w", err)
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		BodyLimit:               50 << 20, // upload video jawaban
		ErrorHandler:            helper.ErrorHandler,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            60 * time.Second,
		IdleTimeout:             90 * time.Second,
	})

	// ⚙️ middleware dasar
	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.RequestIDMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.CorsMiddleware(cfg.CORSOrigins))
	app.Use(middlewares.CompressMiddleware())
	app.Use(middlewares.ETagMiddleware())
	app.Use(middlewares.GlobalRateLimiter(store))

	routes.SetupRoutes(app, deps)

	// ⏱ scheduler setelah DB siap
	cron, err := scheduler.StartTokenCleanup(h.Restricted, scheduler.DefaultSpec)
	if err != nil {
		return fmt.Errorf("token cleanup scheduler: %w", err)
	}
	defer cron.Stop()

	printTitle("InternLink API")
	printField("port", cfg.Port)
	printField("ai", onOff(deps.AI.Enabled()))
	printField("object storage", onOff(deps.Files != nil))
	printField("cache", store.Backend())
	printField("docs", "/swagger/index.html")

	errCh := make(chan error, 1)
	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		errCh <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Println("[INFO] shutting down...")
	return app.ShutdownWithContext(shutdownCtx)
}
