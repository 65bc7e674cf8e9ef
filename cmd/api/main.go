package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/jashn-planner/backend/internal/config"
	"github.com/zhouzirui/jashn-planner/backend/internal/handler"
	"github.com/zhouzirui/jashn-planner/backend/internal/llm"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/planning"
	"github.com/zhouzirui/jashn-planner/backend/internal/ratelimit"
	"github.com/zhouzirui/jashn-planner/backend/internal/service/assistant"
	"github.com/zhouzirui/jashn-planner/backend/internal/service/chat"
	planningService "github.com/zhouzirui/jashn-planner/backend/internal/service/planning"
	"github.com/zhouzirui/jashn-planner/backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap := zap.Must(zap.NewProduction())

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Fatal("failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		bootstrap.Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if envErr != nil {
		log.Info("no .env file loaded, using system environment", zap.Error(envErr))
	}

	planningSvc := planningService.NewService(planning.Seed())

	var limiter assistant.Limiter
	if cfg.RateLimit.Enabled() {
		client, err := ratelimit.NewClient(ctx, cfg.RateLimit.RedisAddr, cfg.RateLimit.RedisPassword, cfg.RateLimit.RedisDB)
		if err != nil {
			log.Warn("redis unavailable, assistant calls are not rate limited", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			limiter = ratelimit.NewRedisLimiter(client, cfg.RateLimit.Window, cfg.RateLimit.Max, log)
			log.Info("assistant rate limit enabled",
				zap.Int("max", cfg.RateLimit.Max),
				zap.Duration("window", cfg.RateLimit.Window))
		}
	}

	deps := handler.Dependencies{
		Planning: planningSvc,
		Logger:   log,
	}

	provider, err := assistant.NewProvider(ctx, cfg.AI, log)
	if err != nil {
		log.Warn("continuing without assistant", zap.String("provider", cfg.AI.Provider), zap.Error(err))
		deps.Chat = chat.NewService(nil, assistant.PlanPal.WelcomeMessage)
	} else {
		gateway := assistant.NewGateway(provider, limiter, assistant.ConfigFrom(cfg.AI), log)
		deps.Chat = chat.NewService(func(ctx context.Context) (llm.Conversation, error) {
			return gateway.NewConversation(ctx)
		}, gateway.Greeting())
		deps.Assistant = gateway
		deps.Provider = provider.Name()
		log.Info("assistant initialized", zap.String("provider", provider.Name()))
	}

	router := handler.NewRouter(deps)

	startServer(ctx, log, cfg.Server, router)
}

func startServer(ctx context.Context, log *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("planner backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
