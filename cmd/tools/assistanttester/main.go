package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/jashn-planner/backend/internal/config"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/chat"
	"github.com/zhouzirui/jashn-planner/backend/internal/service/assistant"
	"github.com/zhouzirui/jashn-planner/backend/pkg/logger"
)

func main() {
	text := flag.String("text", "", "message to send, e.g. \"suggest some chill cafes in Mumbai\"")
	lat := flag.String("lat", "", "optional latitude appended to the message")
	lng := flag.String("lng", "", "optional longitude appended to the message")
	timeout := flag.Duration("timeout", 45*time.Second, "overall request timeout")
	flag.Parse()

	log := zap.Must(logger.New(config.LogConfig{Level: "debug", Format: "console"}))
	defer func() { _ = log.Sync() }()

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file loaded, using system environment", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	if strings.TrimSpace(*text) == "" {
		flag.Usage()
		log.Fatal("-text is required")
	}

	loc, err := parseLocation(*lat, *lng)
	if err != nil {
		log.Fatal("invalid location", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	provider, err := assistant.NewProvider(ctx, cfg.AI, log)
	if err != nil {
		log.Fatal("failed to create provider", zap.String("provider", cfg.AI.Provider), zap.Error(err))
	}

	gateway := assistant.NewGateway(provider, nil, assistant.ConfigFrom(cfg.AI), log)
	conv, err := gateway.NewConversation(ctx)
	if err != nil {
		log.Fatal("failed to open conversation", zap.Error(err))
	}

	log.Info("sending message", zap.String("provider", provider.Name()), zap.String("text", *text), zap.Bool("location", loc != nil))
	result := gateway.SendMessage(ctx, conv, *text, loc)
	if result.Err != nil {
		log.Warn("assistant returned the fallback reply", zap.Error(result.Err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"kind": result.Kind, "message": result.Message}); err != nil {
		log.Fatal("failed to print result", zap.Error(err))
	}
}

// parseLocation returns nil unless both coordinates are given.
func parseLocation(lat, lng string) (*chat.Location, error) {
	if lat == "" && lng == "" {
		return nil, nil
	}
	latitude, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return nil, err
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return nil, err
	}
	return &chat.Location{Latitude: latitude, Longitude: longitude}, nil
}
