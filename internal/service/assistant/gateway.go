package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/jashn-planner/backend/internal/analysis/intent"
	"github.com/zhouzirui/jashn-planner/backend/internal/llm"
	"github.com/zhouzirui/jashn-planner/backend/internal/model/chat"
)

var (
	ErrUpstream          = errors.New("assistant upstream call failed")
	ErrMalformedResponse = errors.New("assistant returned a malformed response")
	ErrRateLimited       = errors.New("assistant rate limit exceeded")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrNoConversation    = errors.New("conversation is required for chat replies")
)

// FallbackText is the apology shown whenever a reply cannot be produced.
const FallbackText = "Oh no! I'm having a little trouble thinking right now. Please try again in a moment. 🙏"

// Kind tells callers which shape of reply a Result carries.
type Kind string

const (
	KindSuggestions Kind = "suggestions"
	KindText        Kind = "text"
	KindFallback    Kind = "fallback"
)

// Result is the bot message produced for one user message. Err is set only for KindFallback.
type Result struct {
	Message chat.Message
	Kind    Kind
	Err     error
}

// Limiter gates upstream calls per key.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Config controls per-attempt timeouts and retries.
type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// Gateway turns user messages into bot messages using a provider.
type Gateway struct {
	provider llm.Provider
	limiter  Limiter
	cfg      Config
	persona  PromptTemplate
	logger   *zap.Logger
}

// NewGateway wires a gateway. limiter may be nil.
func NewGateway(provider llm.Provider, limiter Limiter, cfg Config, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Gateway{
		provider: provider,
		limiter:  limiter,
		cfg:      cfg,
		persona:  PlanPal,
		logger:   logger.Named("assistant"),
	}
}

// Greeting is the first bot message of every session.
func (g *Gateway) Greeting() string {
	return g.persona.WelcomeMessage
}

// NewConversation opens a provider chat carrying the persona instruction.
func (g *Gateway) NewConversation(ctx context.Context) (llm.Conversation, error) {
	conv, err := g.provider.NewConversation(ctx, g.persona.SystemInstruction())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return llm.Synchronized(conv), nil
}

// SendMessage produces the reply to message. Suggestion requests get structured suggestions from a
// stateless call; anything else goes through conv. Failures never escape: they become the fallback
// message with Err describing the cause.
func (g *Gateway) SendMessage(ctx context.Context, conv llm.Conversation, message string, loc *chat.Location) Result {
	message = strings.TrimSpace(message)
	if message == "" {
		return g.fallback(ErrEmptyMessage, "")
	}

	if g.limiter != nil && !g.limiter.Allow(ctx, rateKey(conv)) {
		return g.fallback(ErrRateLimited, "")
	}

	decision := intent.Analyze(message)
	full := WithLocation(message, loc)

	if decision.Label == intent.Suggestion {
		return g.suggest(ctx, full, decision.Keyword)
	}
	return g.converse(ctx, conv, full)
}

func (g *Gateway) suggest(ctx context.Context, message, keyword string) Result {
	schema := SuggestionSchema()
	prompt := SuggestionPrompt(message)

	raw, err := g.withRetry(ctx, func(ctx context.Context) (string, error) {
		return g.provider.GenerateJSON(ctx, prompt, schema)
	})
	if err != nil {
		return g.fallback(err, string(KindSuggestions))
	}

	suggestions, adjustments, err := ParseSuggestions(raw)
	if err != nil {
		return g.fallback(err, string(KindSuggestions))
	}
	for _, adj := range adjustments {
		g.logger.Warn("suggestion fields adjusted",
			zap.Int("index", adj.Index),
			zap.String("name", adj.Name),
			zap.Strings("fields", adj.Fields))
	}

	g.logger.Debug("suggestions generated", zap.String("keyword", keyword), zap.Int("count", len(suggestions)))
	return Result{
		Message: g.botMessage(func(m *chat.Message) { m.Suggestions = suggestions }),
		Kind:    KindSuggestions,
	}
}

func (g *Gateway) converse(ctx context.Context, conv llm.Conversation, message string) Result {
	if conv == nil {
		return g.fallback(ErrNoConversation, string(KindText))
	}

	text, err := g.withRetry(ctx, func(ctx context.Context) (string, error) {
		return conv.Send(ctx, message)
	})
	if err != nil {
		return g.fallback(err, string(KindText))
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return g.fallback(fmt.Errorf("%w: %w", ErrMalformedResponse, llm.ErrEmptyResponse), string(KindText))
	}

	return Result{
		Message: g.botMessage(func(m *chat.Message) { m.Text = text }),
		Kind:    KindText,
	}
}

// withRetry runs call with a fresh timeout per attempt and linear backoff between attempts.
func (g *Gateway) withRetry(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := g.cfg.RetryBackoff * time.Duration(attempt)
			g.logger.Debug("retrying upstream call", zap.Int("attempt", attempt), zap.Duration("backoff", wait))
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", fmt.Errorf("%w: %w", ErrUpstream, ctx.Err())
			case <-timer.C:
			}
		}

		out, err := g.attempt(ctx, call)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%w: %w", ErrUpstream, lastErr)
}

func (g *Gateway) attempt(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	return call(ctx)
}

func (g *Gateway) fallback(err error, path string) Result {
	g.logger.Warn("assistant reply failed",
		zap.String("path", path),
		zap.Error(err))

	return Result{
		Message: g.botMessage(func(m *chat.Message) { m.Text = FallbackText }),
		Kind:    KindFallback,
		Err:     err,
	}
}

func (g *Gateway) botMessage(fill func(*chat.Message)) chat.Message {
	msg := chat.Message{
		ID:        uuid.NewString(),
		Sender:    chat.SenderBot,
		CreatedAt: time.Now().UTC(),
	}
	fill(&msg)
	return msg
}

func rateKey(conv llm.Conversation) string {
	if conv == nil {
		return "anonymous"
	}
	return conv.ID()
}
