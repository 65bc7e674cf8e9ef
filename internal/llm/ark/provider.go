package ark

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/jashn-planner/backend/internal/llm"
)

// historyLimit caps the number of prior messages replayed into each chat turn.
const historyLimit = 20

// Provider runs prompts through an eino chain backed by an Ark (or any eino) chat model.
type Provider struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	logger *zap.Logger
}

// NewProvider compiles the system/history/query chain around chatModel.
func NewProvider(ctx context.Context, chatModel model.BaseChatModel, logger *zap.Logger) (*Provider, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Provider{chain: runnable, logger: logger.Named("ark")}, nil
}

func (p *Provider) Name() string { return "ark" }

// GenerateJSON has no native schema mode here, so the schema is spelled out in the system prompt.
func (p *Provider) GenerateJSON(ctx context.Context, query string, s *llm.Schema) (string, error) {
	return p.invoke(ctx, jsonSystemPrompt(s), nil, query)
}

// NewConversation starts a chat whose history is replayed into every turn.
func (p *Provider) NewConversation(_ context.Context, systemInstruction string) (llm.Conversation, error) {
	return llm.Synchronized(&conversation{
		id:       uuid.NewString(),
		system:   systemInstruction,
		provider: p,
	}), nil
}

func (p *Provider) invoke(ctx context.Context, system string, history []*schema.Message, query string) (string, error) {
	input := map[string]any{
		"system":  system,
		"history": history,
		"query":   query,
	}

	msg, err := p.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", llm.ErrEmptyResponse
	}
	return strings.TrimSpace(msg.Content), nil
}

type conversation struct {
	id       string
	system   string
	provider *Provider
	messages []*schema.Message
}

func (c *conversation) ID() string { return c.id }

func (c *conversation) Send(ctx context.Context, text string) (string, error) {
	reply, err := c.provider.invoke(ctx, c.system, c.window(), text)
	if err != nil {
		return "", err
	}

	c.messages = append(c.messages, schema.UserMessage(text), schema.AssistantMessage(reply, nil))
	c.provider.logger.Debug("chat response", zap.String("conversation", c.id), zap.Int("length", len(reply)))
	return reply, nil
}

func (c *conversation) History() []llm.Turn {
	turns := make([]llm.Turn, 0, len(c.messages))
	for _, msg := range c.messages {
		switch msg.Role {
		case schema.User:
			turns = append(turns, llm.Turn{Role: llm.RoleUser, Text: msg.Content})
		case schema.Assistant:
			turns = append(turns, llm.Turn{Role: llm.RoleModel, Text: msg.Content})
		}
	}
	return turns
}

func (c *conversation) window() []*schema.Message {
	if len(c.messages) == 0 {
		return nil
	}
	start := 0
	if len(c.messages) > historyLimit {
		start = len(c.messages) - historyLimit
	}
	return append([]*schema.Message(nil), c.messages[start:]...)
}

func jsonSystemPrompt(s *llm.Schema) string {
	var builder strings.Builder
	builder.WriteString("Respond ONLY with JSON that strictly follows this JSON schema. Do not add any text before or after the JSON.\n")
	builder.WriteString(s.String())
	return builder.String()
}
