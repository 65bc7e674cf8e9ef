package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/zhouzirui/jashn-planner/backend/internal/llm"
)

const defaultModel = "gemini-2.5-flash"

// Config selects the Gemini model and sampling.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Provider talks to the Gemini API through the genai SDK.
type Provider struct {
	client      *genai.Client
	model       string
	temperature *float32
	logger      *zap.Logger
}

// NewProvider creates a Gemini client for the given API key.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var temperature *float32
	if cfg.Temperature > 0 {
		t := cfg.Temperature
		temperature = &t
	}

	return &Provider{
		client:      client,
		model:       model,
		temperature: temperature,
		logger:      logger.Named("gemini"),
	}, nil
}

func (p *Provider) Name() string { return "gemini" }

// GenerateJSON requests application/json output constrained by schema.
func (p *Provider) GenerateJSON(ctx context.Context, prompt string, schema *llm.Schema) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(schema),
		Temperature:      p.temperature,
	}

	res, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := responseText(res)
	if text == "" {
		return "", llm.ErrEmptyResponse
	}

	p.logger.Debug("structured response", zap.String("model", p.model), zap.Int("length", len(text)))
	return text, nil
}

// NewConversation opens a genai chat carrying systemInstruction on every turn.
func (p *Provider) NewConversation(ctx context.Context, systemInstruction string) (llm.Conversation, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       p.temperature,
	}

	chat, err := p.client.Chats.Create(ctx, p.model, config, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	return llm.Synchronized(&conversation{
		id:     uuid.NewString(),
		chat:   chat,
		logger: p.logger,
	}), nil
}

type conversation struct {
	id      string
	chat    *genai.Chat
	history []llm.Turn
	logger  *zap.Logger
}

func (c *conversation) ID() string { return c.id }

func (c *conversation) Send(ctx context.Context, text string) (string, error) {
	res, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("send chat message: %w", err)
	}

	reply := responseText(res)
	if reply == "" {
		return "", llm.ErrEmptyResponse
	}

	c.history = append(c.history,
		llm.Turn{Role: llm.RoleUser, Text: text},
		llm.Turn{Role: llm.RoleModel, Text: reply},
	)
	c.logger.Debug("chat response", zap.String("conversation", c.id), zap.Int("length", len(reply)))
	return reply, nil
}

func (c *conversation) History() []llm.Turn {
	return append([]llm.Turn(nil), c.history...)
}

// responseText concatenates the text parts of the first candidate.
func responseText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}

	var builder strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		builder.WriteString(part.Text)
	}
	return strings.TrimSpace(builder.String())
}

func toGenaiSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:             toGenaiType(s.Type),
		Description:      s.Description,
		Enum:             append([]string(nil), s.Enum...),
		Required:         append([]string(nil), s.Required...),
		PropertyOrdering: append([]string(nil), s.Ordering...),
		Items:            toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func toGenaiType(t llm.Type) genai.Type {
	switch t {
	case llm.TypeArray:
		return genai.TypeArray
	case llm.TypeObject:
		return genai.TypeObject
	case llm.TypeString:
		return genai.TypeString
	case llm.TypeNumber:
		return genai.TypeNumber
	default:
		return genai.TypeUnspecified
	}
}
