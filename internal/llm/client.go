// Package llm provides an OpenAI-compatible chat client used for project briefs.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nekoweb3/alphabot/internal/models"
	"github.com/nekoweb3/alphabot/internal/scoring"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DashScope OpenAI-compatible endpoint
	DefaultEndpoint = "https://dashscope-intl.aliyuncs.com/compatible-mode/v1"

	// Default model
	ModelQwenTurbo = "qwen-turbo"
)

// Client wraps the OpenAI SDK.
type Client struct {
	client *openai.Client
	model  string
}

// Config holds the configuration for the client.
type Config struct {
	APIKey   string
	Endpoint string
	Model    string
}

// NewClient creates a new client.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = ModelQwenTurbo
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.Endpoint

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}
}

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
	JSONMode     bool
}

// Chat sends a chat completion request and returns the first choice.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	messages := []openai.ChatCompletionMessage{}

	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
	}

	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}

	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	log.Debug().
		Str("model", c.model).
		Int("messages", len(messages)).
		Bool("json_mode", req.JSONMode).
		Msg("Sending chat request")

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	log.Debug().
		Int("total_tokens", resp.Usage.TotalTokens).
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Msg("Chat request completed")
	return resp.Choices[0].Message.Content, nil
}

// ChatJSON sends a chat request and parses the response as JSON.
func (c *Client) ChatJSON(ctx context.Context, req ChatRequest, result interface{}) error {
	req.JSONMode = true

	content, err := c.Chat(ctx, req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(content), result); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return nil
}

// Brief is the structured answer behind an insight.
type Brief struct {
	Summary   string   `json:"summary"`
	RedFlags  []string `json:"red_flags"`
	Watch     string   `json:"what_to_watch"`
	Sentiment string   `json:"sentiment"`
}

// String renders the brief as plain chat text.
func (b Brief) String() string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(b.Summary))
	if len(b.RedFlags) > 0 {
		sb.WriteString("\n\nRed flags:")
		for _, f := range b.RedFlags {
			sb.WriteString("\n- " + strings.TrimSpace(f))
		}
	}
	if b.Watch != "" {
		sb.WriteString("\n\nWatch: " + strings.TrimSpace(b.Watch))
	}
	if b.Sentiment != "" {
		sb.WriteString("\nSentiment: " + b.Sentiment)
	}
	return sb.String()
}

const systemPrompt = `You are a cautious on-chain analyst writing for a private Telegram channel.

RULES:
1. Use only the data given. Never invent partnerships, audits or team details.
2. Short, direct sentences with exact numbers.
3. Call out thin liquidity, fresh pairs and missing socials plainly.
4. No financial advice and no price targets.

Respond ONLY with valid JSON.`

// Insight asks the model for a short brief on p.
func (c *Client) Insight(ctx context.Context, p models.Project) (string, error) {
	age := fmt.Sprintf("%.0fh", p.PairAgeHours)
	if p.AgeUnknown {
		age = "unknown"
	}

	userPrompt := fmt.Sprintf(`Write a brief on this newly listed token.

Name: %s (%s)
Chain: %s
Category: %s
Pair age: %s
Liquidity: $%s
24h volume: $%s
Market cap: $%s
Risk tier: %s (%s)
AlphaScore: %d/100
Telegram: %t, Twitter: %t, Website: %t

Generate JSON:
{
  "summary": "2-3 sentences on what the numbers say",
  "red_flags": ["0-3 short items"],
  "what_to_watch": "1 sentence",
  "sentiment": "bullish|bearish|neutral"
}`,
		p.Name, p.Symbol, p.Chain, p.Category, age,
		formatVolume(p.Liquidity), formatVolume(p.Volume24h), formatVolume(p.MarketCap),
		p.RiskScore, strings.Join(p.RiskReasons, ", "), scoring.Alpha(p),
		p.Telegram != "", p.Twitter != "", p.Website != "",
	)

	var brief Brief
	err := c.ChatJSON(ctx, ChatRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  0.3,
		MaxTokens:    400,
	}, &brief)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(brief.Summary) == "" {
		return "", fmt.Errorf("empty brief for %s", p.Name)
	}
	return brief.String(), nil
}

func formatVolume(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
