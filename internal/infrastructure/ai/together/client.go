// Package together asks an OpenAI-compatible chat completions endpoint, Together
// by default, for per-100g nutrition facts
package together

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/macrotrack/api/internal/domain/nutrition"
	"github.com/macrotrack/api/internal/infrastructure/config"
)

const userPromptFormat = `Provide nutrition facts per 100g of %s in this JSON format: {"calories":0,"carbs":0,"protein":0,"fat":0,"fiber":0,"glycemic_index":null}`

// Client implements outbound.NutritionProvider over chat completions
type Client struct {
	apiKey       string
	baseURL      string
	model        string
	maxTokens    int
	temperature  float64
	systemPrompt string
	client       *http.Client
	logger       *zap.Logger
}

// NewClient creates a new chat completions client from the AI config
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		systemPrompt: cfg.SystemPrompt,
		client:       &http.Client{Timeout: cfg.Timeout},
		logger:       logger.Named("together"),
	}
}

// ChatCompletionRequest is the request body of /chat/completions
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// nutritionReply is the JSON shape the model is asked to answer with
type nutritionReply struct {
	Calories      float64  `json:"calories"`
	Carbs         float64  `json:"carbs"`
	Protein       float64  `json:"protein"`
	Fat           float64  `json:"fat"`
	Fiber         float64  `json:"fiber"`
	GlycemicIndex *float64 `json:"glycemic_index"`
}

// Name implements outbound.NutritionProvider
func (c *Client) Name() string { return "together" }

// Lookup asks the model for the food's facts. A reply without usable JSON
// yields nutrition.ErrUnparsableReply; transport and API errors are returned
// as they are.
func (c *Client) Lookup(ctx context.Context, food string) (nutrition.Facts, error) {
	content, err := c.complete(ctx, fmt.Sprintf(userPromptFormat, food))
	if err != nil {
		return nutrition.Facts{}, err
	}

	reply, err := parseReply(content)
	if err != nil {
		c.logger.Warn("Failed to parse nutrition reply", zap.String("food", food), zap.String("content", content))
		return nutrition.Facts{}, err
	}

	return nutrition.Facts{
		Food:          food,
		Calorie:       reply.Calories,
		Carb:          reply.Carbs,
		Protein:       reply.Protein,
		Fat:           reply.Fat,
		Fiber:         reply.Fiber,
		GlycemicIndex: reply.GlycemicIndex,
		Source:        nutrition.SourceLLM,
	}, nil
}

func (c *Client) complete(ctx context.Context, userPrompt string) (string, error) {
	reqBody := ChatCompletionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: c.systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, truncate(string(body), 256))
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	c.logger.Debug("Chat completion succeeded",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// parseReply pulls the outermost JSON object out of the model's answer
func parseReply(content string) (nutritionReply, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nutritionReply{}, nutrition.ErrUnparsableReply
	}

	var reply nutritionReply
	if err := json.Unmarshal([]byte(content[start:end+1]), &reply); err != nil {
		return nutritionReply{}, fmt.Errorf("%w: %v", nutrition.ErrUnparsableReply, err)
	}
	return reply, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
