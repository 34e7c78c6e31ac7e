package planner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"listingchat/internal/models"
)

// ErrMissingAPIKey is surfaced verbatim to the client as the request-level
// configuration error.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is missing in .env")

const systemPrompt = `You are the query planner for a real-estate listings assistant.
Given the conversation, respond with ONLY a JSON object describing what the user wants:

{
  "intent": "list" | "count" | "detail" | "field" | "chat",
  "filters": [{"column": "<friendly field>", "operator": "eq|neq|contains|not_contains|gt|gte|lt|lte|exists|not_exists", "value": <string or number>}],
  "fields": ["<friendly field>", ...],
  "target": "index" | "address" | "last",
  "index": <N when the user says "#N" or "the Nth one">,
  "address": "<address text when the user names one>",
  "limit": <max results when the user asks for a specific number>,
  "count_only": <true when the user only wants a count>,
  "full_data": <true when the user asks for all details / full data>,
  "reply": "<your conversational answer, only for intent \"chat\">"
}

Friendly fields include: address, beds, baths, sqft, price, city, zip,
year built, days on market, school district, property type, status, remarks.
Use "detail" when the user asks about one listing, "field" when they ask for
specific attributes of one listing, "last" as target for pronouns like "it".
Respond with the JSON object and nothing else.`

// Client talks to an OpenAI-compatible chat-completions endpoint. One attempt
// per request, no retries; failures surface as request-level errors.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiKey, baseURL, model string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model          string        `json:"model"`
	Messages       []wireMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type wireResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Plan sends the accumulated conversation to the model and decodes its JSON
// reply into a normalized Plan.
func (c *Client) Plan(ctx context.Context, history []models.ChatMessage) (*Plan, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	req := wireRequest{Model: c.model, Temperature: 0}
	req.ResponseFormat.Type = "json_object"
	req.Messages = append(req.Messages, wireMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		req.Messages = append(req.Messages, wireMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal planner request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build planner request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("planner request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read planner response: %w", err)
	}

	var wire wireResponse
	decodeErr := json.Unmarshal(raw, &wire)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && wire.Error != nil && wire.Error.Message != "" {
			return nil, fmt.Errorf("planner upstream error: %s", wire.Error.Message)
		}
		return nil, fmt.Errorf("planner upstream error: status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode planner response: %w", decodeErr)
	}
	if len(wire.Choices) == 0 {
		return nil, errors.New("planner returned no choices")
	}

	content := strings.TrimSpace(wire.Choices[0].Message.Content)
	// Some models wrap the object in a markdown fence despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var plan Plan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("planner returned non-JSON output: %w", err)
	}
	plan.Normalize()

	c.logger.Debug("planner result",
		zap.String("intent", plan.Intent),
		zap.Int("filters", len(plan.Filters)),
		zap.Duration("latency", time.Since(start)))
	return &plan, nil
}
