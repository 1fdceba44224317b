package openai

import (
	"context"
	"fmt"
	"log/slog"

	"resty.dev/v3"

	"github.com/at-ishikawa/wordmemo/internal/inference"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	httpClient *resty.Client
	model      string
}

func NewClient(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetRetryCount(0)

	return &Client{
		httpClient: client,
		model:      model,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

type JSONSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Refusal string `json:"refusal,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (client *Client) getRequestBody(args inference.AnalyzeWordsRequest) ChatCompletionRequest {
	return ChatCompletionRequest{
		Model: client.model,
		Messages: []Message{
			{
				Role:    RoleUser,
				Content: inference.BuildAnalyzeWordsPrompt(args),
			},
		},
		ResponseFormat: &ResponseFormat{
			Type: "json_schema",
			JSONSchema: &JSONSchema{
				Name:   "word_analysis",
				Strict: true,
				Schema: inference.AnalysisSchema().JSONSchema(),
			},
		},
	}
}

// AnalyzeWords implements the inference.Client interface
func (client *Client) AnalyzeWords(
	ctx context.Context,
	args inference.AnalyzeWordsRequest,
) (inference.AnalyzeWordsResponse, error) {
	if len(args.Words) == 0 {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("no words to analyze")
	}

	requestBody := client.getRequestBody(args)
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("empty response body or choices: %s", response.String())
	}

	message := responseBody.Choices[0].Message
	if message.Refusal != "" {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("model refused: %s", message.Refusal)
	}
	if message.Content == "" {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai response content",
		"prefix", args.Prefix,
		"wordCount", len(args.Words),
		"model", responseBody.Model,
		"usage", responseBody.Usage,
	)

	model := responseBody.Model
	if model == "" {
		model = client.model
	}
	return inference.AnalyzeWordsResponse{
		Content: message.Content,
		Model:   model,
	}, nil
}
