package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/at-ishikawa/wordmemo/internal/inference"
)

const defaultMaxTokens = 16384

type Client struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewClient creates a Messages API client with SDK retries disabled.
func NewClient(apiKey, model, baseURL string, maxTokens int64) *Client {
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		client:    anthropic.NewClient(options...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (client *Client) GetModel() string {
	return client.model
}

func buildPrompt(args inference.AnalyzeWordsRequest) string {
	return inference.BuildAnalyzeWordsPrompt(args) + `
The JSON object must match this JSON Schema exactly:
` + inference.AnalysisSchema().String() + `
Output ONLY the JSON, no markdown, no explanations.`
}

// AnalyzeWords implements the inference.Client interface
func (client *Client) AnalyzeWords(
	ctx context.Context,
	args inference.AnalyzeWordsRequest,
) (inference.AnalyzeWordsResponse, error) {
	if len(args.Words) == 0 {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("no words to analyze")
	}

	msg, err := client.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(client.model),
		MaxTokens: client.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(args))),
		},
	})
	if err != nil {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("client.Messages.New > %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("empty response for prefix %q", args.Prefix)
	}
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("response truncated at %d tokens", client.maxTokens)
	}
	slog.Default().Debug("anthropic response content",
		"prefix", args.Prefix,
		"wordCount", len(args.Words),
		"stopReason", msg.StopReason,
		"outputTokens", msg.Usage.OutputTokens,
	)

	model := string(msg.Model)
	if model == "" {
		model = client.model
	}
	return inference.AnalyzeWordsResponse{
		Content: text.String(),
		Model:   model,
	}, nil
}
