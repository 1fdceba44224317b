package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/at-ishikawa/wordmemo/internal/inference"
)

type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini API client. baseURL is optional.
func NewClient(ctx context.Context, apiKey, model, baseURL string) (*Client, error) {
	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient > %w", err)
	}
	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (client *Client) GetModel() string {
	return client.model
}

func toGenaiSchema(schema *inference.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}
	out := &genai.Schema{
		Description: schema.Description,
		Required:    schema.Required,
	}
	switch schema.Type {
	case inference.TypeObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(schema.Properties))
		for name, property := range schema.Properties {
			out.Properties[name] = toGenaiSchema(property)
		}
	case inference.TypeArray:
		out.Type = genai.TypeArray
		out.Items = toGenaiSchema(schema.Items)
	default:
		out.Type = genai.TypeString
	}
	return out
}

// AnalyzeWords implements the inference.Client interface
func (client *Client) AnalyzeWords(
	ctx context.Context,
	args inference.AnalyzeWordsRequest,
) (inference.AnalyzeWordsResponse, error) {
	if len(args.Words) == 0 {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("no words to analyze")
	}

	resp, err := client.client.Models.GenerateContent(ctx,
		client.model,
		genai.Text(inference.BuildAnalyzeWordsPrompt(args)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   toGenaiSchema(inference.AnalysisSchema()),
		},
	)
	if err != nil {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("client.Models.GenerateContent > %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("content blocked by safety filters")
	}
	if candidate.Content == nil {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("empty content in response")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return inference.AnalyzeWordsResponse{}, fmt.Errorf("empty response text")
	}
	slog.Default().Debug("gemini response content",
		"prefix", args.Prefix,
		"wordCount", len(args.Words),
		"finishReason", candidate.FinishReason,
	)

	return inference.AnalyzeWordsResponse{
		Content: text.String(),
		Model:   client.model,
	}, nil
}
