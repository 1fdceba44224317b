package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client sends one word-analysis request to a generative AI backend.
// Implementations make a single attempt and never retry internally.
type Client interface {
	AnalyzeWords(ctx context.Context, params AnalyzeWordsRequest) (AnalyzeWordsResponse, error)
}

// AnalyzeWordsRequest holds the matched words and the prefix they share
type AnalyzeWordsRequest struct {
	Prefix string   `json:"prefix"`
	Words  []string `json:"words"`
}

// AnalyzeWordsResponse carries the raw JSON text returned by the model.
// Decoding and validation belong to the caller.
type AnalyzeWordsResponse struct {
	Content string
	Model   string
}
