package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/inference"
	"github.com/at-ishikawa/wordmemo/internal/testutil"
)

func messageResponse(text, stopReason string) string {
	content, _ := json.Marshal(text)
	return `{"id":"msg_01","type":"message","role":"assistant","model":"claude-test",` +
		`"content":[{"type":"text","text":` + string(content) + `}],` +
		`"stop_reason":"` + stopReason + `","stop_sequence":null,` +
		`"usage":{"input_tokens":10,"output_tokens":20}}`
}

func TestClient_AnalyzeWords(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		want            inference.AnalyzeWordsResponse
		wantErrorString string
	}{
		{
			name:   "returns text content",
			status: http.StatusOK,
			body:   messageResponse(`{"memoryStory":{}}`, "end_turn"),
			want: inference.AnalyzeWordsResponse{
				Content: `{"memoryStory":{}}`,
				Model:   "claude-test",
			},
		},
		{
			name:   "keeps a code fence for the parser to reject",
			status: http.StatusOK,
			body:   messageResponse("```json\n{\"memoryStory\":{}}\n```", "end_turn"),
			want: inference.AnalyzeWordsResponse{
				Content: "```json\n{\"memoryStory\":{}}\n```",
				Model:   "claude-test",
			},
		},
		{
			name:            "truncated reply",
			status:          http.StatusOK,
			body:            messageResponse(`{"memoryStory":`, "max_tokens"),
			wantErrorString: "truncated",
		},
		{
			name:            "overloaded is not retried",
			status:          http.StatusServiceUnavailable,
			body:            `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`,
			wantErrorString: "Messages.New",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				assert.Equal(t, "/v1/messages", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

				var request map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
				assert.Equal(t, "claude-test", request["model"])
				assert.Equal(t, float64(4096), request["max_tokens"])

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient("test-key", "claude-test", server.URL, 4096)
			got, err := client.AnalyzeWords(context.Background(), inference.AnalyzeWordsRequest{
				Prefix: "ba",
				Words:  []string{"back", "bad"},
			})
			assert.Equal(t, int32(1), calls.Load())
			if tt.wantErrorString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrorString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	got := buildPrompt(inference.AnalyzeWordsRequest{Prefix: "ba", Words: []string{"back"}})

	assert.Contains(t, got, `start with "ba": back.`)
	assert.Contains(t, got, `"additionalProperties": false`)
}

func TestClient_AnalyzeWords_FencedReplyFailsAnalysis(t *testing.T) {
	fenced := "```json\n" + testutil.AnalysisJSON + "\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(messageResponse(fenced, "end_turn")))
	}))
	defer server.Close()

	analyzer := analysis.NewAnalyzer(NewClient("test-key", "claude-test", server.URL, 4096))
	result, err := analyzer.Analyze(context.Background(), testutil.AnalysisWords, "ba")

	require.Error(t, err)
	assert.Nil(t, result)
	var aiErr *analysis.AIResponseError
	assert.ErrorAs(t, err, &aiErr)
}
