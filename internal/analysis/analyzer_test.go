package analysis_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/inference"
	mock_inference "github.com/at-ishikawa/wordmemo/internal/mocks/inference"
	"github.com/at-ishikawa/wordmemo/internal/testutil"
)

func TestAnalyzer_Analyze(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(client *mock_inference.MockClient)
		wantErr   bool
	}{
		{
			name: "valid response",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().AnalyzeWords(gomock.Any(), inference.AnalyzeWordsRequest{
					Prefix: "ba",
					Words:  testutil.AnalysisWords,
				}).Return(inference.AnalyzeWordsResponse{Content: testutil.AnalysisJSON, Model: "gpt-4o"}, nil)
			},
		},
		{
			name: "transport failure",
			setupMock: func(client *mock_inference.MockClient) {
				client.EXPECT().AnalyzeWords(gomock.Any(), gomock.Any()).
					Return(inference.AnalyzeWordsResponse{}, errors.New("response error 401"))
			},
			wantErr: true,
		},
		{
			name: "missing grammar",
			setupMock: func(client *mock_inference.MockClient) {
				content := mutateFixture(t, func(document map[string]any) {
					delete(firstDetail(document), "grammar")
				})
				client.EXPECT().AnalyzeWords(gomock.Any(), gomock.Any()).
					Return(inference.AnalyzeWordsResponse{Content: string(content)}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			tt.setupMock(client)

			result, err := analysis.NewAnalyzer(client).Analyze(context.Background(), testutil.AnalysisWords, "ba")
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, result)
				var aiErr *analysis.AIResponseError
				require.ErrorAs(t, err, &aiErr)
				assert.Equal(t, "ba", aiErr.Prefix)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "gpt-4o", result.Model)
			assert.Equal(t, 3, result.Len())
		})
	}
}

func TestAnalyzer_AnalyzeWithoutWords(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_inference.NewMockClient(ctrl)

	_, err := analysis.NewAnalyzer(client).Analyze(context.Background(), nil, "zz")
	assert.Error(t, err)
}

func TestAnalyzer_Cache(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	cache := analysis.NewFileCache(cacheDir)

	t.Run("fresh result is written to the cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mock_inference.NewMockClient(ctrl)
		client.EXPECT().AnalyzeWords(gomock.Any(), gomock.Any()).
			Return(inference.AnalyzeWordsResponse{Content: testutil.AnalysisJSON}, nil).Times(1)

		_, err := analysis.NewAnalyzer(client, analysis.WithCache(cache)).Analyze(context.Background(), testutil.AnalysisWords, "BA")
		require.NoError(t, err)

		content, ok, err := cache.Read("ba")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, testutil.AnalysisJSON, string(content))
	})

	t.Run("cached result skips the request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mock_inference.NewMockClient(ctrl)

		result, err := analysis.NewAnalyzer(client, analysis.WithCache(cache)).Analyze(context.Background(), testutil.AnalysisWords, "ba")
		require.NoError(t, err)
		assert.Equal(t, "cache", result.Model)
	})

	t.Run("refresh bypasses the cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mock_inference.NewMockClient(ctrl)
		client.EXPECT().AnalyzeWords(gomock.Any(), gomock.Any()).
			Return(inference.AnalyzeWordsResponse{Content: testutil.AnalysisJSON, Model: "gpt-4o"}, nil)

		result, err := analysis.NewAnalyzer(client, analysis.WithCache(cache), analysis.WithRefresh(true)).
			Analyze(context.Background(), testutil.AnalysisWords, "ba")
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", result.Model)
	})

	t.Run("cached entry for other words is refetched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mock_inference.NewMockClient(ctrl)
		client.EXPECT().AnalyzeWords(gomock.Any(), gomock.Any()).
			Return(inference.AnalyzeWordsResponse{}, errors.New("quota exceeded"))

		_, err := analysis.NewAnalyzer(client, analysis.WithCache(cache)).
			Analyze(context.Background(), []string{"bake"}, "ba")
		var aiErr *analysis.AIResponseError
		assert.ErrorAs(t, err, &aiErr)

		_, ok, err := cache.Read("ba")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFileCache(t *testing.T) {
	cache := analysis.NewFileCache(filepath.Join(t.TempDir(), "cache"))

	_, ok, err := cache.Read("ba")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Write("a/b", []byte("{}")))
	content, ok, err := cache.Read("A/B")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{}", string(content))

	require.NoError(t, cache.Delete("a/b"))
	require.NoError(t, cache.Delete("a/b"))
	_, ok, err = cache.Read("a/b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAIResponseError(t *testing.T) {
	cause := errors.New("timeout")
	err := &analysis.AIResponseError{Prefix: "ba", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `AI analysis for prefix "ba" failed: timeout`, err.Error())
}
