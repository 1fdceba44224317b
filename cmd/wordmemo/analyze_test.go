package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/wordmemo/internal/testutil"
)

func init() {
	color.NoColor = true
}

func TestNewAnalyzeCommand(t *testing.T) {
	cmd := newAnalyzeCommand()
	assert.Equal(t, "analyze <prefix>", cmd.Use)

	retriesFlag := cmd.Flags().Lookup("retries")
	require.NotNil(t, retriesFlag)
	assert.Equal(t, "-1", retriesFlag.DefValue)
	for _, name := range []string{"pos", "length", "min-length", "max-length", "status", "refresh", "export-markdown", "export-pdf", "json"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestAnalyzeCommand_FromCache(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantOutput []string
		wantErr    string
	}{
		{
			name:       "all words",
			args:       []string{"analyze", "ba"},
			wantOutput: []string{"Prefix: ba", "(cache)", "Words (3/3)", "The bad dog ran back with my bag."},
		},
		{
			name:       "part of speech filter",
			args:       []string{"analyze", "BA", "--pos", "noun"},
			wantOutput: []string{"Filters: pos=noun", "Words (2/3)"},
		},
		{
			name:       "length filter",
			args:       []string{"analyze", "ba", "--max-length", "3"},
			wantOutput: []string{"Filters: length=0-3", "Words (2/3)"},
		},
		{
			name:    "invalid length range",
			args:    []string{"analyze", "ba", "--length", "5-2"},
			wantErr: `invalid argument "5-2" for "--length" flag`,
		},
		{
			name:    "conflicting length bounds",
			args:    []string{"analyze", "ba", "--min-length", "9", "--max-length", "2"},
			wantErr: "invalid --max-length filter",
		},
		{
			name:    "no matching words",
			args:    []string{"analyze", "zz"},
			wantErr: `No words found starting with "zz".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfgPath := setupTestConfigFile(t, tmpDir)
			testutil.WriteCachedAnalysis(t, filepath.Join(tmpDir, "cache"), "ba")

			got, err := executeCommand(t, cfgPath, "", tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantOutput {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestAnalyzeCommand_JSONAndExport(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := setupTestConfigFile(t, tmpDir)
	testutil.WriteCachedAnalysis(t, filepath.Join(tmpDir, "cache"), "ba")

	got, err := executeCommand(t, cfgPath, "", "analyze", "ba", "--json", "--status", "not-started", "--export-markdown")
	require.NoError(t, err)

	var view struct {
		VisibleWords []string `json:"visibleWords"`
		Progress     struct {
			Total int `json:"total"`
		} `json:"progress"`
	}
	require.NoError(t, json.Unmarshal([]byte(got), &view))
	assert.Equal(t, testutil.AnalysisWords, view.VisibleWords)
	assert.Equal(t, 3, view.Progress.Total)

	content, err := os.ReadFile(filepath.Join(tmpDir, "outputs", "ba.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Filters: status=Not Started")
}

func TestAnalyzeCommand_InvalidFilterSkipsAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown status",
			args:    []string{"--status", "bogus"},
			wantErr: `invalid argument "bogus" for "--status" flag`,
		},
		{
			name:    "broken length",
			args:    []string{"--length", "a-b"},
			wantErr: `invalid argument "a-b" for "--length" flag`,
		},
		{
			name:    "broken minimum",
			args:    []string{"--min-length", "x"},
			wantErr: "invalid --min-length filter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			tmpDir := t.TempDir()
			cfgPath := setupTestConfigFile(t, tmpDir)
			content, err := os.ReadFile(cfgPath)
			require.NoError(t, err)
			content = []byte(strings.Replace(string(content), "  model: gpt-4o-mini\n", "  model: gpt-4o-mini\n  base_url: "+server.URL+"\n", 1))
			require.NoError(t, os.WriteFile(cfgPath, content, 0644))

			_, err = executeCommand(t, cfgPath, "", append([]string{"analyze", "ba"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, int32(0), requests.Load())
		})
	}
}

func TestStatusFlag_Set(t *testing.T) {
	var flag StatusFlag
	require.NoError(t, flag.Set("not-started"))
	assert.Equal(t, "Not Started", flag.String())
	require.NoError(t, flag.Set("ALL"))
	assert.Equal(t, "all", flag.String())
	assert.Error(t, flag.Set("bogus"))
	assert.Equal(t, "all", flag.String())
}

func TestLengthFlag_Set(t *testing.T) {
	var flag LengthFlag
	require.NoError(t, flag.Set(" 3-5 "))
	assert.Equal(t, "3-5", flag.String())
	assert.Error(t, flag.Set("5-2"))
	assert.Error(t, flag.Set("x"))
	assert.Equal(t, "3-5", flag.String())
}

func TestAnalyzeCommand_MissingAPIKey(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := setupTestConfigFile(t, tmpDir)
	t.Setenv("WORDMEMO_AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := executeCommand(t, cfgPath, "", "analyze", "ba")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestInteractiveCommand(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := setupTestConfigFile(t, tmpDir)
	testutil.WriteCachedAnalysis(t, filepath.Join(tmpDir, "cache"), "ba")

	got, err := executeCommand(t, cfgPath, "ba\nstatus bad mastered\nquit\n", "interactive")
	require.NoError(t, err)
	assert.Contains(t, got, "Prefix: ba")
	assert.Contains(t, got, "bad: Mastered")

	got, err = executeCommand(t, cfgPath, "", "status", "get", "bad")
	require.NoError(t, err)
	assert.Equal(t, "Mastered\n", got)
}
