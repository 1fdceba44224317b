package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/wordmemo/internal/testutil"
)

// setupTestConfigFile writes a config whose vocabulary is limited to the
// words of testutil.AnalysisJSON plus one unrelated word.
func setupTestConfigFile(t *testing.T, tmpDir string) string {
	t.Helper()
	for _, env := range []string{"OPENAI_API_KEY", "OPENAI_MODEL", "WORDMEMO_AI_PROVIDER"} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}

	cfgPath := testutil.SetupTestConfigWithAPIKey(t, tmpDir)
	vocabularyPath := filepath.Join(tmpDir, "words.txt")
	testutil.WriteFile(t, vocabularyPath, "apple\n"+strings.Join(testutil.AnalysisWords, "\n")+"\n")

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte("vocabulary:\n  file: "+vocabularyPath+"\n")...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, cfgPath, stdin string, args ...string) (string, error) {
	t.Helper()
	oldConfigFile := configFile
	t.Cleanup(func() { configFile = oldConfigFile })

	cmd := newRootCommand()
	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}
