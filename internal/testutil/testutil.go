// Package testutil provides shared test helpers for config files and AI response fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// AnalysisWords are the words analyzed in AnalysisJSON, in vocabulary order.
var AnalysisWords = []string{"back", "bad", "bag"}

// AnalysisJSON is a schema-conforming AI response for the prefix "ba".
const AnalysisJSON = `{
  "memoryStory": {
    "english": "The bad dog ran back with my bag.",
    "chinese": "那只坏狗叼着我的包跑回来了。"
  },
  "groupsByMeaning": [
    {"groupName": {"english": "Things and places", "chinese": "物品与位置"}, "words": ["back", "bag"]},
    {"groupName": {"english": "Qualities", "chinese": "性质"}, "words": ["bad"]}
  ],
  "groupsByPronunciation": [
    {"soundDescription": "short 'a' sound like in 'cat'", "ipa": "/æ/", "words": ["back", "bad", "bag"]}
  ],
  "wordDetails": [
    {
      "word": "back",
      "englishDefinition": "the rear part of the body",
      "chineseTranslation": "背部",
      "usageExamples": [
        {"english": "My back hurts.", "chinese": "我的背疼。"},
        {"english": "She came back home.", "chinese": "她回家了。"}
      ],
      "derivatives": [{"word": "backward", "chineseTranslation": "向后的"}],
      "vowelSwaps": [{"word": "buck", "chineseTranslation": "雄鹿"}],
      "grammar": {"partOfSpeech": "noun", "forms": [{"formName": "Plural", "value": "backs"}]}
    },
    {
      "word": "bad",
      "englishDefinition": "not good",
      "chineseTranslation": "坏的",
      "usageExamples": [
        {"english": "That is a bad idea.", "chinese": "那是个坏主意。"},
        {"english": "The weather is bad today.", "chinese": "今天天气很糟。"}
      ],
      "derivatives": [{"word": "badly", "chineseTranslation": "糟糕地"}],
      "vowelSwaps": [{"word": "bed", "chineseTranslation": "床"}, {"word": "bid", "chineseTranslation": "出价"}],
      "grammar": {"partOfSpeech": "adjective", "forms": [{"formName": "Comparative", "value": "worse"}, {"formName": "Superlative", "value": "worst"}]}
    },
    {
      "word": "bag",
      "englishDefinition": "a container made of cloth or paper",
      "chineseTranslation": "包",
      "usageExamples": [
        {"english": "Put it in the bag.", "chinese": "把它放进包里。"},
        {"english": "I lost my bag.", "chinese": "我丢了包。"}
      ],
      "derivatives": [],
      "vowelSwaps": [{"word": "big", "chineseTranslation": "大的"}],
      "grammar": {"partOfSpeech": "noun", "forms": [{"formName": "Plural", "value": "bags"}]}
    }
  ]
}`

// SetupTestConfig writes a config file that keeps every path inside tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "outputs"), 0755))
	configContent := fmt.Sprintf(`ai:
  provider: openai
storage:
  backend: yaml
  status_file: %s
cache:
  directory: %s
outputs:
  study_sheet_directory: %s
`,
		filepath.Join(tmpDir, "statuses.yml"),
		filepath.Join(tmpDir, "cache"),
		filepath.Join(tmpDir, "outputs"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey adds a fake OpenAI API key to the generated config.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte("openai:\n  api_key: fake-key-for-testing\n  model: gpt-4o-mini\n")...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// WriteCachedAnalysis stores AnalysisJSON as the cached analysis of prefix.
func WriteCachedAnalysis(t *testing.T, cacheDir, prefix string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(cacheDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, prefix+".json"), []byte(AnalysisJSON), 0644))
}

// WriteFile creates path with content, including missing parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
