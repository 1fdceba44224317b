package studysheet

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/filter"
	"github.com/at-ishikawa/wordmemo/internal/learning"
	"github.com/at-ishikawa/wordmemo/internal/session"
	"github.com/at-ishikawa/wordmemo/internal/testutil"
	"github.com/at-ishikawa/wordmemo/internal/vocabulary"
)

type fixtureAnalyzer struct{}

func (fixtureAnalyzer) Analyze(_ context.Context, words []string, prefix string) (*analysis.Result, error) {
	return analysis.Parse([]byte(testutil.AnalysisJSON), words, prefix)
}

func newAnalyzedSession(t *testing.T) *session.Session {
	t.Helper()
	store := learning.NewStore(learning.NewMemoryBackend(learning.StatusMap{"back": learning.StatusMastered}))
	store.Load(context.Background())

	sess := session.New(vocabulary.New([]string{"apple", "back", "bad", "bag"}), fixtureAnalyzer{}, store)
	_, err := sess.SubmitPrefix(context.Background(), "ba")
	require.NoError(t, err)
	return sess
}

func TestSheet(t *testing.T) {
	t.Run("no result", func(t *testing.T) {
		_, err := Sheet(session.View{}, time.Now())
		assert.ErrorIs(t, err, ErrNoResult)
	})

	t.Run("only visible words", func(t *testing.T) {
		sess := newAnalyzedSession(t)
		_, err := sess.UpdateFilter(filter.KindPartOfSpeech, "noun")
		require.NoError(t, err)

		generatedAt := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
		sheet, err := Sheet(sess.View(), generatedAt)
		require.NoError(t, err)

		assert.Equal(t, "ba", sheet.Prefix)
		assert.Equal(t, generatedAt, sheet.GeneratedAt)
		assert.Equal(t, []string{"pos=noun"}, sheet.Filters)
		require.Len(t, sheet.Words, 2)
		assert.Equal(t, "back", sheet.Words[0].Detail.Word)
		assert.Equal(t, "Mastered", sheet.Words[0].Status)
		assert.Equal(t, "bag", sheet.Words[1].Detail.Word)
		assert.Equal(t, "Not Started", sheet.Words[1].Status)
		assert.Equal(t, 3, sheet.Progress.Total)
	})
}

func TestExporter_Export(t *testing.T) {
	sess := newAnalyzedSession(t)
	dir := filepath.Join(t.TempDir(), "study_sheets")

	exporter := NewExporter(dir, "")
	exporter.now = func() time.Time {
		return time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	}

	paths, err := exporter.Export(sess.View(), false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ba.md"), paths.Markdown)
	assert.Empty(t, paths.PDF)

	content, err := os.ReadFile(paths.Markdown)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# ba study sheet")
	assert.Contains(t, string(content), "Generated 2026-10-17 08:00")
	assert.Contains(t, string(content), "### bad (adjective)")

	_, err = exporter.Export(session.View{}, false)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestExporter_ExportPDF(t *testing.T) {
	sess := newAnalyzedSession(t)
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "plain.md.go.tmpl")
	testutil.WriteFile(t, templatePath, "# {{ .Prefix }}\n{{ range .Words }}\n- {{ .Detail.Word }}: {{ .Detail.EnglishDefinition }}{{ end }}\n")

	paths, err := NewExporter(dir, templatePath).Export(sess.View(), true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ba.pdf"), paths.PDF)

	info, err := os.Stat(paths.PDF)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
