package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertMarkdownToPDF(t *testing.T) {
	writeMarkdown := func(t *testing.T) string {
		mdPath := filepath.Join(t.TempDir(), "ba.md")
		content := "# ba study sheet\n\n## Words\n\n### back (noun)\n\n- My back hurts.\n"
		require.NoError(t, os.WriteFile(mdPath, []byte(content), 0644))
		return mdPath
	}

	tests := []struct {
		name         string
		markdownPath func(t *testing.T) string
		options      Options
		wantErrMsg   string
	}{
		{
			name:         "invalid extension",
			markdownPath: func(t *testing.T) string { return "ba.txt" },
			wantErrMsg:   "input file must have .md extension",
		},
		{
			name:         "file not found",
			markdownPath: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.md") },
			wantErrMsg:   "os.ReadFile",
		},
		{
			name:         "default options",
			markdownPath: writeMarkdown,
		},
		{
			name:         "dark landscape letter",
			markdownPath: writeMarkdown,
			options:      Options{Orientation: "L", PageSize: "Letter", Dark: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mdPath := tt.markdownPath(t)

			pdfPath, err := ConvertMarkdownToPDF(mdPath, tt.options)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(pdfPath))
			assert.Equal(t, ".pdf", filepath.Ext(pdfPath))

			info, err := os.Stat(pdfPath)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}
