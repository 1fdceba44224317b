// Package pdf converts exported markdown documents to PDF.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

// Options controls the page layout of a converted document.
type Options struct {
	Orientation string
	PageSize    string
	Dark        bool
}

// DefaultOptions is an A4 portrait page with the light theme.
var DefaultOptions = Options{
	Orientation: "P",
	PageSize:    "A4",
}

// ConvertMarkdownToPDF writes a PDF next to markdownPath and returns its absolute path.
func ConvertMarkdownToPDF(markdownPath string, options Options) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	if options.Orientation == "" {
		options.Orientation = DefaultOptions.Orientation
	}
	if options.PageSize == "" {
		options.PageSize = DefaultOptions.PageSize
	}
	theme := mdtopdf.LIGHT
	if options.Dark {
		theme = mdtopdf.DARK
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"
	renderer := mdtopdf.NewPdfRenderer(options.Orientation, options.PageSize, pdfPath, "", nil, theme)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
