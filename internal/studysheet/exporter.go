// Package studysheet exports the visible part of an analysis as markdown and PDF.
package studysheet

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/at-ishikawa/wordmemo/internal/assets"
	"github.com/at-ishikawa/wordmemo/internal/pdf"
	"github.com/at-ishikawa/wordmemo/internal/session"
)

// ErrNoResult is returned when there is no analysis to export.
var ErrNoResult = errors.New("no analysis to export")

type Exporter struct {
	outputDirectory string
	templatePath    string
	pdfOptions      pdf.Options
	now             func() time.Time
}

func NewExporter(outputDirectory, templatePath string) *Exporter {
	return &Exporter{
		outputDirectory: outputDirectory,
		templatePath:    templatePath,
		pdfOptions:      pdf.DefaultOptions,
		now:             time.Now,
	}
}

// Paths are the files written by one export. PDF is empty unless requested.
type Paths struct {
	Markdown string
	PDF      string
}

// Sheet converts a view into template data. Only visible words are included.
func Sheet(view session.View, generatedAt time.Time) (assets.StudySheet, error) {
	if view.Result == nil {
		return assets.StudySheet{}, ErrNoResult
	}

	words := make([]assets.StudySheetWord, 0, len(view.VisibleWords))
	for _, word := range view.VisibleWords {
		detail, ok := view.Result.Detail(word)
		if !ok {
			continue
		}
		words = append(words, assets.StudySheetWord{
			Detail: detail,
			Status: string(view.Statuses[word]),
		})
	}

	return assets.StudySheet{
		Prefix:              view.Result.Prefix,
		Model:               view.Result.Model,
		GeneratedAt:         generatedAt,
		Filters:             view.Criteria.Describe(),
		Progress:            view.Progress,
		MemoryStory:         view.Result.MemoryStory,
		MeaningGroups:       view.MeaningGroups,
		PronunciationGroups: view.PronunciationGroups,
		Words:               words,
	}, nil
}

// Export writes <prefix>.md into the output directory, and a PDF next to it
// when generatePDF is set.
func (exporter *Exporter) Export(view session.View, generatePDF bool) (Paths, error) {
	sheet, err := Sheet(view, exporter.now())
	if err != nil {
		return Paths{}, err
	}

	if err := os.MkdirAll(exporter.outputDirectory, 0755); err != nil {
		return Paths{}, fmt.Errorf("os.MkdirAll(%s) > %w", exporter.outputDirectory, err)
	}

	name := url.PathEscape(strings.ToLower(sheet.Prefix))
	markdownPath := filepath.Join(exporter.outputDirectory, name+".md")
	output, err := os.Create(markdownPath)
	if err != nil {
		return Paths{}, fmt.Errorf("os.Create(%s) > %w", markdownPath, err)
	}
	defer func() {
		_ = output.Close()
	}()

	if err := assets.WriteStudySheet(output, exporter.templatePath, sheet); err != nil {
		return Paths{}, fmt.Errorf("assets.WriteStudySheet(%s, %s) > %w", markdownPath, exporter.templatePath, err)
	}
	if err := output.Close(); err != nil {
		return Paths{}, fmt.Errorf("output.Close() > %w", err)
	}

	paths := Paths{Markdown: markdownPath}
	if generatePDF {
		pdfPath, err := pdf.ConvertMarkdownToPDF(markdownPath, exporter.pdfOptions)
		if err != nil {
			return paths, fmt.Errorf("pdf.ConvertMarkdownToPDF(%s) > %w", markdownPath, err)
		}
		paths.PDF = pdfPath
	}
	return paths, nil
}
