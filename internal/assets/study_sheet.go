// Package assets renders printable documents from embedded templates.
package assets

import (
	_ "embed"
	"fmt"
	"io"
	"time"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/statistics"
)

const studySheetTemplateName = "study-sheet.md.go.tmpl"

//go:embed templates/study-sheet.md.go.tmpl
var fallbackStudySheetTemplate string

// StudySheet is the data of one exported analysis.
type StudySheet struct {
	Prefix              string
	Model               string
	GeneratedAt         time.Time
	Filters             []string
	Progress            statistics.Progress
	MemoryStory         analysis.Bilingual
	MeaningGroups       []analysis.MeaningGroup
	PronunciationGroups []analysis.PronunciationGroup
	Words               []StudySheetWord
}

type StudySheetWord struct {
	Detail analysis.WordDetail
	Status string
}

func WriteStudySheet(output io.Writer, templatePath string, sheet StudySheet) error {
	tmpl, err := parseTemplateWithFallback(templatePath, studySheetTemplateName, fallbackStudySheetTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, sheet); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
