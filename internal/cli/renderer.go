package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/learning"
	"github.com/at-ishikawa/wordmemo/internal/session"
	"github.com/at-ishikawa/wordmemo/internal/statistics"
)

// Renderer prints session views as colored terminal text.
type Renderer struct {
	output io.Writer
	bold   *color.Color
	italic *color.Color
	faint  *color.Color
	green  *color.Color
	yellow *color.Color
	red    *color.Color
}

func NewRenderer(output io.Writer) *Renderer {
	return &Renderer{
		output: output,
		bold:   color.New(color.Bold),
		italic: color.New(color.Italic),
		faint:  color.New(color.Faint),
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
	}
}

func (r *Renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.output, format, args...)
}

func (r *Renderer) statusColor(status learning.LearningStatus) *color.Color {
	switch status {
	case learning.StatusMastered:
		return r.green
	case learning.StatusLearning:
		return r.yellow
	default:
		return r.faint
	}
}

// Error prints a user-facing message.
func (r *Renderer) Error(message string) {
	r.printf("❌ %s\n", r.red.Sprint(message))
}

func (r *Renderer) Info(format string, args ...any) {
	r.printf(format+"\n", args...)
}

// View prints the whole analysis as filtered by the view.
func (r *Renderer) View(view session.View) {
	if view.Loading {
		r.Info("Analyzing...")
	}
	if view.Error != "" {
		r.Error(view.Error)
	}
	if view.Result == nil {
		return
	}

	result := view.Result
	r.printf("%s %s\n", r.bold.Sprintf("Prefix: %s", result.Prefix), r.faint.Sprintf("(%s)", result.Model))
	r.Progress(view.Progress)
	if filters := view.Criteria.Describe(); len(filters) > 0 {
		r.printf("Filters: %s\n", strings.Join(filters, ", "))
	}

	r.printf("\n%s\n", r.bold.Sprint("Memory story"))
	r.printf("  %s\n  %s\n", result.MemoryStory.English, r.italic.Sprint(result.MemoryStory.Chinese))

	if len(view.MeaningGroups) > 0 {
		r.printf("\n%s\n", r.bold.Sprint("Groups by meaning"))
		for _, group := range view.MeaningGroups {
			r.printf("  %s / %s: %s\n", group.GroupName.English, group.GroupName.Chinese, strings.Join(group.Words, ", "))
		}
	}
	if len(view.PronunciationGroups) > 0 {
		r.printf("\n%s\n", r.bold.Sprint("Groups by pronunciation"))
		for _, group := range view.PronunciationGroups {
			r.printf("  %s %s: %s\n", group.IPA, r.faint.Sprint(group.SoundDescription), strings.Join(group.Words, ", "))
		}
	}

	r.printf("\n%s\n", r.bold.Sprintf("Words (%d/%d)", len(view.VisibleWords), result.Len()))
	if len(view.VisibleWords) == 0 {
		r.Info("  No words match the current filters.")
		return
	}
	for _, word := range view.VisibleWords {
		detail, ok := result.Detail(word)
		if !ok {
			continue
		}
		r.printf("  %s %s %s  %s\n",
			r.bold.Sprint(detail.Word),
			r.faint.Sprintf("[%s]", detail.Grammar.PartOfSpeech),
			r.statusColor(view.Statuses[word]).Sprintf("(%s)", view.Statuses[word]),
			detail.ChineseTranslation,
		)
	}
}

// Word prints every field of one word card.
func (r *Renderer) Word(detail analysis.WordDetail, status learning.LearningStatus) {
	r.printf("%s %s %s\n",
		r.bold.Sprint(detail.Word),
		r.faint.Sprintf("[%s]", detail.Grammar.PartOfSpeech),
		r.statusColor(status).Sprintf("(%s)", status),
	)
	r.printf("  %s\n  %s\n", detail.EnglishDefinition, r.italic.Sprint(detail.ChineseTranslation))

	if len(detail.UsageExamples) > 0 {
		r.printf("  Examples:\n")
		for i, example := range detail.UsageExamples {
			r.printf("    %d. %s %s\n", i+1, example.English, r.italic.Sprint(example.Chinese))
		}
	}
	if len(detail.Grammar.Forms) > 0 {
		forms := make([]string, 0, len(detail.Grammar.Forms))
		for _, form := range detail.Grammar.Forms {
			forms = append(forms, form.FormName+" "+form.Value)
		}
		r.printf("  Forms: %s\n", strings.Join(forms, ", "))
	}
	if len(detail.Derivatives) > 0 {
		r.printf("  Derivatives: %s\n", joinRelated(detail.Derivatives))
	}
	if len(detail.VowelSwaps) > 0 {
		r.printf("  Vowel swaps: %s\n", joinRelated(detail.VowelSwaps))
	}
}

func joinRelated(words []analysis.RelatedWord) string {
	values := make([]string, 0, len(words))
	for _, word := range words {
		values = append(values, word.Word+" "+word.ChineseTranslation)
	}
	return strings.Join(values, ", ")
}

func (r *Renderer) Progress(progress statistics.Progress) {
	r.printf("Progress: %s, %s, %s (%d total, %.0f%% mastered)\n",
		r.green.Sprintf("%d mastered", progress.Mastered),
		r.yellow.Sprintf("%d learning", progress.Learning),
		r.faint.Sprintf("%d not started", progress.NotStarted),
		progress.Total,
		progress.Percent(),
	)
}

// Statuses prints the statuses of words in the given order.
func (r *Renderer) Statuses(words []string, statuses learning.StatusMap) {
	if len(words) == 0 {
		r.Info("No learning statuses recorded.")
		return
	}
	for _, word := range words {
		status := statuses.Get(word)
		r.printf("  %s: %s\n", word, r.statusColor(status).Sprint(status))
	}
}
