package statistics

import (
	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/learning"
)

// Progress counts the words of one analysis by learning status.
type Progress struct {
	Mastered   int `json:"mastered"`
	Learning   int `json:"learning"`
	NotStarted int `json:"notStarted"`
	Total      int `json:"total"`
}

// Summarize places every word detail entry in exactly one bucket, so a word
// listed twice counts twice. Filter criteria do not affect the counts.
func Summarize(result *analysis.Result, statuses learning.StatusMap) Progress {
	var progress Progress
	if result == nil {
		return progress
	}
	for _, detail := range result.WordDetails {
		switch statuses.Get(detail.Word) {
		case learning.StatusMastered:
			progress.Mastered++
		case learning.StatusLearning:
			progress.Learning++
		default:
			progress.NotStarted++
		}
		progress.Total++
	}
	return progress
}

// Percent is the mastered share of the total, 0 when there are no words.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Mastered) * 100 / float64(p.Total)
}
