package session

import (
	"errors"
	"fmt"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/vocabulary"
)

// ErrAnalysisInProgress rejects a submission while another analysis is pending.
var ErrAnalysisInProgress = errors.New("an analysis is already in progress")

// UserMessage returns the message shown to the user for err. The cause of
// an AI failure is never included.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var emptyPrefix vocabulary.EmptyPrefixError
	var noMatch *vocabulary.NoMatchError
	var aiErr *analysis.AIResponseError
	switch {
	case errors.As(err, &emptyPrefix):
		return "请输入单词前缀。Please enter a word prefix."
	case errors.As(err, &noMatch):
		return fmt.Sprintf("未找到以 \"%s\" 开头的单词。No words found starting with \"%s\".", noMatch.Prefix, noMatch.Prefix)
	case errors.As(err, &aiErr):
		return "调用AI分析时出错，请稍后再试。Error calling AI for analysis. Please try again later."
	case errors.Is(err, ErrAnalysisInProgress):
		return "正在分析中，请稍候。An analysis is already in progress. Please wait."
	default:
		return err.Error()
	}
}
