package speech

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const DefaultLocale = "en-US"

//go:generate mockgen -source=speaker.go -destination=../mocks/speech/mock_speaker.go -package=mock_speech

// Speaker reads text aloud. Speak returns immediately and never reports failure.
type Speaker interface {
	Speak(text, locale string)
}

type NopSpeaker struct{}

func (NopSpeaker) Speak(string, string) {}

// CommandSpeaker runs an external text-to-speech program such as say or
// espeak-ng. The placeholders {text} and {locale} in args are replaced on
// every call.
type CommandSpeaker struct {
	command string
	args    []string
	timeout time.Duration

	wg sync.WaitGroup
}

func NewCommandSpeaker(command string, args []string, timeout time.Duration) *CommandSpeaker {
	if len(args) == 0 {
		args = []string{"{text}"}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CommandSpeaker{
		command: command,
		args:    args,
		timeout: timeout,
	}
}

func (s *CommandSpeaker) expand(text, locale string) []string {
	replacer := strings.NewReplacer("{text}", text, "{locale}", locale)
	args := make([]string, len(s.args))
	for i, arg := range s.args {
		args[i] = replacer.Replace(arg)
	}
	return args
}

func (s *CommandSpeaker) Speak(text, locale string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if locale == "" {
		locale = DefaultLocale
	}
	args := s.expand(text, locale)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		output, err := exec.CommandContext(ctx, s.command, args...).CombinedOutput()
		if err != nil {
			slog.Default().Warn("speech command failed",
				"command", s.command,
				"locale", locale,
				"output", string(output),
				"error", err,
			)
		}
	}()
}

// Wait blocks until every started speech command has exited.
func (s *CommandSpeaker) Wait() {
	s.wg.Wait()
}
