package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/at-ishikawa/wordmemo/internal/filter"
	"github.com/at-ishikawa/wordmemo/internal/learning"
	"github.com/at-ishikawa/wordmemo/internal/session"
	"github.com/at-ishikawa/wordmemo/internal/speech"
	"github.com/at-ishikawa/wordmemo/internal/studysheet"
)

var errEnd = errors.New("end")

const helpText = `Commands:
  <prefix> | analyze <prefix>     analyze the words starting with prefix,
                                  use analyze for a prefix that is a command name
  filter <pos|length|min|max|status> <value>
                                  change one filter, "all" disables it
  reset                           reset every filter
  pos                             list the parts of speech of the analysis
  show [word]                     show the analysis or one word card
  status <word> <status>          set Not Started, Learning or Mastered
  statuses                        list the statuses of the analyzed words
  progress                        show the learning progress
  speak <word|story|example N word>
                                  read text aloud
  export [pdf]                    write a study sheet
  help                            show this help
  quit                            exit`

// InteractiveCLI reads commands from a terminal and drives a session.
type InteractiveCLI struct {
	session      *session.Session
	exporter     *studysheet.Exporter
	retries      uint
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	renderer     *Renderer
}

func NewInteractiveCLI(
	sess *session.Session,
	exporter *studysheet.Exporter,
	retries uint,
	input io.Reader,
	output io.Writer,
) *InteractiveCLI {
	return &InteractiveCLI{
		session:      sess,
		exporter:     exporter,
		retries:      retries,
		stdinReader:  bufio.NewReader(input),
		stdoutWriter: output,
		renderer:     NewRenderer(output),
	}
}

func (cli *InteractiveCLI) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	_, _ = fmt.Fprintln(cli.stdoutWriter, `Type a word prefix to analyze, or "help" for commands.`)

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for ctx.Err() == nil {
			if err := cli.Step(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// Step reads and executes one command line.
func (cli *InteractiveCLI) Step(ctx context.Context) error {
	_, _ = fmt.Fprint(cli.stdoutWriter, "> ")
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if strings.TrimSpace(line) != "" {
				return cli.Execute(ctx, line)
			}
			return errEnd
		}
		return fmt.Errorf("error reading input: %w", err)
	}
	return cli.Execute(ctx, line)
}

// Execute runs one command. Command errors are printed and nil is returned;
// only quit ends the loop.
func (cli *InteractiveCLI) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "quit", "exit":
		return errEnd
	case "help", "?":
		_, _ = fmt.Fprintln(cli.stdoutWriter, helpText)
	case "analyze":
		cli.analyze(ctx, strings.Join(args, " "))
	case "filter":
		cli.filter(args)
	case "reset":
		cli.session.ResetFilters()
		cli.renderer.View(cli.session.View())
	case "pos":
		cli.partsOfSpeech()
	case "show":
		cli.show(args)
	case "status":
		cli.setStatus(ctx, args)
	case "statuses":
		view := cli.session.View()
		cli.renderer.Statuses(view.Result.Words(), cli.session.Statuses())
	case "progress":
		cli.renderer.Progress(cli.session.View().Progress)
	case "speak":
		cli.speak(args)
	case "export":
		cli.export(args)
	default:
		cli.analyze(ctx, strings.TrimSpace(line))
	}
	return nil
}

func (cli *InteractiveCLI) analyze(ctx context.Context, prefix string) {
	if strings.TrimSpace(prefix) != "" {
		cli.renderer.Info("Analyzing %q...", strings.TrimSpace(prefix))
	}
	if _, err := cli.session.SubmitPrefixWithRetry(ctx, prefix, cli.retries); err != nil {
		cli.renderer.Error(session.UserMessage(err))
		return
	}
	cli.renderer.View(cli.session.View())
}

func (cli *InteractiveCLI) filter(args []string) {
	if len(args) < 2 {
		cli.renderer.Error(fmt.Sprintf("usage: filter <%s> <value>", joinKinds()))
		return
	}
	if _, err := cli.session.UpdateFilter(filter.Kind(strings.ToLower(args[0])), strings.Join(args[1:], " ")); err != nil {
		cli.renderer.Error(err.Error())
		return
	}
	cli.renderer.View(cli.session.View())
}

func joinKinds() string {
	kinds := make([]string, 0, len(filter.Kinds))
	for _, kind := range filter.Kinds {
		kinds = append(kinds, string(kind))
	}
	return strings.Join(kinds, "|")
}

func (cli *InteractiveCLI) partsOfSpeech() {
	view := cli.session.View()
	if view.Result == nil {
		cli.renderer.Error("no analysis yet")
		return
	}
	cli.renderer.Info("Parts of speech: %s", strings.Join(view.PartsOfSpeech, ", "))
}

func (cli *InteractiveCLI) show(args []string) {
	view := cli.session.View()
	if len(args) == 0 {
		cli.renderer.View(view)
		return
	}
	detail, ok := view.Result.Detail(args[0])
	if !ok {
		cli.renderer.Error(fmt.Sprintf("%q is not part of the current analysis", args[0]))
		return
	}
	cli.renderer.Word(detail, cli.session.Statuses().Get(detail.Word))
}

func (cli *InteractiveCLI) setStatus(ctx context.Context, args []string) {
	if len(args) < 2 {
		cli.renderer.Error("usage: status <word> <Not Started|Learning|Mastered>")
		return
	}
	status, err := learning.ParseStatus(strings.Join(args[1:], " "))
	if err != nil {
		cli.renderer.Error(err.Error())
		return
	}
	if _, err := cli.session.SetWordStatus(ctx, args[0], status); err != nil {
		cli.renderer.Error(err.Error())
		return
	}
	cli.renderer.Info("%s: %s", args[0], status)
	cli.renderer.Progress(cli.session.View().Progress)
}

func (cli *InteractiveCLI) speak(args []string) {
	if len(args) == 0 {
		cli.renderer.Error("usage: speak <word|story|example N word>")
		return
	}
	result := cli.session.Result()

	switch strings.ToLower(args[0]) {
	case "story":
		if result == nil {
			cli.renderer.Error("no analysis yet")
			return
		}
		cli.session.Speak(result.MemoryStory.English, speech.DefaultLocale)
	case "example":
		if len(args) < 3 {
			cli.renderer.Error("usage: speak example N word")
			return
		}
		n, err := strconv.Atoi(args[1])
		detail, ok := result.Detail(args[2])
		if err != nil || !ok || n < 1 || n > len(detail.UsageExamples) {
			cli.renderer.Error(fmt.Sprintf("no example %s for %q", args[1], args[2]))
			return
		}
		cli.session.Speak(detail.UsageExamples[n-1].English, speech.DefaultLocale)
	default:
		cli.session.Speak(args[0], speech.DefaultLocale)
	}
}

func (cli *InteractiveCLI) export(args []string) {
	if cli.exporter == nil {
		cli.renderer.Error("study sheet export is not configured")
		return
	}
	generatePDF := len(args) > 0 && strings.EqualFold(args[0], "pdf")
	paths, err := cli.exporter.Export(cli.session.View(), generatePDF)
	if err != nil {
		cli.renderer.Error(err.Error())
		return
	}
	cli.renderer.Info("Study sheet written to: %s", paths.Markdown)
	if paths.PDF != "" {
		cli.renderer.Info("PDF generated at: %s", paths.PDF)
	}
}
