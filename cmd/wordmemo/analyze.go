package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordmemo/internal/bootstrap"
	"github.com/at-ishikawa/wordmemo/internal/cli"
	"github.com/at-ishikawa/wordmemo/internal/filter"
	"github.com/at-ishikawa/wordmemo/internal/session"
)

type analyzeOptions struct {
	partOfSpeech   string
	length         LengthFlag
	minLength      string
	maxLength      string
	status         StatusFlag
	retries        int
	refresh        bool
	exportMarkdown bool
	exportPDF      bool
	jsonOutput     bool
}

type filterUpdate struct {
	flag  string
	kind  filter.Kind
	value string
}

// criteria applies the filters set on the command line to the default criteria.
func (opts analyzeOptions) criteria() (filter.Criteria, error) {
	updates := []filterUpdate{
		{flag: "pos", kind: filter.KindPartOfSpeech, value: opts.partOfSpeech},
		{flag: "length", kind: filter.KindLength, value: string(opts.length)},
		{flag: "min-length", kind: filter.KindMinLength, value: opts.minLength},
		{flag: "max-length", kind: filter.KindMaxLength, value: opts.maxLength},
		{flag: "status", kind: filter.KindStatus, value: string(opts.status)},
	}
	criteria := filter.DefaultCriteria()
	for _, update := range updates {
		if update.value == "" {
			continue
		}
		updated, err := criteria.ApplyUpdate(update.kind, update.value)
		if err != nil {
			return criteria, fmt.Errorf("invalid --%s filter: %w", update.flag, err)
		}
		criteria = updated
	}
	return criteria, nil
}

func newAnalyzeCommand() *cobra.Command {
	var opts analyzeOptions
	var criteria filter.Criteria

	cmd := &cobra.Command{
		Use:   "analyze <prefix>",
		Short: "Analyze the words starting with a prefix and print the study view",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			criteria, err = opts.criteria()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			retries := cfg.AI.Retries
			if opts.retries >= 0 {
				retries = uint(opts.retries)
			}

			app := bootstrap.New()
			sess, err := bootstrap.NewSession(cmd.Context(), app, cfg, bootstrap.SessionOptions{Refresh: opts.refresh})
			if err != nil {
				return fmt.Errorf("bootstrap.NewSession() > %w", err)
			}

			return app.Run(cmd.Context(), func(ctx context.Context) error {
				if _, err := sess.SubmitPrefixWithRetry(ctx, args[0], retries); err != nil {
					return fmt.Errorf("%s: %w", session.UserMessage(err), err)
				}
				if err := sess.SetCriteria(criteria); err != nil {
					return fmt.Errorf("sess.SetCriteria() > %w", err)
				}

				view := sess.View()
				if opts.jsonOutput {
					encoder := json.NewEncoder(cmd.OutOrStdout())
					encoder.SetIndent("", "  ")
					if err := encoder.Encode(view); err != nil {
						return fmt.Errorf("encoder.Encode() > %w", err)
					}
				} else {
					cli.NewRenderer(cmd.OutOrStdout()).View(view)
				}

				if opts.exportMarkdown || opts.exportPDF {
					paths, err := newExporter(cfg).Export(view, opts.exportPDF)
					if err != nil {
						return fmt.Errorf("exporter.Export() > %w", err)
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Study sheet written to: %s\n", paths.Markdown)
					if paths.PDF != "" {
						fmt.Fprintf(cmd.ErrOrStderr(), "PDF generated at: %s\n", paths.PDF)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.partOfSpeech, "pos", "", `Show only words of this part of speech, "all" for every word`)
	cmd.Flags().Var(&opts.length, "length", `Word length range such as "3-5"`)
	cmd.Flags().StringVar(&opts.minLength, "min-length", "", "Minimum word length")
	cmd.Flags().StringVar(&opts.maxLength, "max-length", "", "Maximum word length")
	cmd.Flags().Var(&opts.status, "status", `Show only words with this learning status, "all" for every word`)
	cmd.Flags().IntVar(&opts.retries, "retries", -1, "Retries after a failed AI analysis, defaults to ai.retries")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "Ignore the analysis cache")
	cmd.Flags().BoolVar(&opts.exportMarkdown, "export-markdown", false, "Write a markdown study sheet")
	cmd.Flags().BoolVar(&opts.exportPDF, "export-pdf", false, "Write a markdown and PDF study sheet")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the view as JSON")

	return cmd
}

func newInteractiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive study session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			app := bootstrap.New()
			sess, err := bootstrap.NewSession(cmd.Context(), app, cfg, bootstrap.SessionOptions{})
			if err != nil {
				return fmt.Errorf("bootstrap.NewSession() > %w", err)
			}

			interactive := cli.NewInteractiveCLI(sess, newExporter(cfg), cfg.AI.Retries, cmd.InOrStdin(), cmd.OutOrStdout())
			return app.Run(cmd.Context(), interactive.Run)
		},
	}
}
