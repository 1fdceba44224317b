package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordmemo/internal/analysis"
	"github.com/at-ishikawa/wordmemo/internal/vocabulary"
)

func newValidateCommand() *cobra.Command {
	var prefix string
	var words []string

	command := &cobra.Command{
		Use:   "validate <response.json>",
		Short: "Validate a saved AI response against the analysis schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if prefix == "" {
				return errors.New("--prefix is required")
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("os.ReadFile(%s) > %w", args[0], err)
			}

			requested := words
			if len(requested) == 0 {
				vocab, err := loadVocabulary()
				if err != nil {
					return err
				}
				requested = vocab.Match(prefix)
				if len(requested) == 0 {
					return &vocabulary.NoMatchError{Prefix: prefix}
				}
			}

			result, err := analysis.Parse(content, requested, prefix)
			if err != nil {
				var schemaErr *analysis.SchemaError
				if errors.As(err, &schemaErr) {
					fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %s\n", schemaErr.Path, schemaErr.Message)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "✗ %v\n", err)
				}
				return fmt.Errorf("validation failed for %s", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %d words: %s\n", result.Len(), strings.Join(result.Words(), ", "))
			return nil
		},
	}

	command.Flags().StringVar(&prefix, "prefix", "", "Prefix the response was generated for")
	command.Flags().StringSliceVar(&words, "words", nil, "Requested words, defaults to the vocabulary matches of the prefix")

	return command
}
