package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordmemo/internal/vocabulary"
)

func newVocabularyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocabulary",
		Short: "Inspect the word list prefixes are matched against",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "match <prefix>",
			Short: "List the words starting with a prefix",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				vocab, err := loadVocabulary()
				if err != nil {
					return err
				}
				words := vocab.Match(args[0])
				if len(words) == 0 {
					return &vocabulary.NoMatchError{Prefix: args[0]}
				}
				for _, word := range words {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), word); err != nil {
						return err
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "count",
			Short: "Print the number of known words",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				vocab, err := loadVocabulary()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), vocab.Len())
				return err
			},
		},
	)
	return cmd
}

func loadVocabulary() (*vocabulary.Vocabulary, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	vocab, err := vocabulary.Load(cfg.Vocabulary.File)
	if err != nil {
		return nil, fmt.Errorf("vocabulary.Load() > %w", err)
	}
	return vocab, nil
}
