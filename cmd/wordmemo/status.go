package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/wordmemo/internal/bootstrap"
	"github.com/at-ishikawa/wordmemo/internal/cli"
	"github.com/at-ishikawa/wordmemo/internal/learning"
)

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Manage learning statuses",
	}
	cmd.AddCommand(
		newStatusListCommand(),
		newStatusGetCommand(),
		newStatusSetCommand(),
	)
	return cmd
}

// withStore opens the configured status storage for one command.
func withStore(cmd *cobra.Command, fn func(store *learning.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend, err := bootstrap.NewStatusBackend(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("bootstrap.NewStatusBackend() > %w", err)
	}
	store := learning.NewStore(backend)
	defer func() {
		_ = store.Close()
	}()
	store.Load(cmd.Context())
	return fn(store)
}

func newStatusListCommand() *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded learning statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *learning.Store) error {
				statuses := store.Snapshot()
				var words []string
				for _, word := range statuses.SortedWords() {
					if strings.HasPrefix(strings.ToLower(word), strings.ToLower(prefix)) {
						words = append(words, word)
					}
				}
				cli.NewRenderer(cmd.OutOrStdout()).Statuses(words, statuses)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only list words starting with this prefix")
	return cmd
}

func newStatusGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <word>",
		Short: "Print the learning status of a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store *learning.Store) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), store.Get(args[0]))
				return err
			})
		},
	}
}

func newStatusSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <word> <status>",
		Short: `Set the learning status of a word to "Not Started", "Learning" or "Mastered"`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := learning.ParseStatus(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return withStore(cmd, func(store *learning.Store) error {
				if _, err := store.SetStatus(cmd.Context(), args[0], status); err != nil {
					return fmt.Errorf("store.SetStatus(%s) > %w", args[0], err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], status)
				return err
			})
		},
	}
}
