package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TzachiGitHub/pokedex/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pokedex: %v\n", err)
		return 1
	}
	return 0
}

// rootFlags are shared by every command.
type rootFlags struct {
	configPath string
	prefsPath  string
	query      string
	verbose    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "pokedex",
		Short: "Browse the Pokédex catalog from the terminal",
		Long: `pokedex is a terminal client for the Pokédex catalog API.

Run without arguments to open the interactive browser. The --query flag takes
the same query string the browser shows in its header, for example:

  pokedex --query "type=Fire&sort=desc"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				Query:      flags.query,
				QuerySet:   cmd.Flags().Changed("query"),
				Verbose:    flags.verbose,
			})
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (default ~/.config/pokedex/config.toml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level")
	root.Flags().StringVar(&flags.prefsPath, "prefs", "", "preferences file path (default ~/.config/pokedex/prefs.toml)")
	root.Flags().StringVarP(&flags.query, "query", "q", "", "initial query string (default: the last session's)")

	root.AddCommand(
		newListCmd(flags),
		newTypesCmd(flags),
		newCapturedCmd(flags),
		newToggleCmd(flags, true),
		newToggleCmd(flags, false),
		newIconCmd(flags),
		newLogsCmd(flags),
	)
	return root
}
