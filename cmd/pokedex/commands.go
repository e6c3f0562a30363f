package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TzachiGitHub/pokedex/internal/app"
	"github.com/TzachiGitHub/pokedex/internal/config"
	"github.com/TzachiGitHub/pokedex/internal/logging"
	"github.com/TzachiGitHub/pokedex/internal/logtail"
	"github.com/TzachiGitHub/pokedex/internal/pokeapi"
	"github.com/TzachiGitHub/pokedex/internal/urlstate"
)

// newClient loads the configuration and builds a client that logs to the
// command's stderr.
func newClient(cmd *cobra.Command, flags *rootFlags) (*pokeapi.Client, *zap.Logger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	level := cfg.LogLevel
	if flags.verbose {
		level = "debug"
	}
	logger := logging.NewWriter(level, "console", cmd.ErrOrStderr())
	client, err := app.NewClient(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return client, logger, nil
}

type listFlags struct {
	page   int
	limit  int
	sort   string
	typ    string
	search string
	all    bool
}

func newListCmd(root *rootFlags) *cobra.Command {
	flags := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the catalog, or every page with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, err := flags.query()
			if err != nil {
				return err
			}
			client, logger, err := newClient(cmd, root)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			var records []pokeapi.Pokemon
			var last pokeapi.Pagination
			for {
				resp, err := client.FetchPokemon(cmd.Context(), query)
				if err != nil {
					return err
				}
				records = append(records, resp.Data...)
				last = resp.Pagination
				if !flags.all || !resp.Pagination.HasNext {
					break
				}
				query.Page++
				logger.Debug("fetching next page", zap.Int("page", query.Page))
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No Pokemon found")
				return nil
			}
			fmt.Fprintln(out, renderTable(records))
			shown := last.Shown()
			if flags.all {
				shown = len(records)
			}
			fmt.Fprintf(out, "Showing %s of %s Pokemon\n",
				humanize.Comma(int64(shown)), humanize.Comma(int64(last.TotalItems)))
			return nil
		},
	}
	cmd.Flags().IntVar(&flags.page, "page", urlstate.DefaultPage, "page number")
	cmd.Flags().IntVar(&flags.limit, "limit", urlstate.DefaultLimit, "page size (5, 10 or 20)")
	cmd.Flags().StringVar(&flags.sort, "sort", string(urlstate.DefaultSort), "sort by number: asc or desc")
	cmd.Flags().StringVar(&flags.typ, "type", "", "only this type")
	cmd.Flags().StringVar(&flags.search, "search", "", "search term")
	cmd.Flags().BoolVar(&flags.all, "all", false, "follow has_next through every page")
	return cmd
}

func (f *listFlags) query() (pokeapi.Query, error) {
	if f.page < 1 {
		return pokeapi.Query{}, fmt.Errorf("invalid --page %d: must be at least 1", f.page)
	}
	if !urlstate.IsValidPageSize(f.limit) {
		return pokeapi.Query{}, fmt.Errorf("invalid --limit %d: must be one of %v", f.limit, urlstate.ValidPageSizes)
	}
	order, ok := urlstate.ParseSort(strings.ToLower(strings.TrimSpace(f.sort)))
	if !ok {
		return pokeapi.Query{}, fmt.Errorf("invalid --sort %q: must be asc or desc", f.sort)
	}
	return pokeapi.Query{
		Page:   f.page,
		Limit:  f.limit,
		Sort:   string(order),
		Type:   strings.TrimSpace(f.typ),
		Search: strings.TrimSpace(f.search),
	}, nil
}

func renderTable(records []pokeapi.Pokemon) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "NAME", "TYPE", "HP", "ATK", "DEF", "SPD", "GEN", "LEGENDARY", "CAPTURED")
	for _, p := range records {
		t.Row(
			fmt.Sprintf("%03d", p.Number),
			p.Name,
			strings.Join(p.Types(), "/"),
			strconv.Itoa(p.HitPoints),
			strconv.Itoa(p.Attack),
			strconv.Itoa(p.Defense),
			strconv.Itoa(p.Speed),
			strconv.Itoa(p.Generation),
			yesNo(p.Legendary),
			yesNo(p.Captured),
		)
	}
	return t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func newTypesCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Print every type name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, logger, err := newClient(cmd, root)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			types, err := client.FetchTypes(cmd.Context())
			if err != nil {
				return err
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func newCapturedCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "captured",
		Short: "Print the keys of every captured Pokémon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, logger, err := newClient(cmd, root)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			keys, err := client.FetchCaptured(cmd.Context())
			if err != nil {
				return err
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

// newToggleCmd builds "capture" or "release".
func newToggleCmd(root *rootFlags, capture bool) *cobra.Command {
	use, short, verb := "release", "Release a captured Pokémon", "released"
	if capture {
		use, short, verb = "capture", "Capture a Pokémon", "captured"
	}
	return &cobra.Command{
		Use:   use + " <number> <name>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[1])
			if name == "" {
				return errors.New("name must not be empty")
			}
			client, logger, err := newClient(cmd, root)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if capture {
				err = client.Capture(cmd.Context(), number, name)
			} else {
				err = client.Release(cmd.Context(), number, name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, pokeapi.MakeKey(number, name))
			return nil
		},
	}
}

func newIconCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "icon <number>",
		Short: "Print the sprite URL of a Pokémon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			client, logger, err := newClient(cmd, root)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			fmt.Fprintln(cmd.OutOrStdout(), client.IconURL(number))
			return nil
		},
	}
}

func parseNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return n, nil
}

func newLogsCmd(root *rootFlags) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the browser's log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			minLevel, err := zapcore.ParseLevel(strings.TrimSpace(level))
			if err != nil {
				return fmt.Errorf("invalid --level %q", level)
			}
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			tail, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			colorizer := logtail.NewColorizer(lipgloss.NewRenderer(cmd.OutOrStdout()))
			for _, line := range colorizer.Lines(logtail.Filter(tail, minLevel)) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 200, "number of trailing lines to read (0 reads all)")
	cmd.Flags().StringVar(&level, "level", "debug", "minimum level to show")
	return cmd
}
