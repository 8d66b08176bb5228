package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/catalog"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/event"
	"trivia-quiz/internal/infra/memory"
	"trivia-quiz/internal/tui"
)

type playOptions struct {
	catalog string
	ui      string
	budget  int
	noColor bool
	seed    int64
}

// NewPlayCmd builds the subcommand that plays one game in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var opts playOptions
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runPlay(ctx, *configPath, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalog to play (defaults to game.catalog)")
	cmd.Flags().StringVar(&opts.ui, "ui", "auto", "presentation: auto|live|plain")
	cmd.Flags().IntVar(&opts.budget, "time", 0, "seconds per question (defaults to game.timebudget)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colors in the live UI")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "shuffle seed for a reproducible game")
	return cmd
}

func runPlay(ctx context.Context, configPath string, opts playOptions, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	decision, err := resolveUIMode(opts.ui, out)
	if err != nil {
		return err
	}
	if decision.warning != "" {
		fmt.Fprintln(os.Stderr, decision.warning)
	}

	catalogID := opts.catalog
	if catalogID == "" {
		catalogID = cfg.Game.Catalog
	}
	budget := cfg.Game.TimeBudget
	if opts.budget > 0 {
		budget = opts.budget
	}

	bus := event.NewBus()
	defer bus.Stop()
	logEvents(bus)

	service := app.NewGameService(
		memory.NewGameStore(),
		memory.NewCatalogRepository(catalog.NewEmbeddedLoader(), 0),
		app.ServiceConfig{
			TimeBudget:   budget,
			TickInterval: config.TTLDuration(cfg.Game.TickInterval, app.DefaultTickInterval),
			Events:       bus,
			Seed:         opts.seed,
		},
	)

	g, _, err := service.NewGame(ctx, catalogID)
	if err != nil {
		return err
	}
	defer func() { _ = service.End(context.Background(), g.ID()) }()

	if decision.useLive {
		return tui.RunLive(ctx, g, in, out, tui.Options{NoColor: opts.noColor, Title: catalogID})
	}
	return tui.NewPlain(g, out).Run(ctx, in)
}

func logEvents(bus *event.Bus) {
	handler := func(ctx context.Context, e event.Event) error {
		slog.DebugContext(ctx, "game event", "event", e.Name(), "payload", fmt.Sprintf("%+v", e))
		return nil
	}
	for _, name := range []string{
		domain.EventNameGameStarted,
		domain.EventNameQuestionResolved,
		domain.EventNameGameFinished,
	} {
		bus.Subscribe(name, handler)
	}
}

