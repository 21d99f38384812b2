package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/watchdag/watchdag/internal/config"
	"github.com/watchdag/watchdag/internal/logger"
	"github.com/watchdag/watchdag/internal/model"
	"github.com/watchdag/watchdag/internal/registry"
	"github.com/watchdag/watchdag/internal/runner"
	"github.com/watchdag/watchdag/internal/sensor"
	"github.com/watchdag/watchdag/internal/store"
	"github.com/watchdag/watchdag/internal/tui"
)

type dashboardOptions struct {
	ConfigPath  string
	LogicalDate string
}

func newDashboardCmd(root *rootFlags) *cobra.Command {
	opts := dashboardOptions{}

	cmd := &cobra.Command{
		Use:   "dashboard <config-file>",
		Short: "Watch all sensors in an interactive dashboard",
		Long:  `Dashboard polls every sensor in the configuration concurrently and renders their progress in an interactive terminal UI.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = args[0]

			return runDashboard(opts)
		},
	}

	cmd.Flags().StringVar(&opts.LogicalDate, "logical-date", "", "Logical date in RFC 3339 form (defaults to now, UTC)")

	return cmd
}

func runDashboard(opts dashboardOptions) error {
	cfg, err := config.ParseFile(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	logical, err := parseLogicalDate(opts.LogicalDate)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so all logging is discarded while it
	// runs.
	log, err := logger.New(logger.Options{Level: "error", Writer: io.Discard})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	env, err := loadSettings()
	if err != nil {
		return err
	}

	st, err := store.Open(env.DatabasePath, log)
	if err != nil {
		return fmt.Errorf("failed to open run state database: %w", err)
	}
	defer st.Close()

	reg, err := registry.NewRegistry(env.RegistryPath)
	if err != nil {
		return fmt.Errorf("failed to load workflow registry: %w", err)
	}

	ids := make([]string, 0, len(cfg.Sensors))
	for _, sc := range cfg.Sensors {
		ids = append(ids, sc.ID)
	}

	title := cfg.Name
	if title == "" {
		title = opts.ConfigPath
	}

	unicode := term.IsTerminal(int(os.Stdout.Fd()))
	m := tui.NewModel(title, ids, unicode)
	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rc := sensor.NewRunContext(logical)

	for _, sc := range cfg.Sensors {
		s, err := sensor.New(sc, st, reg, log)
		if err != nil {
			cancel()
			return fmt.Errorf("failed to configure sensor %s: %w", sc.ID, err)
		}

		r := runner.New(s, runner.Options{
			PokeInterval: sc.PokeInterval.Std(),
			Timeout:      sc.Timeout.Std(),
			OnResult: func(res model.PokeResult) {
				p.Send(tui.ResultMsg{Result: res})
			},
		}, log)

		go func(id string) {
			err := r.Run(ctx, rc)
			p.Send(tui.DoneMsg{SensorID: id, Err: err})
		}(sc.ID)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}

	return nil
}
