package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/watchdag/watchdag/internal/config"
	"github.com/watchdag/watchdag/internal/logger"
	"github.com/watchdag/watchdag/internal/registry"
	"github.com/watchdag/watchdag/internal/runner"
	"github.com/watchdag/watchdag/internal/sensor"
	"github.com/watchdag/watchdag/internal/store"
	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

type pollOptions struct {
	ConfigPath  string
	SensorID    string
	LogicalDate string
	Verbose     bool
}

var pollCmdRunner = runPoll

func newPollCmd(root *rootFlags) *cobra.Command {
	opts := pollOptions{}

	cmd := &cobra.Command{
		Use:   "poll <config-file>",
		Short: "Poke each sensor until its external dependency completes",
		Long: `Poll parses a sensor configuration file and drives each sensor until it
is satisfied, fails fatally, or times out. Returns exit code 0 when every
sensor ends satisfied and exit code 1 otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = args[0]
			opts.Verbose = root.verbose

			return pollCmdRunner(opts)
		},
	}

	cmd.Flags().StringVar(&opts.SensorID, "sensor", "", "Poll only the sensor with this ID")
	cmd.Flags().StringVar(&opts.LogicalDate, "logical-date", "", "Logical date in RFC 3339 form (defaults to now, UTC)")

	return cmd
}

func runPoll(opts pollOptions) error {
	cfg, err := config.ParseFile(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing configuration: %v\n", err)
		os.Exit(2)
	}

	logical, err := parseLogicalDate(opts.LogicalDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	sensors, err := selectSensors(cfg, opts.SensorID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log, err := newLogger(opts.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(3)
	}

	env, err := loadSettings()
	if err != nil {
		return newCommandError("poll", "loading environment settings", err, "Ensure your HOME directory is set correctly.")
	}

	st, err := store.Open(env.DatabasePath, log)
	if err != nil {
		return newCommandError("poll", "opening run state database", err, "Check that WATCHDAG_DB points at a writable path.")
	}
	defer st.Close()

	reg, err := registry.NewRegistry(env.RegistryPath)
	if err != nil {
		return newCommandError("poll", "loading workflow registry", err, "Check registry file permissions and try again.")
	}

	log.WithFields(map[string]any{
		"config":       opts.ConfigPath,
		"sensors":      len(sensors),
		"logical_date": logical,
	}).Info("starting poll")

	ctx := context.Background()
	rc := sensor.NewRunContext(logical)

	failed := 0
	for _, sc := range sensors {
		if err := pollSensor(ctx, rc, sc, st, reg, env, log); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", sc.ID, err)
			continue
		}
		fmt.Printf("✓ %s satisfied\n", sc.ID)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d sensors did not complete\n", failed, len(sensors))
		os.Exit(1)
	}

	return nil
}

func pollSensor(ctx context.Context, rc sensor.RunContext, sc config.Sensor, st *store.Store, reg *registry.Registry, env settings, log *logger.Logger) error {
	s, err := sensor.New(sc, st, reg, log)
	if err != nil {
		return err
	}

	logical, _ := rc.LogicalDate()
	if w, lookupErr := reg.Get(sc.ExternalWorkflowID); lookupErr == nil {
		log.WithSensor(sc.ID).WithFields(map[string]any{
			"url": w.URL(env.BaseURL, logical),
		}).Info("waiting on external workflow")
	}

	r := runner.New(s, runner.Options{
		PokeInterval: sc.PokeInterval.Std(),
		Timeout:      sc.Timeout.Std(),
	}, log)

	if err := r.Run(ctx, rc); err != nil {
		var depErr *wderrors.DependencyFailedError
		if errors.As(err, &depErr) {
			return fmt.Errorf("external dependency failed: %w", err)
		}
		return err
	}

	return nil
}
