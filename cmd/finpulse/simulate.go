package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iwvelando/finpulse/internal/config"
	"github.com/iwvelando/finpulse/internal/jitter"
	"github.com/iwvelando/finpulse/internal/simulate"
	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/pkg/constants"
	"github.com/iwvelando/finpulse/pkg/output"
	"github.com/iwvelando/finpulse/pkg/validation"
)

type simulateOptions struct {
	configPath   string
	cycles       int
	seed         int64
	dashboards   []string
	outputFormat string
	logLevel     string
}

func newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run simulation cycles offline and print each snapshot",
		Long: `Run the simulation pipeline a fixed number of times without latency and
print the headline figures of every cycle. Each snapshot is checked against
the dashboard invariants before it is printed.

Examples:
  finpulse simulate --cycles 10 --seed 42
  finpulse simulate --dashboard tax --output-format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to configuration file (defaults only when empty)")
	cmd.Flags().IntVar(&opts.cycles, "cycles", constants.DefaultSimulateCycles, "number of cycles to run")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed override (0 derives one from the clock)")
	cmd.Flags().StringSliceVar(&opts.dashboards, "dashboard", nil, "dashboards to print: tax, revenue, leases")
	cmd.Flags().StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	return cmd
}

func runSimulate(cmd *cobra.Command, opts *simulateOptions) error {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	if err := validation.ValidateCycles(opts.cycles); err != nil {
		return err
	}

	selection := opts.dashboards
	if len(selection) == 0 {
		selection = conf.Simulator.Dashboards
	}
	dashboards, err := validation.ValidateDashboards(selection)
	if err != nil {
		return fmt.Errorf("invalid dashboard selection: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.simulate"),
		)
	}

	profile, err := conf.Profile()
	if err != nil {
		return fmt.Errorf("invalid variation profile: %w", err)
	}

	seed := conf.Simulator.Seed
	if cmd.Flags().Changed("seed") {
		seed = opts.seed
	}
	engine := simulate.NewEngine(jitter.NewSource(seed), profile, nil)

	logger.Debug(fmt.Sprintf("running %d cycles with seed %d", opts.cycles, seed),
		zap.String("op", "main.simulate"),
	)

	results := make([]*snapshot.Snapshot, 0, opts.cycles)
	prev := snapshot.Seed()
	for i := 0; i < opts.cycles; i++ {
		next := engine.Next(prev)
		if err := snapshot.Check(next); err != nil {
			return fmt.Errorf("cycle %d violated dashboard invariants: %w", next.Sequence, err)
		}
		results = append(results, next)
		prev = next
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(cmd.OutOrStdout(), results, dashboards)
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(cmd.OutOrStdout(), results, dashboards); err != nil {
			return fmt.Errorf("failed to write csv output: %w", err)
		}
	}
	return nil
}
