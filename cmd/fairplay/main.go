package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/derekprior/fairplay/internal/config"
	"github.com/derekprior/fairplay/internal/excel"
	"github.com/derekprior/fairplay/internal/report"
	"github.com/derekprior/fairplay/internal/roster"
	"github.com/derekprior/fairplay/internal/schedule"
	"github.com/derekprior/fairplay/internal/strategy"
	"github.com/derekprior/fairplay/internal/validator"
)

const defaultConfigFile = "match.yaml"

// loadConfig reads the match file named by --config, or match.yaml when it
// exists. With neither, the built-in default match is used.
func loadConfig(configFlag string, log zerolog.Logger) (*config.Config, error) {
	path := configFlag
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			log.Debug().Msg("no match file found, using defaults")
			return config.Default(), nil
		}
		path = defaultConfigFile
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log.Debug().Str("path", path).Msg("loaded match file")
	return cfg, nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "fairplay",
		Short: "Youth soccer playing-time rotation planner",
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log substitution decisions")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter match.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the match file")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and validate rotations",
	}

	var configFile string
	scheduleCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to match file (default: match.yaml in current directory)")

	var (
		outputFile string
		overrides  config.Overrides
	)
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a rotation from a match file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)
			cfg, err := loadConfig(configFile, log)
			if err != nil {
				return err
			}
			if err := cfg.Apply(overrides); err != nil {
				return err
			}
			return runGenerate(cfg, outputFile, log)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "rotation.xlsx", "Output Excel file path (empty to skip)")
	generateCmd.Flags().IntVar(&overrides.Players, "players", 0, "Generate this many placeholder players")
	generateCmd.Flags().StringSliceVar(&overrides.Goalies, "goalie", nil, "Goalie name; repeat to rotate up to 3")
	generateCmd.Flags().IntVar(&overrides.Periods, "periods", 0, "Number of periods")
	generateCmd.Flags().IntVar(&overrides.PeriodLength, "period-length", 0, "Period length in minutes")
	generateCmd.Flags().IntVar(&overrides.FieldPlayers, "field-players", 0, "Field players on the pitch, excluding the goalie")
	generateCmd.Flags().StringVar(&overrides.Strategy, "strategy", "", fmt.Sprintf("Substitution strategy %v", strategy.Names()))

	validateCmd := &cobra.Command{
		Use:          "validate <rotation.xlsx>",
		Short:        "Validate a rotation workbook against the match file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)
			cfg, err := loadConfig(configFile, log)
			if err != nil {
				return err
			}
			return runValidate(cfg, args[0])
		},
	}

	scheduleCmd.AddCommand(generateCmd, validateCmd)
	rootCmd.AddCommand(initCmd, scheduleCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(config.Template), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

func runGenerate(cfg *config.Config, outputPath string, log zerolog.Logger) error {
	strat, err := strategy.Get(cfg.Strategy)
	if err != nil {
		return err
	}

	r, err := roster.New(cfg.Players(), cfg.Goalies())
	if err != nil {
		return err
	}

	log.Info().
		Int("players", r.Size()).
		Stringer("goalies", r.Mode).
		Str("strategy", strat.Name()).
		Msg("building rotation")

	result, err := schedule.Build(r, cfg.Rotation(), cfg.BenchAssignment(), strat, schedule.WithLogger(log))
	if err != nil {
		return err
	}

	fmt.Print(report.FormatSchedule(result))

	tolerance := cfg.Tolerance()
	balance := schedule.Summarize(result, float64(tolerance))
	fmt.Printf("\n%s\n", report.FormatBalance(balance, float64(tolerance)))
	if balance.WithinTolerance == balance.Players {
		fmt.Println("✓ Every player within tolerance")
	} else {
		fmt.Printf("⚠ %d players outside tolerance\n", balance.Players-balance.WithinTolerance)
	}

	if outputPath == "" {
		return nil
	}
	f, err := excel.Generate(result, tolerance)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Rotation saved to %s\n", outputPath)
	return nil
}

func runValidate(cfg *config.Config, rotationPath string) error {
	violations, err := validator.Validate(cfg, rotationPath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Guideline violation: %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d guideline violations\n", errors, warnings)

	// Regenerate derived sheets from the rotation grid
	r, err := roster.New(cfg.Players(), cfg.Goalies())
	if err != nil {
		return err
	}
	if err := excel.UpdateDerivedSheets(rotationPath, r, cfg.Rotation(), cfg.Tolerance()); err != nil {
		return fmt.Errorf("updating derived sheets: %w", err)
	}
	fmt.Printf("✓ Minutes and player sheets updated in %s\n", rotationPath)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}
