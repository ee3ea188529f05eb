// Package main provides the ffdata CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/ffdata/internal/aggregator"
	"github.com/stitts-dev/ffdata/internal/export"
	"github.com/stitts-dev/ffdata/internal/identity"
	"github.com/stitts-dev/ffdata/internal/inputs"
	"github.com/stitts-dev/ffdata/internal/metrics"
	"github.com/stitts-dev/ffdata/internal/pipeline"
	"github.com/stitts-dev/ffdata/internal/providers"
	"github.com/stitts-dev/ffdata/internal/risk"
	"github.com/stitts-dev/ffdata/internal/schedule"
	"github.com/stitts-dev/ffdata/internal/services"
	"github.com/stitts-dev/ffdata/internal/upload"
	"github.com/stitts-dev/ffdata/internal/validator"
	"github.com/stitts-dev/ffdata/pkg/config"
	"github.com/stitts-dev/ffdata/pkg/logger"
	"github.com/stitts-dev/ffdata/pkg/utils"
)

var version = "0.1.0"

// adpSourceName labels the ADP feed in logs and metrics.
const adpSourceName = "FantasyPros"

const breakerTimeout = 60 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the ffdata CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ffdata",
		Short:        "Build consensus fantasy football projections",
		Long:         "ffdata merges projections from several sources with ADP, risk and schedule data into one draft-ready player list.",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("ffdata version {{.Version}}\n")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newRunCmd creates the run subcommand.
func newRunCmd() *cobra.Command {
	var (
		strict     bool
		noValidate bool
		doUpload   bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, aggregate and export projections",
		Long:  "Fetch every configured source, aggregate the consensus list and write Projections-<season>.json.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("strict") {
				cfg.StrictValidation = strict
			}
			if noValidate {
				cfg.Validate = false
			}
			if output != "" {
				cfg.OutputDir = output
			}
			if err := cfg.ValidateForRun(doUpload); err != nil {
				return err
			}

			log := logger.InitLogger(cfg.LogLevel, cfg.LogFormat)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, cleanup, err := buildPipeline(ctx, cfg, doUpload, log)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := p.Run(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exported %d players from %s to %s\n", len(res.Players), strings.Join(res.Sources, ", "), res.OutputPath)
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			for _, key := range res.Objects {
				fmt.Fprintf(out, "uploaded: s3://%s/%s\n", cfg.S3Bucket, key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail sources that miss the full positional minimums")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip data quality checks")
	cmd.Flags().BoolVar(&doUpload, "upload", false, "Upload the artifact to S3 after export")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (overrides OUTPUT_DIR)")

	return cmd
}

// buildPipeline wires a pipeline from configuration. The returned cleanup
// releases the cache connection.
func buildPipeline(ctx context.Context, cfg *config.Config, doUpload bool, log *logrus.Logger) (*pipeline.Pipeline, func(), error) {
	cleanup := func() {}

	var cache *services.CacheService
	if cfg.RedisURL != "" {
		c, err := services.NewCacheServiceFromURL(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, fetching without cache")
		} else {
			cache = c
			cleanup = func() { _ = c.Close() }
		}
	}

	breakers := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, breakerTimeout, log)
	client := providers.NewFeedClient(providers.FeedClientConfig{
		Timeout:           cfg.HTTPTimeout,
		Retries:           cfg.RetryCount,
		RequestsPerSecond: cfg.RequestsPerSecond,
		CacheTTL:          cfg.CacheTTL,
		Season:            cfg.Season,
	}, cache, breakers, log)

	sources := make([]providers.ProjectionSource, 0, len(cfg.Sources))
	for _, spec := range cfg.Sources {
		sources = append(sources, providers.NewSource(spec.Name, spec.Location, client))
	}

	normalizer := identity.NewDefaultNormalizer()
	deps := pipeline.Dependencies{
		Sources:    sources,
		ADP:        providers.NewSource(adpSourceName, cfg.ADPSource, client),
		Normalizer: normalizer,
		Aggregator: aggregator.NewDefault(),
		Validator:  validator.New(validator.DefaultPositions(), normalizer),
		Risk:       risk.NewDefaultCalculator(),
		Schedule:   schedule.NewDefaultAnalyzer(),
		Metrics:    metrics.NewRecorder(),
		Logger:     log,
	}

	if cfg.RiskInput != "" {
		f, err := inputs.LoadRiskFile(cfg.RiskInput)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.RiskFile = f
	}
	if cfg.ScheduleInput != "" {
		f, err := inputs.LoadScheduleFile(cfg.ScheduleInput)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.ScheduleFile = f
	}

	if doUpload {
		publisher, err := upload.NewS3PublisherFromRegion(ctx, cfg.AWSRegion, cfg.S3Bucket, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.Publisher = publisher

		if cfg.SNSTopicARN != "" {
			notifier, err := upload.NewSNSNotifierFromRegion(ctx, cfg.AWSRegion, cfg.SNSTopicARN)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			deps.Notifier = notifier
		}
	}

	opts := pipeline.Options{
		Season:         cfg.Season,
		OutputDir:      cfg.OutputDir,
		OutputFormat:   cfg.OutputFormat,
		Validate:       cfg.Validate,
		Strict:         cfg.StrictValidation,
		Upload:         doUpload,
		PushgatewayURL: cfg.PushgatewayURL,
	}
	return pipeline.New(opts, deps), cleanup, nil
}

// newValidateCmd creates the validate subcommand.
func newValidateCmd() *cobra.Command {
	var minPlayers int

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check an exported projections file",
		Long:  "Check every record of an exported file against the player schema, then run the aggregate sanity checks.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			if err := export.ValidateDocument(data); err != nil {
				return err
			}
			players, err := export.Decode(data)
			if err != nil {
				return err
			}

			v := validator.New(validator.DefaultPositions(), identity.NewDefaultNormalizer())
			result := v.Aggregated(players, minPlayers)

			out := cmd.OutOrStdout()
			withStats, _ := result.Stats["players_with_stats"].(int)
			fmt.Fprintf(out, "%s: %d players, %d with stats\n", path, len(players), withStats)
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			if !result.IsValid {
				return utils.NewAppError(utils.ErrCodeValidation, "artifact failed validation", strings.Join(result.Errors, "; "))
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}

	cmd.Flags().IntVar(&minPlayers, "min-players", validator.DefaultAggregateMinPlayers, "Warn below this many players")

	return cmd
}

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ffdata version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ffdata version %s\n", version)
		},
	}
}
