package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/skopaio/skopa/internal/collector"
	"github.com/skopaio/skopa/internal/config"
	"github.com/skopaio/skopa/internal/exporter"
	"github.com/skopaio/skopa/internal/scanner"
	"github.com/skopaio/skopa/internal/telemetry"
)

var version = "0.1.0"

var (
	flagConfig          string
	flagOutput          string
	flagReferenceRegion string
	flagRegions         []string
	flagWorkers         int
	flagMetricsAddr     string
	flagDebug           bool
)

var rootCmd = &cobra.Command{
	Use:   "skopa",
	Short: "AWS resource inventory exporter",
	Long: `Skopa - AWS resource inventory exporter

Skopa enumerates EC2 instances, RDS instances and OpenSearch domains
across every opted-in region of the account and writes them to a single
spreadsheet, one sheet per resource kind.`,
	Example: `  skopa                                # scan all regions, write aws_resources_all_regions.xlsx
  skopa --output /tmp/inventory.xlsx   # custom output path
  skopa --region eu-west-1 --region us-east-1
  skopa --workers 4                    # collect regions in parallel`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate(`Skopa {{.Version}} - AWS resource inventory exporter
`)
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Path to config file")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output spreadsheet path")
	rootCmd.Flags().StringVar(&flagReferenceRegion, "reference-region", "", "Region used for region discovery")
	rootCmd.Flags().StringArrayVarP(&flagRegions, "region", "r", nil, "Pin a region instead of discovering (repeatable)")
	rootCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "Parallel region workers (default sequential)")
	rootCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Serve Prometheus metrics on this address during the run")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

func runRoot(cmd *cobra.Command, args []string) error {
	setupLogging()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if flagMetricsAddr != "" {
		if err := setupMetricsServer(flagMetricsAddr); err != nil {
			return err
		}
	}
	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	factory, err := collector.NewSDKClientFactory(ctx, cfg.ReferenceRegion)
	if err != nil {
		return err
	}

	log.Info().
		Str("reference_region", cfg.ReferenceRegion).
		Str("output", cfg.Output).
		Int("workers", cfg.Workers).
		Msg("skopa starting")

	s := scanner.New(factory, metrics, scanner.Options{
		Regions:    cfg.Regions,
		Workers:    cfg.Workers,
		EC2:        cfg.Services.EC2,
		RDS:        cfg.Services.RDS,
		OpenSearch: cfg.Services.OpenSearch,
	})
	report, err := s.Run(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	x := exporter.NewXLSX(cfg.Output)
	if err := x.Export(report); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	log.Info().Str("path", x.Path()).Msg("export completed")
	return nil
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if flagDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// loadConfig builds the effective config: file values over defaults, flag
// values over both.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("output") {
		cfg.Output = flagOutput
	}
	if cmd.Flags().Changed("reference-region") {
		cfg.ReferenceRegion = flagReferenceRegion
	}
	if cmd.Flags().Changed("region") {
		cfg.Regions = flagRegions
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagWorkers
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setupMetricsServer installs a Prometheus exporter as the global meter
// provider and serves it for the duration of the run.
func setupMetricsServer(addr string) error {
	promExporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(promExporter))
	otel.SetMeterProvider(provider)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		log.Info().Str("addr", addr).Msg("starting metrics server")
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server error")
		}
	}()
	return nil
}
