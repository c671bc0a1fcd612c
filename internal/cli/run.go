package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/terraskye/mediator/internal/config"
	"github.com/terraskye/mediator/metrics"
	"go.uber.org/zap"
)

// flagKeys maps run flags to their configuration keys.
var flagKeys = map[string]string{
	"requests":     "run.requests",
	"workers":      "run.workers",
	"listeners":    "run.listeners",
	"start":        "run.start",
	"rate-limit":   "run.rate_limit",
	"burst":        "run.burst",
	"timeout":      "run.timeout",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
	"metrics":      "metrics.enabled",
	"metrics-dump": "metrics.dump",
}

// NewRunCommand creates the run command. loadViper supplies the base
// configuration the flags are layered on.
func NewRunCommand(loadViper func() (*viper.Viper, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send concurrent Increment requests and drain the events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadViper()
			if err != nil {
				return err
			}
			for flag, key := range flagKeys {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return run(ctx, cfg, logger, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.Int("requests", 100, "Number of Increment requests to send")
	f.Int("workers", 4, "Number of concurrent senders")
	f.Int("listeners", 2, "Number of recording listeners")
	f.Int64("start", 0, "Initial counter value")
	f.Float64("rate-limit", 0, "Requests per second, 0 for unlimited")
	f.Int("burst", 1, "Rate limiter burst size")
	f.Duration("timeout", 0, "Deadline for the whole run")
	f.String("log-level", "info", "Log level: debug, info, warn, error")
	f.String("log-format", "console", "Log format: json, console")
	f.Bool("metrics", true, "Collect Prometheus metrics")
	f.Bool("metrics-dump", false, "Print collected metrics after the run")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Run.Timeout)
	defer cancel()

	var (
		registry  *prometheus.Registry
		collector *metrics.Collector
	)
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		c, err := metrics.NewCollector("run", registry)
		if err != nil {
			return fmt.Errorf("create metrics collector: %w", err)
		}
		collector = c
	}

	logger.Info("starting workload",
		zap.Int("requests", cfg.Run.Requests),
		zap.Int("workers", cfg.Run.Workers),
		zap.Int("listeners", cfg.Run.Listeners),
	)

	summary, err := runWorkload(ctx, cfg.Run, logger, collector)
	if summary != nil {
		printSummary(out, summary)
	}
	if err != nil {
		return err
	}

	logger.Info("workload finished", zap.Duration("elapsed", summary.Elapsed))

	if cfg.Metrics.Dump && registry != nil {
		return dumpMetrics(out, registry)
	}
	return nil
}

func printSummary(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "requests: sent=%d failed=%d\n", s.Sent, s.Failed)
	fmt.Fprintf(w, "counter: %d\n", s.Counter)
	for _, l := range s.Listeners {
		fmt.Fprintf(w, "%s: delivered=%d ordered=%t\n", l.Name, l.Delivered, l.Ordered)
	}
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
