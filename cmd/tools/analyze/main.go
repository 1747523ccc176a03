// Command analyze runs the cost analysis over a CSV export and prints the
// result as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/costwatch/costwatch/internal/analysis"
	"github.com/costwatch/costwatch/internal/analytics"
	"github.com/costwatch/costwatch/internal/analytics/recommend"
	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/loader"
	"github.com/costwatch/costwatch/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	input           string
	service         string
	forecastDays    int
	recommendations bool
	configPath      string
	verbose         bool
}

// report is one analysed series, optionally with its recommendations.
type report struct {
	*analysis.Result
	Recommendations *recommend.Set `json:"recommendations,omitempty"`
}

// batchReport is printed when the export holds several services.
type batchReport struct {
	Services map[string]report `json:"services"`
	Errors   map[string]string `json:"errors,omitempty"`
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a daily cost CSV export",
		Long: `Reads date,cost[,transaction_count,avg_transaction_cost] rows (or a CSV with a
header naming date, cost and optionally service and transaction_count) and
prints trend, forecast, anomaly, change point and volatility analysis as JSON.
Without --service, an export covering several services is analysed per service.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, out)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "CSV file to analyze (required)")
	cmd.Flags().StringVarP(&opts.service, "service", "s", "", "Only analyze rows of this service")
	cmd.Flags().IntVarP(&opts.forecastDays, "forecast-days", "f", 0, "Forecast horizon in days (default from config)")
	cmd.Flags().BoolVarP(&opts.recommendations, "recommendations", "r", false, "Include optimization recommendations")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func run(opts options, out io.Writer) error {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	level := zerolog.WarnLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := logging.NewWithWriter(os.Stderr, level)

	if opts.forecastDays < 0 || opts.forecastDays > cfg.Analysis.MaxForecastDays {
		return fmt.Errorf("--forecast-days must be between 1 and %d", cfg.Analysis.MaxForecastDays)
	}
	analysisOpts := analysis.Options{
		ForecastDays: cfg.Analysis.ClampForecastDays(opts.forecastDays),
		Parallel:     cfg.Analysis.Parallel,
	}

	start := time.Now()
	rows, err := loader.ReadCSVFile(opts.input)
	if err != nil {
		return err
	}
	logger.Debug("Read cost export", "file", opts.input, "rows", len(rows))

	services := loader.Services(rows)
	if opts.service != "" || len(services) <= 1 {
		series, err := loader.Aggregate(rows, opts.service, time.Time{}, time.Time{})
		if err != nil {
			return err
		}
		analysisOpts.Service = opts.service
		if analysisOpts.Service == "" && len(services) == 1 {
			analysisOpts.Service = services[0]
		}
		result, err := analysis.Run(series, analysisOpts)
		if err != nil {
			return err
		}
		logger.Debug("Analysis completed", "points", series.Len(), "took", time.Since(start))
		return writeJSON(out, newReport(result, opts.recommendations))
	}

	batch := make(map[string]analytics.Series, len(services))
	for _, svc := range services {
		series, err := loader.Aggregate(rows, svc, time.Time{}, time.Time{})
		if err != nil {
			return err
		}
		batch[svc] = series
	}

	results, errs := analysis.RunBatch(batch, analysisOpts)
	br := batchReport{Services: make(map[string]report, len(results))}
	for svc, result := range results {
		br.Services[svc] = newReport(result, opts.recommendations)
	}
	if len(errs) > 0 {
		br.Errors = make(map[string]string, len(errs))
		for svc, err := range errs {
			br.Errors[svc] = err.Error()
			logger.Warn("Service analysis failed", "service", svc, "error", err)
		}
	}
	logger.Debug("Batch analysis completed", "services", len(services), "failed", len(errs), "took", time.Since(start))
	return writeJSON(out, br)
}

func newReport(result *analysis.Result, withRecommendations bool) report {
	r := report{Result: result}
	if withRecommendations {
		set := recommend.Generate(result.RecommendationInput())
		r.Recommendations = &set
	}
	return r
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
