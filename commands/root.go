// Package commands implements the vocabtools command line.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/italia/vocabtools/config"
	"github.com/italia/vocabtools/graph"
	"github.com/italia/vocabtools/loader"
	"github.com/italia/vocabtools/metrics"
)

const appName = "vocabtools"

// app holds the state shared by the commands of one invocation
type app struct {
	configPath  string
	logLevel    string
	metricsFile string

	cfg      *config.Config
	logger   *slog.Logger
	loader   *loader.OfflineDocumentLoader
	metrics  *metrics.Metrics
	reported bool
}

func newApp() *app {
	return &app{
		cfg:     config.DefaultConfig(),
		logger:  slog.Default(),
		loader:  loader.NewOfflineDocumentLoader(),
		metrics: metrics.New(),
	}
}

// NewRootCommand returns the vocabtools command tree
func NewRootCommand() *cobra.Command {
	return newApp().rootCommand()
}

// Execute runs the command line and exits with status 1 on failure
func Execute() {
	a := newApp()
	if err := a.rootCommand().Execute(); err != nil {
		if !a.reported {
			fmt.Fprintln(os.Stderr, failureLine(os.Stderr, appName, err))
		}
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Publish SKOS vocabularies as framed JSON-LD, CSV and data packages",
		Long: `vocabtools turns a SKOS controlled vocabulary in Turtle into a framed
JSON-LD document, a CSV file and a Frictionless data package descriptor,
and checks that none of them states anything the vocabulary does not.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (TOML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	cmd.AddCommand(
		a.jsonldCommand(),
		a.datapackageCommand(),
		a.csvCommand(),
		a.openapiCommand(),
		a.configCommand(),
		versionCommand(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var level slog.Level
	switch strings.ToLower(a.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", a.logLevel)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.NewLoader(a.logger).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	a.loader = loader.NewOfflineDocumentLoader()
	for u, path := range cfg.Contexts {
		a.loader.AddFile(u, path)
		a.logger.Debug("Mapped JSON-LD context", slog.String("url", u), slog.String("path", path))
	}
	return nil
}

// action wraps the body of a command: it times it, exports the metrics
// and prints the status line. body returns the success message.
func (a *app) action(what string, body func(cmd *cobra.Command) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		start := time.Now()
		msg, err := body(cmd)
		a.metrics.ObserveCommand(cmd.CommandPath(), err, time.Since(start))

		if a.metricsFile != "" {
			if werr := a.metrics.WriteTextfile(a.metricsFile); werr != nil {
				a.logger.Warn("Failed to write metrics", slog.String("path", a.metricsFile), slog.String("error", werr.Error()))
			}
		}

		if err != nil {
			a.reported = true
			fmt.Fprintln(cmd.ErrOrStderr(), failureLine(cmd.ErrOrStderr(), what, err))
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successLine(cmd.OutOrStdout(), msg))
		return nil
	}
}

// newIndex returns the constructor of the configured triple index
func (a *app) newIndex() func() (graph.Index, error) {
	if a.cfg.Index.Backend == config.BackendBadger {
		dir, logger := a.cfg.Index.Dir, a.logger
		return func() (graph.Index, error) { return graph.NewBadgerIndex(dir, logger) }
	}
	return func() (graph.Index, error) { return graph.NewMemoryIndex(), nil }
}
