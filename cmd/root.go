package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"memorylane/internal"
)

// Version is overwritten from the embedded VERSION file at startup.
var Version = "dev"

var (
	exifToolFlag bool
	workersFlag  int
	logFileFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:          "memorylane",
	Short:        "Organize, deduplicate, and rename your photo and video collections",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.InitMetadata()
	},
}

// ExecuteContext runs the CLI with a cancellable context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ApplyVersion pushes Version into the cobra command.
func ApplyVersion() {
	rootCmd.Version = Version
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&exifToolFlag, "exiftool", false, "Use the exiftool binary as a metadata fallback")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 0, "Files classified in parallel (default from config, 1)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	ApplyVersion()
}

// env bundles what every command needs; Close releases the exiftool process and log file.
type env struct {
	conf      *internal.Config
	log       *internal.Logger
	extractor *internal.Extractor
	exifTool  *internal.ExifToolReader
}

// loadEnv merges config file values with command-line flags.
func loadEnv(cmd *cobra.Command) (*env, error) {
	conf, err := internal.LoadConfig()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("exiftool") {
		conf.UseExifTool = exifToolFlag
	}
	if flags.Changed("workers") && workersFlag > 0 {
		conf.Workers = workersFlag
	}
	if logFileFlag != "" {
		conf.LogFile = logFileFlag
	}
	if logLevelFlag != "" {
		conf.LogLevel = logLevelFlag
	}
	return newEnv(conf)
}

func newEnv(conf *internal.Config) (*env, error) {
	logger, err := internal.NewLogger(conf.LogFile, conf.LogLevel)
	if err != nil {
		return nil, err
	}
	e := &env{conf: conf, log: logger}

	var fallback internal.MetadataReader
	if conf.UseExifTool {
		et, err := internal.NewExifToolReader()
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("--exiftool requested: %w", err)
		}
		e.exifTool = et
		fallback = et
	}
	e.extractor = internal.NewExtractor(logger, fallback)
	return e, nil
}

func (e *env) pipeline() *internal.Pipeline {
	return internal.NewPipeline(e.conf, e.extractor, e.log)
}

func (e *env) Close() {
	if e.exifTool != nil {
		if err := e.exifTool.Close(); err != nil {
			e.log.WithError(err).Warn("failed to stop exiftool")
		}
	}
	e.log.Close()
}
