// Package cmd implements the validate-uri-fields command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/audit"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/logger"
)

// Flag names. es_host and es_index_prefix keep the underscore spelling the
// audit scripts have always used.
const (
	flagESHost      = "es_host"
	flagIndexPrefix = "es_index_prefix"
	flagConfig      = "config"
	flagFields      = "fields"
	flagTypes       = "types"
	flagLogLevel    = "log-level"
	flagDebug       = "debug"
)

// flagBindings maps flags onto configuration keys.
var flagBindings = map[string]string{
	flagESHost:      keyESURL,
	flagIndexPrefix: keyIndexPrefix,
	flagFields:      keyFieldsFile,
	flagTypes:       keyTypes,
	flagLogLevel:    keyLogLevel,
	flagDebug:       keyDebug,
}

// NewRootCommand builds the validate-uri-fields command with its own viper
// instance.
func NewRootCommand() *cobra.Command {
	return newRootCommand(viper.New())
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "validate-uri-fields",
		Short: "Report URI-typed fields that do not hold valid URLs",
		Long: `validate-uri-fields reads every document meeting the FAANG standard from the
organism, specimen and experiment indices and prints each URI-typed field whose
value is not a syntactically valid URL.

Examples:
  # Audit the default build
  validate-uri-fields

  # Audit another cluster and build
  validate-uri-fields --es_host http://localhost:9200 --es_index_prefix faang_build_4

  # Only audit experiments
  validate-uri-fields --types experiment
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.String(flagESHost, elasticsearch.DefaultURL,
		"Specify the Elastic Search server (port should be included)")
	flags.String(flagIndexPrefix, DefaultIndexPrefix, "Specify which build to check")
	flags.StringVar(&configFile, flagConfig, "", "optional YAML config file")
	flags.String(flagFields, "", "YAML file replacing the built-in document type table")
	flags.StringSlice(flagTypes, nil, "only audit these document types (comma separated)")
	flags.String(flagLogLevel, logger.DefaultLevel, "log level (debug, info, warn, error)")
	flags.Bool(flagDebug, false, "enable debug logging")

	setDefaults(v)
	for flag, key := range flagBindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}
	if err := bindEnv(v); err != nil {
		panic(err)
	}

	return cmd
}

// Execute runs the root command.
func Execute() error {
	// .env is optional; environment variables may also come from the shell.
	_ = godotenv.Load()

	return NewRootCommand().ExecuteContext(context.Background())
}

func run(cmd *cobra.Command, cfg *Config) error {
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log = log.With(logger.String("service", "validate-uri-fields"))

	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	log.Info("Starting URI field audit",
		logger.String("es_host", cfg.Elasticsearch.URL),
		logger.String("index_prefix", cfg.IndexPrefix),
		logger.Strings("types", table.Names()),
	)

	ctx := cmd.Context()
	client, err := elasticsearch.NewClient(ctx, cfg.Elasticsearch, log)
	if err != nil {
		return fmt.Errorf("connect to elasticsearch: %w", err)
	}

	auditor, err := audit.New(audit.Params{
		Searcher:    client,
		Table:       table,
		IndexPrefix: cfg.IndexPrefix,
		Out:         cmd.OutOrStdout(),
		Logger:      log,
	})
	if err != nil {
		return err
	}

	if _, err = auditor.Run(ctx); err != nil {
		log.Error("Audit failed", logger.Error(err))
		return err
	}
	return nil
}

// Main runs the command and returns the process exit code.
func Main() int {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
