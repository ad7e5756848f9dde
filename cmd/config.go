package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/doctype"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/logger"
)

// Defaults.
const (
	DefaultIndexPrefix = "faang_build_3"
)

// Configuration keys.
const (
	keyESURL        = "elasticsearch.url"
	keyESUsername   = "elasticsearch.username"
	keyESPassword   = "elasticsearch.password"
	keyESAPIKey     = "elasticsearch.api_key"
	keyESMaxRetries = "elasticsearch.max_retries"
	keyESTimeout    = "elasticsearch.timeout"
	keyIndexPrefix  = "index_prefix"
	keyFieldsFile   = "fields_file"
	keyTypes        = "types"
	keyLogLevel     = "logging.level"
	keyLogFormat    = "logging.format"
	keyDebug        = "debug"
)

// envBindings maps configuration keys to environment variables.
var envBindings = map[string]string{
	keyESURL:        "ES_HOST",
	keyESUsername:   "ES_USERNAME",
	keyESPassword:   "ES_PASSWORD",
	keyESAPIKey:     "ES_API_KEY",
	keyESMaxRetries: "ES_MAX_RETRIES",
	keyESTimeout:    "ES_TIMEOUT",
	keyIndexPrefix:  "ES_INDEX_PREFIX",
	keyFieldsFile:   "AUDIT_FIELDS_FILE",
	keyTypes:        "AUDIT_TYPES",
	keyLogLevel:     "LOG_LEVEL",
	keyLogFormat:    "LOG_FORMAT",
	keyDebug:        "DEBUG",
}

// Config is the resolved configuration of one run.
type Config struct {
	Elasticsearch elasticsearch.Config
	IndexPrefix   string
	FieldsFile    string
	Types         []string
	Logging       logger.Config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyESURL, elasticsearch.DefaultURL)
	v.SetDefault(keyESMaxRetries, elasticsearch.DefaultMaxRetries)
	v.SetDefault(keyESTimeout, elasticsearch.DefaultTimeout)
	v.SetDefault(keyIndexPrefix, DefaultIndexPrefix)
	v.SetDefault(keyLogLevel, logger.DefaultLevel)
	v.SetDefault(keyLogFormat, logger.DefaultFormat)
}

func bindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}
	return nil
}

// loadConfig reads the optional config file and resolves every key.
// Precedence is flag, environment, config file, default.
func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Elasticsearch: elasticsearch.Config{
			URL:        v.GetString(keyESURL),
			Username:   v.GetString(keyESUsername),
			Password:   v.GetString(keyESPassword),
			APIKey:     v.GetString(keyESAPIKey),
			MaxRetries: v.GetInt(keyESMaxRetries),
			Timeout:    v.GetDuration(keyESTimeout),
		},
		IndexPrefix: v.GetString(keyIndexPrefix),
		FieldsFile:  v.GetString(keyFieldsFile),
		Types:       splitTypes(v.GetStringSlice(keyTypes)),
		Logging: logger.Config{
			Level:  v.GetString(keyLogLevel),
			Format: v.GetString(keyLogFormat),
		},
	}

	if v.GetBool(keyDebug) {
		cfg.Logging.Level = string(logger.DebugLevel)
		cfg.Logging.Development = true
	}

	if cfg.IndexPrefix == "" {
		return nil, fmt.Errorf("%s must not be empty", keyIndexPrefix)
	}

	return cfg, nil
}

// splitTypes flattens comma separated entries and drops blanks.
func splitTypes(raw []string) []string {
	var types []string
	for _, entry := range raw {
		for _, name := range strings.Split(entry, ",") {
			if name = strings.TrimSpace(name); name != "" {
				types = append(types, name)
			}
		}
	}
	return types
}

// loadTable returns the document type table selected by cfg.
func loadTable(cfg *Config) (doctype.Table, error) {
	table := doctype.Default()
	if cfg.FieldsFile != "" {
		loaded, err := doctype.LoadFile(cfg.FieldsFile)
		if err != nil {
			return doctype.Table{}, err
		}
		table = loaded
	}
	return table.Only(cfg.Types...)
}
