package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/logger"
)

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   logger.Config
		expected logger.Config
	}{
		{
			name:   "empty config gets defaults",
			config: logger.Config{},
			expected: logger.Config{
				Level:       "info",
				Format:      "console",
				OutputPaths: []string{"stderr"},
			},
		},
		{
			name:   "json format is kept",
			config: logger.Config{Level: "debug", Format: "json"},
			expected: logger.Config{
				Level:       "debug",
				Format:      "json",
				OutputPaths: []string{"stderr"},
			},
		},
		{
			name:   "unknown format falls back to console",
			config: logger.Config{Format: "pretty", OutputPaths: []string{"stdout"}},
			expected: logger.Config{
				Level:       "info",
				Format:      "console",
				OutputPaths: []string{"stdout"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.config
			cfg.SetDefaults()
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestNew_IsUsable(t *testing.T) {
	t.Parallel()

	log, err := logger.New(logger.Config{Level: "error"})
	require.NoError(t, err)

	enriched := log.With(logger.String("index", "faang_build_3_organism"))
	require.NotNil(t, enriched)

	enriched.Debug("filtered")
	enriched.Error("kept", logger.Error(errors.New("boom")), logger.Int("count", 1))
}

func TestNop(t *testing.T) {
	t.Parallel()

	nop := logger.NewNop()
	assert.Same(t, nop, nop.With(logger.Bool("x", true)))
	assert.NoError(t, nop.Sync())
}
