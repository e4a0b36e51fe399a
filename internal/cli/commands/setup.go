package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapedi/internal/cli/config"
	"github.com/leapstack-labs/leapedi/internal/cli/output"
	"github.com/leapstack-labs/leapedi/internal/state"
	"github.com/leapstack-labs/leapedi/pkg/edi"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer

	// Delims are the delimiter overrides from configuration; unset slots
	// are left for the parser to infer per document.
	Delims edi.Options
}

// NewCommandContext assembles the config, logger, renderer and delimiter set
// a command works with.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	delims, err := cfg.Delimiters()
	if err != nil {
		return nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Delims:   delims,
	}, nil
}

// OpenStore opens the conversion ledger when a state path is configured,
// returning a nil store otherwise. The cleanup function is always safe to
// defer.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, func(), error) {
	if c.Cfg.StatePath == "" {
		return nil, func() {}, nil
	}

	if dir := filepath.Dir(c.Cfg.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, err
		}
	}

	s := state.NewSQLiteStore()
	if err := s.Open(c.Cfg.StatePath); err != nil {
		return nil, nil, err
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, nil, err
	}
	return s, func() { _ = s.Close() }, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		SegmentTerminator:   os.Getenv("LEAPEDI_SEGMENT_TERMINATOR"),
		ElementSeparator:    os.Getenv("LEAPEDI_ELEMENT_SEPARATOR"),
		ComponentSeparator:  os.Getenv("LEAPEDI_COMPONENT_SEPARATOR"),
		RepetitionSeparator: os.Getenv("LEAPEDI_REPETITION_SEPARATOR"),
		Encoding:            getEnvOrDefault("LEAPEDI_ENCODING", config.DefaultEncoding),
		StatePath:           os.Getenv("LEAPEDI_STATE_PATH"),
		Port:                config.DefaultPort,
		Workers:             config.DefaultWorkers,
		Verbose:             os.Getenv("LEAPEDI_VERBOSE") == "true",
		OutputFormat:        getEnvOrDefault("LEAPEDI_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
