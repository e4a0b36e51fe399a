// Package config provides configuration management for the LeapEDI CLI.
//
// Configuration is assembled from four layers, lowest precedence first:
// built-in defaults, a leapedi.yaml file (found by upward search), LEAPEDI_*
// environment variables, and command-line flags.
package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/leapedi/pkg/edi"
)

// Config holds all CLI configuration options.
type Config struct {
	// Delimiter overrides, each a single character or empty to let the
	// parser infer them from the input.
	SegmentTerminator   string `koanf:"segment_terminator"`
	ElementSeparator    string `koanf:"element_separator"`
	ComponentSeparator  string `koanf:"component_separator"`
	RepetitionSeparator string `koanf:"repetition_separator"`

	Encoding     string `koanf:"encoding"`
	Pretty       bool   `koanf:"pretty"`
	StatePath    string `koanf:"state_path"`
	Port         int    `koanf:"port"`
	Workers      int    `koanf:"workers"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// ProjectRoot is the directory the config file was found in, or the
	// working directory when none was. Relative paths resolve against it.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultEncoding = "utf-8"
	DefaultPort     = 8765
	DefaultWorkers  = 4
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Delimiters converts the configured delimiter strings into an edi.Options
// set. Empty fields stay unset so the parser infers them.
func (c *Config) Delimiters() (edi.Options, error) {
	var opts edi.Options
	fields := []struct {
		name  string
		value string
		slot  *edi.Delim
	}{
		{"segment_terminator", c.SegmentTerminator, &opts.SegmentTerminator},
		{"element_separator", c.ElementSeparator, &opts.ElementSeparator},
		{"component_separator", c.ComponentSeparator, &opts.ComponentSeparator},
		{"repetition_separator", c.RepetitionSeparator, &opts.RepetitionSeparator},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if utf8.RuneCountInString(f.value) != 1 {
			return edi.Options{}, fmt.Errorf("%s must be a single character, got %q", f.name, f.value)
		}
		r, _ := utf8.DecodeRuneInString(f.value)
		*f.slot = edi.NewDelim(r)
	}
	return opts, nil
}
