// Package output provides rendering for CLI command output in text,
// markdown, JSON and YAML modes, with TTY detection for the auto mode.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Mode selects how command output is rendered.
type Mode string

const (
	// ModeAuto picks text on a terminal and markdown otherwise.
	ModeAuto Mode = "auto"
	// ModeText is human-oriented output with optional styling.
	ModeText Mode = "text"
	// ModeMarkdown is plain markdown, safe for pipes and docs.
	ModeMarkdown Mode = "markdown"
	// ModeJSON is machine-readable structured output.
	ModeJSON Mode = "json"
	// ModeYAML is machine-readable structured output in YAML.
	ModeYAML Mode = "yaml"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting the TTY state from out.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state. Tests
// use this to pin down mode resolution regardless of how they are run.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
		styles: newStyles(isTTY),
	}
}

// EffectiveMode resolves ModeAuto to a concrete mode: text on a TTY,
// markdown otherwise. Explicit modes pass through.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Out returns the output writer, for handing to table writers and encoders.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// Styles returns the style set matching the renderer's TTY state.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Println writes a line to the output writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to the output writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Success writes a checkmarked confirmation line.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render("✓") + " " + msg)
}

// Info writes an informational line.
func (r *Renderer) Info(msg string) {
	r.Println(r.styles.Info.Render("•") + " " + msg)
}

// Warning writes a warning line to the error writer.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("warning:")+" "+msg)
}

// Error writes an error line to the error writer.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("error:")+" "+msg)
}

// JSON writes v as indented JSON to the output writer.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML to the output writer.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	defer func() { _ = enc.Close() }()
	return enc.Encode(v)
}

// Structured writes v in the renderer's structured mode and reports whether
// it did; text and markdown modes return false so the caller renders tables
// or prose instead.
func (r *Renderer) Structured(v any) (bool, error) {
	switch r.mode {
	case ModeJSON:
		return true, r.JSON(v)
	case ModeYAML:
		return true, r.YAML(v)
	}
	return false, nil
}
