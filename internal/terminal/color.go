package terminal

import (
	"os"
	"regexp"

	"github.com/arvalan/poshell/internal/config"
)

// ANSI color codes
const (
	ResetCode = "\033[0m"
)

// Color codes map
var colorCodes = map[string]string{
	"black":          "\033[30m",
	"red":            "\033[31m",
	"green":          "\033[32m",
	"yellow":         "\033[33m",
	"blue":           "\033[34m",
	"magenta":        "\033[35m",
	"cyan":           "\033[36m",
	"white":          "\033[37m",
	"bright_black":   "\033[90m",
	"bright_red":     "\033[91m",
	"bright_green":   "\033[92m",
	"bright_yellow":  "\033[93m",
	"bright_blue":    "\033[94m",
	"bright_magenta": "\033[95m",
	"bright_cyan":    "\033[96m",
	"bright_white":   "\033[97m",
}

// Regex to match ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\033\[[0-9;]*m`)

// ColorCode returns the ANSI code for a color name.
// Returns empty string for invalid color names.
func ColorCode(color string) string {
	return colorCodes[color]
}

// StripColors removes all ANSI color codes from a string.
func StripColors(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// ColorScheme decorates the prompt and REPL-level diagnostics. It never
// touches the bytes a command writes to stdout/stderr — those are a
// byte-exact contract and are never colorized.
type ColorScheme struct {
	enabled bool
	config  *config.ColorScheme
}

// NewColorScheme creates a new ColorScheme. If cfg is nil, colors are
// enabled by default subject to IsSupported.
func NewColorScheme(cfg *config.ColorScheme) *ColorScheme {
	cs := &ColorScheme{enabled: true}
	if cfg != nil {
		cs.config = cfg
		cs.enabled = cfg.Enabled
	}
	return cs
}

// SetEnabled enables or disables colors.
func (cs *ColorScheme) SetEnabled(enabled bool) {
	cs.enabled = enabled
}

// IsSupported returns true if colors are supported in the current
// environment. Checks for NO_COLOR env var and TERM=dumb.
func (cs *ColorScheme) IsSupported() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}

// Colorize applies a color to text if colors are enabled and supported.
func (cs *ColorScheme) Colorize(text, color string) string {
	if !cs.enabled || !cs.IsSupported() {
		return text
	}
	code := ColorCode(color)
	if code == "" {
		return text
	}
	return code + text + ResetCode
}

// Prompt colorizes the prompt string.
func (cs *ColorScheme) Prompt(text string) string {
	color := "green"
	if cs.config != nil && cs.config.Prompt != "" {
		color = cs.config.Prompt
	}
	return cs.Colorize(text, color)
}

// Error colorizes a REPL-level diagnostic (never a command's own stderr
// bytes).
func (cs *ColorScheme) Error(text string) string {
	color := "red"
	if cs.config != nil && cs.config.Error != "" {
		color = cs.config.Error
	}
	return cs.Colorize(text, color)
}

// Success colorizes a REPL-level diagnostic.
func (cs *ColorScheme) Success(text string) string {
	color := "green"
	if cs.config != nil && cs.config.Success != "" {
		color = cs.config.Success
	}
	return cs.Colorize(text, color)
}

// Warning colorizes a REPL-level diagnostic.
func (cs *ColorScheme) Warning(text string) string {
	color := "yellow"
	if cs.config != nil && cs.config.Warning != "" {
		color = cs.config.Warning
	}
	return cs.Colorize(text, color)
}
