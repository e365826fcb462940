// Package config provides configuration types and defaults for hostpad.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zjrosen/hostpad/internal/log"
	"github.com/zjrosen/hostpad/internal/textbox"
	"github.com/zjrosen/hostpad/internal/tracing"
)

// Config holds all configuration options for hostpad.
type Config struct {
	Textbox TextboxConfig  `mapstructure:"textbox"`
	Catalog CatalogConfig  `mapstructure:"catalog"`
	UI      UIConfig       `mapstructure:"ui"`
	Tracing tracing.Config `mapstructure:"tracing"`

	// Bindings maps chord names ("ctrl+t", "left", "x") to command IDs
	// ("edit.end"). Applied on top of the default bindings.
	Bindings map[string]string `mapstructure:"bindings"`

	// Flags toggles optional behavior; see the flags package.
	Flags map[string]bool `mapstructure:"flags"`
}

// TextboxConfig sizes and configures the edit box.
type TextboxConfig struct {
	Rows        int  `mapstructure:"rows"`
	Cols        int  `mapstructure:"cols"`
	InsertMode  bool `mapstructure:"insert_mode"`
	StripSpaces bool `mapstructure:"strip_spaces"`
}

// CatalogConfig locates the host database.
type CatalogConfig struct {
	Path     string        `mapstructure:"path"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 0 uses the catalog default
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// DefaultTracesFilePath returns ~/.config/hostpad/traces/traces.jsonl, or
// "" when the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hostpad", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		Textbox: TextboxConfig{
			Rows:        5,
			Cols:        30,
			InsertMode:  false,
			StripSpaces: true,
		},
		Catalog: CatalogConfig{
			Path:     "hosts.db",
			CacheTTL: 10 * time.Minute,
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
		},
		Tracing: tr,
	}
}

// TextboxOptions converts the textbox section into constructor options.
func (c Config) TextboxOptions() textbox.Config {
	return textbox.Config{
		Rows:        c.Textbox.Rows,
		Cols:        c.Textbox.Cols,
		InsertMode:  c.Textbox.InsertMode,
		StripSpaces: c.Textbox.StripSpaces,
	}
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if err := ValidateTextbox(c.Textbox); err != nil {
		return err
	}
	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("catalog.cache_ttl must not be negative, got %s", c.Catalog.CacheTTL)
	}
	if err := ValidateBindings(c.Bindings); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", c.UI.MarkdownStyle)
	}
	return nil
}

// ValidateTextbox rejects non-positive dimensions.
func ValidateTextbox(tb TextboxConfig) error {
	if tb.Rows <= 0 {
		return fmt.Errorf("textbox.rows must be positive, got %d", tb.Rows)
	}
	if tb.Cols <= 0 {
		return fmt.Errorf("textbox.cols must be positive, got %d", tb.Cols)
	}
	return nil
}

// ValidateBindings rejects unknown chord names and command IDs.
func ValidateBindings(bindings map[string]string) error {
	for _, chord := range sortedChords(bindings) {
		if _, err := textbox.ParseKey(chord); err != nil {
			return fmt.Errorf("bindings: %w", err)
		}
		id := bindings[chord]
		if textbox.Description(id) == "" {
			return fmt.Errorf("bindings.%s: unknown command %q", chord, id)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tr.SampleRate)
	}

	switch tr.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
	}

	if tr.Enabled {
		if tr.Exporter == "file" && tr.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tr.Exporter == "otlp" && tr.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// ApplyBindings binds every configured chord on tb. Call Validate first
// for friendlier messages; errors here name the first bad entry.
func ApplyBindings(tb *textbox.Textbox, bindings map[string]string) error {
	for _, chord := range sortedChords(bindings) {
		key, err := textbox.ParseKey(chord)
		if err != nil {
			return fmt.Errorf("bindings: %w", err)
		}
		if err := tb.Bind(key, bindings[chord]); err != nil {
			return fmt.Errorf("bindings.%s: %w", chord, err)
		}
		log.Debug(log.CatConfig, "bound key", "chord", chord, "command", bindings[chord])
	}
	return nil
}

func sortedChords(bindings map[string]string) []string {
	chords := make([]string, 0, len(bindings))
	for chord := range bindings {
		chords = append(chords, chord)
	}
	sort.Strings(chords)
	return chords
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# hostpad configuration

# Edit box geometry and behaviour
textbox:
  rows: 5
  cols: 30
  insert_mode: false    # true shifts text right on input instead of overwriting
  strip_spaces: true    # ignore trailing blanks for cursor motion and output

# Host catalog
catalog:
  path: hosts.db        # SQLite database; "~" and $VARS expand, a directory gets hosts.db
  cache_ttl: 10m        # how long the grouped host list is cached in-process

ui:
  markdown_style: dark  # "dark" (default) or "light" for 'hostpad keys'

# Extra key bindings, applied over the defaults.
# Keys are chord names (ctrl+a .. ctrl+z, up, down, left, right, backspace,
# delete, home, end, enter, space, or a single character); values are
# command IDs. Run 'hostpad keys' for the full list.
# bindings:
#   ctrl+t: edit.end
#   ctrl+u: delete.to_line_end

# Optional behavior
# flags:
#   bypass-host-cache: false  # read the host list from the database every time
#   review-all: false         # 'hostpad review' also visits reviewed hosts

# Tracing of edit sessions and catalog operations
# tracing:
#   enabled: false                 # default: false
#   exporter: file                 # none, file, stdout, otlp (default: file)
#   file_path: ~/.config/hostpad/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
