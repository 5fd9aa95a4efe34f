package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/reorderlist/internal/logging"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "REORDERLIST_"

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration time.Duration

// UnmarshalText parses strings like "150ms".
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DragConfig holds drag tracking settings.
type DragConfig struct {
	// Delay is how long a press must be held before movement is a drag.
	Delay Duration `toml:"delay"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level written.
	Level string `toml:"level"`
	// File is the log file path. Empty disables logging.
	File string `toml:"file"`
}

// TraceConfig holds drag trace settings.
type TraceConfig struct {
	// File receives JSON lines of controller calls. Empty disables tracing.
	File string `toml:"file"`
	// Boxes includes box reports in the trace.
	Boxes bool `toml:"boxes"`
}

// ListConfig holds the list content.
type ListConfig struct {
	// Items are the labels shown, in initial order.
	Items []string `toml:"items"`
}

// Config is the complete configuration.
type Config struct {
	Drag  DragConfig  `toml:"drag"`
	Log   LogConfig   `toml:"log"`
	Trace TraceConfig `toml:"trace"`
	List  ListConfig  `toml:"list"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Drag: DragConfig{Delay: Duration(150 * time.Millisecond)},
		Log:  LogConfig{Level: "info"},
		List: ListConfig{Items: []string{
			"Apples", "Bananas", "Cherries", "Dates", "Elderberries",
			"Figs", "Grapes", "Honeydew", "Kiwis", "Lemons",
		}},
	}
}

// Load returns the defaults overlaid with the file at path (if path is
// not empty) and the environment. A missing file is an error only when
// path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the TOML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.decode(path, bytes.NewReader(data))
}

// LoadReader overlays TOML read from r onto c.
func (c *Config) LoadReader(r io.Reader) error {
	return c.decode("<reader>", r)
}

// decode parses TOML into c, keeping values the input does not set.
func (c *Config) decode(source string, r io.Reader) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()

	// Arrays in the file replace the default list instead of extending it
	items := c.List.Items
	c.List.Items = nil
	defer func() {
		if c.List.Items == nil {
			c.List.Items = items
		}
	}()

	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			perr.Message = "unknown setting: " + strings.TrimSpace(serr.String())
		}
		return perr
	}
	return nil
}

// ApplyEnv overlays REORDERLIST_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "DRAG_DELAY"); ok {
		var d Duration
		if err := d.UnmarshalText([]byte(v)); err != nil {
			return &ValidationError{Setting: "drag.delay", Message: fmt.Sprintf("%s%s: %v", EnvPrefix, "DRAG_DELAY", err)}
		}
		c.Drag.Delay = d
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FILE"); ok {
		c.Log.File = v
	}
	if v, ok := lookup(EnvPrefix + "TRACE_FILE"); ok {
		c.Trace.File = v
	}
	if v, ok := lookup(EnvPrefix + "ITEMS"); ok {
		var items []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
		c.List.Items = items
	}
	return nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.Drag.Delay < 0 {
		return &ValidationError{Setting: "drag.delay", Message: "must not be negative"}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Setting: "log.level", Message: err.Error()}
	}
	if len(c.List.Items) == 0 {
		return &ValidationError{Setting: "list.items", Message: "must not be empty"}
	}
	return nil
}

// LogLevel returns the parsed log level. Call after Validate.
func (c Config) LogLevel() logging.Level {
	lvl, _ := logging.ParseLevel(c.Log.Level)
	return lvl
}
