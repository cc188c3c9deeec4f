// Package config resolves settings from defaults, an optional config file,
// WXVIS_* environment variables and command-line flags, in increasing
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"wxvis/internal/scale"
)

const EnvPrefix = "WXVIS"

// Config is the resolved configuration of one run.
type Config struct {
	Log struct {
		Level  string
		Format string
		File   string
	}
	MetricsAddr string

	Epoch      time.Time
	Transition time.Duration
	// PercentileLo and PercentileHi bound the windowed color domain.
	PercentileLo float64
	PercentileHi float64
	Palette      string

	Stations string
	States   string
	DSN      string
	From     time.Time
	To       time.Time
	ERA5     string
	ERA5Step int

	Width  int
	Height int
	Font   string
}

// Interpolator returns the configured palette.
func (c Config) Interpolator() (scale.Interpolator, error) {
	switch strings.ToLower(c.Palette) {
	case "", "rdylbu":
		return scale.RdYlBu, nil
	case "viridis":
		return scale.Viridis, nil
	}
	return nil, fmt.Errorf("config: unknown palette %q", c.Palette)
}

// keys maps viper keys to flag names.
var keys = map[string]string{
	"log.level":     "log-level",
	"log.format":    "log-format",
	"log.file":      "log-file",
	"metrics.addr":  "metrics-addr",
	"epoch":         "epoch",
	"transition":    "transition",
	"percentile.lo": "percentile-lo",
	"percentile.hi": "percentile-hi",
	"palette":       "palette",
	"stations":      "stations",
	"states":        "states",
	"dsn":           "dsn",
	"from":          "from",
	"to":            "to",
	"era5.path":     "era5",
	"era5.step":     "era5-step",
	"canvas.width":  "width",
	"canvas.height": "height",
	"font":          "font",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", filepath.Join(os.TempDir(), "wxvis.log"))
	v.SetDefault("epoch", "2017-01-01")
	v.SetDefault("transition", 250*time.Millisecond)
	v.SetDefault("percentile.lo", 0.05)
	v.SetDefault("percentile.hi", 0.95)
	v.SetDefault("palette", "rdylbu")
	v.SetDefault("era5.step", 1)
	v.SetDefault("canvas.width", 600)
	v.SetDefault("canvas.height", 400)
}

// Load resolves a Config. Flags that were not registered on flags are
// simply not bound. The "config" flag, when set, names a YAML, TOML or JSON
// file.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range keys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("config: bind %s: %w", name, err)
				}
			}
		}
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("config: read %s: %w", f.Value.String(), err)
			}
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	c.Log.Level = v.GetString("log.level")
	c.Log.Format = v.GetString("log.format")
	c.Log.File = v.GetString("log.file")
	c.MetricsAddr = v.GetString("metrics.addr")
	c.Transition = v.GetDuration("transition")
	c.PercentileLo = v.GetFloat64("percentile.lo")
	c.PercentileHi = v.GetFloat64("percentile.hi")
	c.Palette = v.GetString("palette")
	c.Stations = v.GetString("stations")
	c.States = v.GetString("states")
	c.DSN = v.GetString("dsn")
	c.ERA5 = v.GetString("era5.path")
	c.ERA5Step = v.GetInt("era5.step")
	c.Width = v.GetInt("canvas.width")
	c.Height = v.GetInt("canvas.height")
	c.Font = v.GetString("font")

	var err error
	if c.Epoch, err = parseDay("epoch", v.GetString("epoch")); err != nil {
		return c, err
	}
	if s := v.GetString("from"); s != "" {
		if c.From, err = parseDay("from", s); err != nil {
			return c, err
		}
	}
	if s := v.GetString("to"); s != "" {
		if c.To, err = parseDay("to", s); err != nil {
			return c, err
		}
	}
	return c, c.Validate()
}

func parseDay(key, s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: %s: %w", key, err)
	}
	return t, nil
}

// Validate checks ranges that viper cannot.
func (c Config) Validate() error {
	var errs []error
	if c.Transition < 0 {
		errs = append(errs, fmt.Errorf("transition must not be negative, got %s", c.Transition))
	}
	if c.PercentileLo < 0 || c.PercentileHi > 1 || c.PercentileLo >= c.PercentileHi {
		errs = append(errs, fmt.Errorf("percentiles must satisfy 0 <= lo < hi <= 1, got %g/%g", c.PercentileLo, c.PercentileHi))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.ERA5Step < 1 {
		errs = append(errs, fmt.Errorf("era5 step must be at least 1, got %d", c.ERA5Step))
	}
	if !c.From.IsZero() && !c.To.IsZero() && c.To.Before(c.From) {
		errs = append(errs, errors.New("to is before from"))
	}
	if _, err := c.Interpolator(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
