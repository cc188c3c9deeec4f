package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("log-level", "info", "")
	fs.String("stations", "", "")
	fs.Duration("transition", 250*time.Millisecond, "")
	fs.String("palette", "rdylbu", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Epoch.Equal(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("epoch = %v", c.Epoch)
	}
	if c.Transition != 250*time.Millisecond {
		t.Errorf("transition = %v", c.Transition)
	}
	if c.PercentileLo != 0.05 || c.PercentileHi != 0.95 {
		t.Errorf("percentiles = %v/%v", c.PercentileLo, c.PercentileHi)
	}
	if c.Width != 600 || c.Height != 400 {
		t.Errorf("canvas = %dx%d", c.Width, c.Height)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "wxvis.yaml")
	body := "stations: from-file.csv\nlog:\n  level: warn\npalette: viridis\n"
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WXVIS_LOG_LEVEL", "error")

	fs := newFlags()
	if err := fs.Parse([]string{"--config", file, "--stations", "from-flag.csv"}); err != nil {
		t.Fatal(err)
	}
	c, err := Load(fs)
	if err != nil {
		t.Fatal(err)
	}
	if c.Stations != "from-flag.csv" {
		t.Errorf("stations = %q, flag should win", c.Stations)
	}
	if c.Log.Level != "error" {
		t.Errorf("log level = %q, env should beat the file", c.Log.Level)
	}
	if c.Palette != "viridis" {
		t.Errorf("palette = %q, file should beat the flag default", c.Palette)
	}
}

func TestValidate(t *testing.T) {
	base, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"negative transition", func(c *Config) { c.Transition = -time.Second }},
		{"inverted percentiles", func(c *Config) { c.PercentileLo, c.PercentileHi = 0.9, 0.1 }},
		{"zero canvas", func(c *Config) { c.Width = 0 }},
		{"era5 step", func(c *Config) { c.ERA5Step = 0 }},
		{"to before from", func(c *Config) {
			c.From = time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC)
			c.To = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
		}},
		{"unknown palette", func(c *Config) { c.Palette = "plasma" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mod(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_BadEpoch(t *testing.T) {
	t.Setenv("WXVIS_EPOCH", "2017/01/01")
	if _, err := Load(nil); err == nil {
		t.Error("expected error for malformed epoch")
	}
}
