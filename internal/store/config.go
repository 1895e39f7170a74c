package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"trade-reconciler/internal/instrument"
	"trade-reconciler/internal/types"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TickOverride is a futures contract the built-in table does not know, or
// one whose values the user wants replaced.
type TickOverride struct {
	Tick  string `yaml:"tick"`
	Value string `yaml:"value"`
}

type Config struct {
	Import struct {
		Format     string `yaml:"format"`   // auto, order-based or trade-based
		Encoding   string `yaml:"encoding"` // auto, utf-8, utf-16le, utf-16be, windows-1252, gbk
		Workers    int    `yaml:"workers"`
		SampleRows int    `yaml:"sample_rows"`
	} `yaml:"import"`
	Futures struct {
		Ticks map[string]TickOverride `yaml:"ticks"`
	} `yaml:"futures"`
	Output struct {
		Dir               string `yaml:"dir"`
		Journal           bool   `yaml:"journal"`
		CompressAfterDays int    `yaml:"compress_after_days"`
	} `yaml:"output"`
	Server struct {
		CacheTTLSeconds int   `yaml:"cache_ttl_seconds"`
		CacheMaxCost    int64 `yaml:"cache_max_cost"`
		MaxUploadMB     int   `yaml:"max_upload_mb"`
	} `yaml:"server"`
	Kite struct {
		APIKeyEnv      string `yaml:"api_key_env"`
		AccessTokenEnv string `yaml:"access_token_env"`
	} `yaml:"kite"`
}

var validEncodings = map[string]bool{
	"auto": true, "utf-8": true, "utf-16le": true, "utf-16be": true, "windows-1252": true, "gbk": true,
}

func (c *Config) Validate() error {
	if c.Import.Format != "auto" {
		if _, ok := types.ParseFormat(c.Import.Format); !ok {
			return fmt.Errorf("invalid import.format '%s': must be 'auto', 'order-based' or 'trade-based'", c.Import.Format)
		}
	}
	if !validEncodings[strings.ToLower(c.Import.Encoding)] {
		return fmt.Errorf("invalid import.encoding '%s'", c.Import.Encoding)
	}
	if c.Import.Workers < 1 || c.Import.Workers > 256 {
		return fmt.Errorf("import.workers must be between 1-256, got %d", c.Import.Workers)
	}
	if c.Output.Dir == "" {
		return errors.New("output.dir cannot be empty")
	}
	if c.Output.CompressAfterDays < 0 {
		return fmt.Errorf("output.compress_after_days cannot be negative, got %d", c.Output.CompressAfterDays)
	}
	if _, err := c.TickOverrides(); err != nil {
		return err
	}
	return nil
}

// TickOverrides parses futures.ticks into instrument tick info.
func (c *Config) TickOverrides() (map[string]instrument.TickInfo, error) {
	out := make(map[string]instrument.TickInfo, len(c.Futures.Ticks))
	for base, o := range c.Futures.Ticks {
		tick, err := decimal.NewFromString(o.Tick)
		if err != nil || !tick.IsPositive() {
			return nil, fmt.Errorf("futures.ticks.%s.tick must be a positive number, got '%s'", base, o.Tick)
		}
		value, err := decimal.NewFromString(o.Value)
		if err != nil || !value.IsPositive() {
			return nil, fmt.Errorf("futures.ticks.%s.value must be a positive number, got '%s'", base, o.Value)
		}
		out[strings.ToUpper(base)] = instrument.TickInfo{Tick: tick, Value: value}
	}
	return out, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Import.Format == "" {
		c.Import.Format = "auto"
	}
	if c.Import.Encoding == "" {
		c.Import.Encoding = "auto"
	}
	if c.Import.Workers == 0 {
		c.Import.Workers = 4
	}
	if c.Import.SampleRows == 0 {
		c.Import.SampleRows = 20
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "out"
	}
	if c.Server.CacheTTLSeconds == 0 {
		c.Server.CacheTTLSeconds = 300
	}
	if c.Server.CacheMaxCost == 0 {
		c.Server.CacheMaxCost = 64 << 20
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 20
	}
	if c.Kite.APIKeyEnv == "" {
		c.Kite.APIKeyEnv = "KITE_API_KEY"
	}
	if c.Kite.AccessTokenEnv == "" {
		c.Kite.AccessTokenEnv = "KITE_ACCESS_TOKEN"
	}
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
