package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/iwvelando/finpulse/internal/config"
	"github.com/iwvelando/finpulse/pkg/constants"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string               `yaml:"address"`
	RefreshRate    float64              `yaml:"refreshRate"`
	RefreshBurst   int                  `yaml:"refreshBurst"`
	StreamBuffer   int                  `yaml:"streamBuffer"`
	MaxMessageSize string               `yaml:"maxMessageSize"`
	Logging        config.LoggingConfig `yaml:"logging"`
	messageBytes   int64
}

// DefaultConfig returns the server configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Address:        constants.DefaultServerAddress,
		RefreshRate:    constants.DefaultRefreshRate,
		RefreshBurst:   constants.DefaultRefreshBurst,
		StreamBuffer:   constants.DefaultStreamBuffer,
		MaxMessageSize: strconv.FormatInt(constants.DefaultMaxMessageSizeBytes, 10),
		messageBytes:   constants.DefaultMaxMessageSizeBytes,
	}
}

// LoadConfig reads the server configuration from a YAML file. A missing
// file or empty path yields the defaults. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MessageSizeBytes returns the read limit for stream clients in bytes.
func (c *Config) MessageSizeBytes() int64 {
	if c.messageBytes <= 0 {
		return constants.DefaultMaxMessageSizeBytes
	}
	return c.messageBytes
}

// SetMessageSizeBytes overrides the configured read limit.
func (c *Config) SetMessageSizeBytes(size int64) {
	if size <= 0 {
		return
	}
	c.messageBytes = size
	c.MaxMessageSize = strconv.FormatInt(size, 10)
}

// normalize replaces unset or non-positive values with defaults and
// resolves MaxMessageSize.
func (c *Config) normalize() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.RefreshRate <= 0 {
		c.RefreshRate = constants.DefaultRefreshRate
	}
	if c.RefreshBurst <= 0 {
		c.RefreshBurst = constants.DefaultRefreshBurst
	}
	if c.StreamBuffer <= 0 {
		c.StreamBuffer = constants.DefaultStreamBuffer
	}

	size, err := ParseSize(c.MaxMessageSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxMessageSizeBytes
	}
	c.SetMessageSizeBytes(size)
	return nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a human-friendly byte string such as "64K" or "1MB"
// into bytes. Units are binary and case-insensitive; an empty string means
// the default stream message size.
func ParseSize(value string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if s == "" {
		return constants.DefaultMaxMessageSizeBytes, nil
	}

	digits := strings.TrimRightFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	unit := strings.TrimSpace(s[len(digits):])
	if digits == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(digits), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
