// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	// LogFormatText renders human-readable log lines.
	LogFormatText LogFormat = "text"
	// LogFormatJSON renders one JSON object per log line.
	LogFormatJSON LogFormat = "json"
	// LogFormatLogfmt renders key=value log lines.
	LogFormatLogfmt LogFormat = "logfmt"

	// CodecGzip decodes gzip streams.
	CodecGzip Codec = "gzip"
	// CodecBzip2 decodes bzip2 streams.
	CodecBzip2 Codec = "bzip2"
	// CodecXZ decodes xz streams.
	CodecXZ Codec = "xz"
	// CodecLZ4 decodes lz4 frames.
	CodecLZ4 Codec = "lz4"
	// CodecZstd decodes zstandard frames.
	CodecZstd Codec = "zstd"
	// CodecCompress decodes .Z streams through the system uncompress binary.
	CodecCompress Codec = "compress"
)

var (
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidCodec is returned when a Codec value is not recognized.
	ErrInvalidCodec = errors.New("invalid codec")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	allCodecs = []Codec{CodecGzip, CodecBzip2, CodecXZ, CodecLZ4, CodecZstd, CodecCompress}
)

type (
	// LogFormat selects the charmbracelet/log formatter.
	LogFormat string

	// Codec names a decompression format zcat understands.
	Codec string

	// Config holds the application configuration.
	Config struct {
		// SecureOpen makes widgets operate through descriptor-relative,
		// no-follow lookups after validation.
		SecureOpen bool       `json:"secure_open" mapstructure:"secure_open"`
		Log        LogConfig  `json:"log" mapstructure:"log"`
		Rm         RmConfig   `json:"rm" mapstructure:"rm"`
		Tail       TailConfig `json:"tail" mapstructure:"tail"`
		Zcat       ZcatConfig `json:"zcat" mapstructure:"zcat"`
	}

	// LogConfig configures diagnostic output.
	LogConfig struct {
		Format LogFormat `json:"format" mapstructure:"format"`
	}

	// RmConfig configures the rm widget.
	RmConfig struct {
		// Interactive prompts before every removal.
		Interactive bool `json:"interactive" mapstructure:"interactive"`
	}

	// TailConfig configures the tail widget.
	TailConfig struct {
		// Lines is the default number of lines printed.
		Lines int `json:"lines" mapstructure:"lines"`
		// FollowInterval is how often a followed file is polled for growth.
		FollowInterval time.Duration `json:"follow_interval" mapstructure:"follow_interval"`
	}

	// ZcatConfig configures the zcat widget.
	ZcatConfig struct {
		// Codecs lists the decoders zcat may use.
		Codecs []Codec `json:"codecs" mapstructure:"codecs"`
	}

	// InvalidConfigError is returned when a decoded Config breaks a constraint.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		SecureOpen: true,
		Log:        LogConfig{Format: LogFormatText},
		Rm:         RmConfig{Interactive: false},
		Tail: TailConfig{
			Lines:          10,
			FollowInterval: 10 * time.Millisecond,
		},
		Zcat: ZcatConfig{Codecs: slices.Clone(allCodecs)},
	}
}

// Validate returns an error if f is not a known log format.
func (f LogFormat) Validate() error {
	switch f {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, string(f))
	}
}

// Validate returns an error if c is not a known codec.
func (c Codec) Validate() error {
	if slices.Contains(allCodecs, c) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidCodec, string(c))
}

// Allows reports whether zcat may decode codec.
func (z ZcatConfig) Allows(codec Codec) bool {
	return slices.Contains(z.Codecs, codec)
}

// Validate checks every field and aggregates the failures.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Log.Format.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	if c.Tail.Lines < 0 {
		errs = append(errs, fmt.Errorf("tail.lines: must not be negative, got %d", c.Tail.Lines))
	}
	if c.Tail.FollowInterval <= 0 {
		errs = append(errs, fmt.Errorf("tail.follow_interval: must be positive, got %s", c.Tail.FollowInterval))
	}
	for i, codec := range c.Zcat.Codecs {
		if err := codec.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("zcat.codecs[%d]: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig so callers can use errors.Is for programmatic detection.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
