// Package config loads parser options from configuration files and the
// environment.
//
// Keys match the rtf.ParseOptions fields in snake case. Environment
// variables use the RTFKIT_ prefix, so max_depth is RTFKIT_MAX_DEPTH.
// Unset keys keep the rtf.DefaultOptions values.
package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"

	"github.com/tsawler/rtfkit/rtf"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "RTFKIT"

// Configuration keys.
const (
	KeyStrictMode             = "strict_mode"
	KeyMaxDepth               = "max_depth"
	KeyUseMemoryMapping       = "use_memory_mapping"
	KeyMemoryMappingThreshold = "memory_mapping_threshold"
	KeyProgressInterval       = "progress_interval"
	KeyExtractMetadata        = "extract_metadata"
	KeyDetectDocumentType     = "detect_document_type"
	KeyAutoFixErrors          = "auto_fix_errors"
	KeyKeepPartialOnCancel    = "keep_partial_on_cancel"
	KeyMaxBinarySize          = "max_binary_size"
)

// New returns a viper instance with the option defaults set and the
// environment bound.
func New() *viper.Viper {
	v := viper.New()
	d := rtf.DefaultOptions()
	v.SetDefault(KeyStrictMode, d.StrictMode)
	v.SetDefault(KeyMaxDepth, d.MaxDepth)
	v.SetDefault(KeyUseMemoryMapping, d.UseMemoryMapping)
	v.SetDefault(KeyMemoryMappingThreshold, d.MemoryMappingThreshold)
	v.SetDefault(KeyProgressInterval, d.ProgressInterval)
	v.SetDefault(KeyExtractMetadata, d.ExtractMetadata)
	v.SetDefault(KeyDetectDocumentType, d.DetectDocumentType)
	v.SetDefault(KeyAutoFixErrors, d.AutoFixErrors)
	v.SetDefault(KeyKeepPartialOnCancel, d.KeepPartialOnCancel)
	v.SetDefault(KeyMaxBinarySize, d.MaxBinarySize)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads options from a file. The format follows the extension
// (yaml, json, toml and the other formats viper supports). Environment
// variables override file values.
func Load(path string) (rtf.ParseOptions, error) {
	v := New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return rtf.ParseOptions{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Options(v)
}

// FromEnv reads options from RTFKIT_ environment variables only.
func FromEnv() (rtf.ParseOptions, error) {
	return Options(New())
}

// Options converts the settings in v to validated parse options.
func Options(v *viper.Viper) (rtf.ParseOptions, error) {
	depth := v.GetInt64(KeyMaxDepth)
	if depth < 0 || depth > math.MaxUint16 {
		return rtf.ParseOptions{}, fmt.Errorf("config: %s out of range: %d", KeyMaxDepth, depth)
	}
	threshold, err := uint32Key(v, KeyMemoryMappingThreshold)
	if err != nil {
		return rtf.ParseOptions{}, err
	}
	interval, err := uint32Key(v, KeyProgressInterval)
	if err != nil {
		return rtf.ParseOptions{}, err
	}

	opts := rtf.ParseOptions{
		StrictMode:             v.GetBool(KeyStrictMode),
		MaxDepth:               uint16(depth),
		UseMemoryMapping:       v.GetBool(KeyUseMemoryMapping),
		MemoryMappingThreshold: threshold,
		ProgressInterval:       interval,
		ExtractMetadata:        v.GetBool(KeyExtractMetadata),
		DetectDocumentType:     v.GetBool(KeyDetectDocumentType),
		AutoFixErrors:          v.GetBool(KeyAutoFixErrors),
		KeepPartialOnCancel:    v.GetBool(KeyKeepPartialOnCancel),
		MaxBinarySize:          v.GetInt64(KeyMaxBinarySize),
	}
	if err := opts.Validate(); err != nil {
		return rtf.ParseOptions{}, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}

func uint32Key(v *viper.Viper, key string) (uint32, error) {
	n := v.GetInt64(key)
	if n < 0 || n > math.MaxUint32 {
		return 0, fmt.Errorf("config: %s out of range: %d", key, n)
	}
	return uint32(n), nil
}
