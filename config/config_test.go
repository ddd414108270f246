package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/rtfkit/rtf"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromEnvDefaults(t *testing.T) {
	opts, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, rtf.DefaultOptions(), opts)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RTFKIT_STRICT_MODE", "true")
	t.Setenv("RTFKIT_MAX_DEPTH", "40")
	t.Setenv("RTFKIT_EXTRACT_METADATA", "false")
	t.Setenv("RTFKIT_MAX_BINARY_SIZE", "1024")

	opts, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, opts.StrictMode)
	assert.Equal(t, uint16(40), opts.MaxDepth)
	assert.False(t, opts.ExtractMetadata)
	assert.Equal(t, int64(1024), opts.MaxBinarySize)
	assert.True(t, opts.DetectDocumentType)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, opts rtf.ParseOptions)
	}{
		{
			name: "yaml",
			file: "rtfkit.yaml",
			content: "strict_mode: true\nmax_depth: 12\nprogress_interval: 0\n" +
				"use_memory_mapping: false\nkeep_partial_on_cancel: false\n",
			check: func(t *testing.T, opts rtf.ParseOptions) {
				assert.True(t, opts.StrictMode)
				assert.Equal(t, uint16(12), opts.MaxDepth)
				assert.Zero(t, opts.ProgressInterval)
				assert.False(t, opts.UseMemoryMapping)
				assert.False(t, opts.KeepPartialOnCancel)
				assert.True(t, opts.AutoFixErrors)
			},
		},
		{
			name:    "json",
			file:    "rtfkit.json",
			content: `{"detect_document_type": false, "memory_mapping_threshold": 4096}`,
			check: func(t *testing.T, opts rtf.ParseOptions) {
				assert.False(t, opts.DetectDocumentType)
				assert.Equal(t, uint32(4096), opts.MemoryMappingThreshold)
				assert.Equal(t, uint16(rtf.DefaultMaxDepth), opts.MaxDepth)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			tt.check(t, opts)
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "rtfkit.yaml", "max_depth: 12\n")
	t.Setenv("RTFKIT_MAX_DEPTH", "30")

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(30), opts.MaxDepth)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("depth out of range", func(t *testing.T) {
		_, err := Load(writeFile(t, "c.yaml", "max_depth: 70000\n"))
		assert.ErrorContains(t, err, "max_depth")
	})

	t.Run("negative interval", func(t *testing.T) {
		_, err := Load(writeFile(t, "c.yaml", "progress_interval: -1\n"))
		assert.ErrorContains(t, err, "progress_interval")
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := Load(writeFile(t, "c.yaml", "max_depth: 0\n"))
		var pe *rtf.ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, rtf.KindInvalidParameter, pe.Kind)
	})
}
