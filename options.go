package rtfkit

import (
	"context"
	"log/slog"

	"github.com/tsawler/rtfkit/rtf"
)

// ExtractOptions holds configuration for extraction.
type ExtractOptions struct {
	parse rtf.ParseOptions

	ctx      context.Context
	progress rtf.ProgressFunc
	logger   *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		parse: rtf.DefaultOptions(),
		ctx:   context.Background(),
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}

// parserOptions returns the hooks to install on the parser.
func (o ExtractOptions) parserOptions() []rtf.Option {
	var opts []rtf.Option
	if o.progress != nil {
		opts = append(opts, rtf.WithProgress(o.progress))
	}
	if o.logger != nil {
		opts = append(opts, rtf.WithLogger(o.logger))
	}
	return opts
}
