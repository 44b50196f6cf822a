package assets

import (
	"io"
	"os"
	"strings"

	"github.com/gogpu/lines"
)

// Option configures the cache before the walk.
type Option func(*options)

type options struct {
	root       string
	extensions []string
	progress   io.Writer
}

func defaultOptions() options {
	cfg := lines.DefaultConfig().Assets
	return options{
		root:       cfg.Root,
		extensions: cfg.Extensions,
		progress:   os.Stderr,
	}
}

// WithRoot sets the directory to walk. The default is resources/models.
func WithRoot(dir string) Option {
	return func(o *options) {
		o.root = dir
	}
}

// WithExtensions replaces the set of model file extensions. Extensions
// include the leading dot and are matched case-insensitively.
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		o.extensions = exts
	}
}

// WithProgress sends the progress line to w. nil disables it.
func WithProgress(w io.Writer) Option {
	return func(o *options) {
		o.progress = w
	}
}

// WithConfig applies the assets section of a lines.Config.
func WithConfig(c lines.AssetsConfig) Option {
	return func(o *options) {
		if c.Root != "" {
			o.root = c.Root
		}
		if len(c.Extensions) > 0 {
			o.extensions = c.Extensions
		}
		if !c.Progress {
			o.progress = nil
		}
	}
}

func (o options) extensionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.extensions))
	for _, ext := range o.extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}
