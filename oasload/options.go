package oasload

import (
	"io"

	"github.com/erraggy/oashttpguard/internal/options"
	"github.com/erraggy/oashttpguard/oastree"
)

// defaultMaxFileSize bounds how many bytes Load will read from a file path
// or io.Reader before giving up, mirroring the corpus's external-reference
// size guard applied here to the primary document instead.
const defaultMaxFileSize int64 = 10 * 1024 * 1024

// Option configures a Load call.
type Option func(*config) error

type config struct {
	filePath *string
	reader   io.Reader
	bytes    []byte

	logger        oastree.Logger
	maxFileSize   int64
	maxRefDepth   int
	maxCachedRefs int
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{maxFileSize: defaultMaxFileSize}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource(
		"oasload: must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"oasload: must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath loads the document from a local file path.
func WithFilePath(path string) Option {
	return func(cfg *config) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader loads the document by draining r.
func WithReader(r io.Reader) Option {
	return func(cfg *config) error {
		cfg.reader = r
		return nil
	}
}

// WithBytes loads the document from an already-read byte slice.
func WithBytes(data []byte) Option {
	return func(cfg *config) error {
		cfg.bytes = data
		return nil
	}
}

// WithLogger sets the structured logger the resulting Traverser logs
// through.
func WithLogger(l oastree.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxFileSize overrides the default 10 MiB ceiling on the document
// size Load will read.
func WithMaxFileSize(size int64) Option {
	return func(cfg *config) error {
		cfg.maxFileSize = size
		return nil
	}
}

// WithMaxRefDepth forwards a $ref resolution depth ceiling to the
// resulting Traverser. Zero keeps oastree's own default.
func WithMaxRefDepth(depth int) Option {
	return func(cfg *config) error {
		cfg.maxRefDepth = depth
		return nil
	}
}

// WithMaxCachedRefs forwards a cached-$ref-resolution ceiling to the
// resulting Traverser. Zero keeps oastree's own default.
func WithMaxCachedRefs(count int) Option {
	return func(cfg *config) error {
		cfg.maxCachedRefs = count
		return nil
	}
}
