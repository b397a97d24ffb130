package oasload

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oashttpguard/oastree"
	"github.com/erraggy/oashttpguard/ogerrors"
)

// Load reads an OpenAPI/Swagger document from exactly one of the configured
// input sources, decodes it, and returns a ready-to-use Traverser. The
// document's declared "/paths" order is recovered from the source and
// forwarded to oastree.WithPathOrder automatically.
func Load(opts ...Option) (*oastree.Traverser, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	raw, err := readSource(cfg)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("oasload: decoding document: %w", err)
	}

	var root yaml.Node
	var order []string
	if err := yaml.Unmarshal(raw, &root); err == nil {
		order = extractPathOrder(&root)
	}

	trOpts := []oastree.Option{
		oastree.WithPathOrder(order),
		oastree.WithLogger(cfg.logger),
		oastree.WithMaxRefDepth(cfg.maxRefDepth),
		oastree.WithMaxCachedRefs(cfg.maxCachedRefs),
	}

	return oastree.New(doc, trOpts...)
}

// readSource reads the bytes from whichever single input source was
// configured, enforcing maxFileSize along the way.
func readSource(cfg *config) ([]byte, error) {
	switch {
	case cfg.filePath != nil:
		return readFile(*cfg.filePath, cfg.maxFileSize)
	case cfg.reader != nil:
		return readLimited(cfg.reader, cfg.maxFileSize)
	default:
		if int64(len(cfg.bytes)) > cfg.maxFileSize {
			return nil, &ogerrors.ResourceLimitExceeded{
				ResourceType: "document_size",
				Limit:        cfg.maxFileSize,
				Actual:       int64(len(cfg.bytes)),
			}
		}
		return cfg.bytes, nil
	}
}

func readFile(path string, maxSize int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("oasload: opening %s: %w", path, err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > maxSize {
		return nil, &ogerrors.ResourceLimitExceeded{
			ResourceType: "document_size",
			Limit:        maxSize,
			Actual:       info.Size(),
		}
	}
	return readLimited(f, maxSize)
}

// readLimited reads at most maxSize+1 bytes so it can distinguish "exactly
// the limit" from "over the limit" without buffering an unbounded stream.
func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("oasload: reading document: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, &ogerrors.ResourceLimitExceeded{
			ResourceType: "document_size",
			Limit:        maxSize,
			Actual:       int64(len(data)),
		}
	}
	return data, nil
}
