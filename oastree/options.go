package oastree

// Option configures a Traverser at construction time.
type Option func(*config) error

type config struct {
	logger        Logger
	pathOrder     []string
	maxRefDepth   int
	maxCachedRefs int
}

const (
	defaultMaxRefDepth   = 100
	defaultMaxCachedRefs = 10_000
)

func defaultConfig() *config {
	return &config{
		logger:        NopLogger{},
		maxRefDepth:   defaultMaxRefDepth,
		maxCachedRefs: defaultMaxCachedRefs,
	}
}

// WithLogger attaches a Logger. Traverser construction and reference-cycle
// detection log at Debug; nothing is logged by default.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithPathOrder supplies the declaration order of the document's "paths"
// keys, as recovered by a loader that preserves source key order (plain
// map[string]any decoding does not). When absent, Traverser falls back to
// Go's (unordered) map iteration, and declaration-order tie-breaking
// between overlapping templates is not guaranteed.
func WithPathOrder(templates []string) Option {
	return func(c *config) error {
		c.pathOrder = templates
		return nil
	}
}

// WithMaxRefDepth caps the length of a single $ref resolution chain.
func WithMaxRefDepth(depth int) Option {
	return func(c *config) error {
		if depth > 0 {
			c.maxRefDepth = depth
		}
		return nil
	}
}

// WithMaxCachedRefs caps the number of distinct pointers the resolved-ref
// cache will hold before further insertions are rejected.
func WithMaxCachedRefs(n int) Option {
	return func(c *config) error {
		if n > 0 {
			c.maxCachedRefs = n
		}
		return nil
	}
}

func applyOptions(opts []Option) (*config, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
