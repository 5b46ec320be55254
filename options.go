package xenon

// DefaultMaxDepth bounds element nesting unless WithMaxDepth overrides
// it.
const DefaultMaxDepth = 256

type parseConfig struct {
	lenientNS bool
	maxDepth  int
}

func defaultParseConfig() parseConfig {
	return parseConfig{
		maxDepth: DefaultMaxDepth,
	}
}

// Option configures a Parser or a single Parse call.
type Option func(*parseConfig)

// WithLenientNamespaces makes the parser treat a qualified name whose
// prefix has no binding in scope as an opaque local name ("prefix:local",
// empty namespace URI) instead of failing. The strict, standards-
// conformant behavior is the default.
func WithLenientNamespaces(v bool) Option {
	return func(c *parseConfig) {
		c.lenientNS = v
	}
}

// WithMaxDepth sets the maximum element nesting depth. Values below 1
// are ignored.
func WithMaxDepth(n int) Option {
	return func(c *parseConfig) {
		if n >= 1 {
			c.maxDepth = n
		}
	}
}
