package lockscript

// MatchOption configures a Match operation.
type MatchOption func(*matchConfig)

// matchConfig holds configuration for matching a raw script against a
// template.
type matchConfig struct {
	rejectTrailing bool
	minimalInts    bool
}

// defaultMatchConfig returns the default match configuration: trailing
// tokens beyond the template are treated as the data part, and integer
// payloads are accepted even when not minimally encoded.
func defaultMatchConfig() *matchConfig {
	return &matchConfig{
		rejectTrailing: false,
		minimalInts:    false,
	}
}

// WithRejectTrailing makes Match fail when tokens remain after the
// template has been fully consumed, instead of treating them as a data
// part.
func WithRejectTrailing() MatchOption {
	return func(c *matchConfig) {
		c.rejectTrailing = true
	}
}

// WithMinimalInts makes integer placeholders reject payloads that are not
// in canonical minimal script-number form. The default accepts them, since
// foreign compilers may emit redundant sign bytes.
func WithMinimalInts() MatchOption {
	return func(c *matchConfig) {
		c.minimalInts = true
	}
}
