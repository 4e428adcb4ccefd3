package trie

import "log/slog"

// Option configures Build.
type Option func(*config)

type config struct {
	tailTrie bool
	logger   *slog.Logger
}

func defaultConfig() config {
	return config{logger: slog.New(slog.DiscardHandler)}
}

// WithTailTrie stores tails reversed in a nested trie instead of verbatim.
// Query results are the same either way.
func WithTailTrie(enabled bool) Option {
	return func(c *config) { c.tailTrie = enabled }
}

// WithLogger sets the logger for build events.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
