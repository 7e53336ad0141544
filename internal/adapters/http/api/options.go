package api

// DefaultRebuildPerMinute caps POST /rebuild when no option is given.
const DefaultRebuildPerMinute = 2

type options struct {
	rebuildPerMinute int
}

func defaultOptions() *options {
	return &options{rebuildPerMinute: DefaultRebuildPerMinute}
}

// Option configures the API server.
type Option func(*options)

// WithRebuildPerMinute sets how many rebuilds per minute POST /rebuild
// accepts. Zero or less disables the limit.
func WithRebuildPerMinute(n int) Option {
	return func(o *options) {
		o.rebuildPerMinute = n
	}
}
