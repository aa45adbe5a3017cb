package npr

import "log/slog"

// Option configures a filter during creation.
//
// Example:
//
//	f := npr.NewKang(npr.WithProgress(func(p npr.Progress) {
//	    fmt.Printf("%s %s %d/%d\n", p.Filter, p.Stage, p.Done, p.Total)
//	}))
type Option func(*options)

// options holds optional configuration shared by all filters.
type options struct {
	logger   *slog.Logger
	progress func(Progress)
}

// Progress is reported by long-running filters between iterations.
type Progress struct {
	Filter Type
	Stage  string
	Done   int
	Total  int
}

// WithLogger sets a filter-specific logger instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithProgress installs a progress callback. The callback runs on the
// goroutine that called Update.
func WithProgress(fn func(Progress)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
