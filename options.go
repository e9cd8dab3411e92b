package ildoc

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/tsawler/ildoc/compose"
	"github.com/tsawler/ildoc/validate"
)

// options holds the configuration shared by Parse, Validate,
// ValidateCorpus and the Loader.
type options struct {
	// Geometry
	epsilon float64

	// Text reconstruction
	strictText    bool
	normalization compose.Normalization

	// Processing
	workers int
	logger  *slog.Logger
}

// defaultOptions returns the default options.
func defaultOptions() options {
	return options{
		epsilon:       compose.DefaultConfig().Epsilon,
		strictText:    false,
		normalization: compose.NormalizeNone,
		workers:       runtime.GOMAXPROCS(0),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// validatorConfig translates the options for package validate.
func (o options) validatorConfig() validate.Config {
	return validate.Config{
		Compose: compose.Config{
			Epsilon:           o.epsilon,
			TextMismatchFatal: o.strictText,
			Normalization:     o.normalization,
		},
		Workers: o.workers,
		Logger:  o.logger,
	}
}

// Option configures parsing and validation.
type Option func(*options)

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithEpsilon sets how far a child box may extend past its container
// before a GeometryError is reported. The default is 0.01.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		if eps >= 0 {
			o.epsilon = eps
		}
	}
}

// WithWorkers bounds the number of pages (or, for ValidateCorpus,
// documents) checked concurrently. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithStrictText reports paragraph text mismatches as errors instead of
// warnings.
func WithStrictText() Option {
	return func(o *options) {
		o.strictText = true
	}
}

// WithNormalization normalizes both sides of the paragraph text comparison.
//
// Example:
//
//	doc, err := ildoc.Parse(data, ildoc.WithNormalization(compose.NormalizeNFKC))
func WithNormalization(n compose.Normalization) Option {
	return func(o *options) {
		o.normalization = n
	}
}

// WithLogger sets the logger used for debug records. A nil logger is
// ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
