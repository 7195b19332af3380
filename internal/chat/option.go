package chat

import "time"

// Default request parameters.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	DefaultUserAgent   = "kilocode/dev"
)

type options struct {
	transport   Transport
	timeout     time.Duration
	userAgent   string
	temperature float64
	maxTokens   int
}

func defaultOptions() options {
	return options{
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
}

// Option configures a completer.
type Option func(*options)

// WithTransport replaces the HTTP transport. Ignored by the langchain backend.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *options) {
		o.temperature = t
	}
}

// WithMaxTokens overrides the completion length limit.
func WithMaxTokens(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}
