package indexer

import (
	"net/http"

	"go.uber.org/zap"
)

// DefaultEndpointTemplate is the indexing API URL; {network} and {apiKey} are substituted per chain.
const DefaultEndpointTemplate = "https://{network}.g.alchemy.com/v2/{apiKey}"

// Option configures clients and pools using the functional options pattern.
type Option func(*settings)

type settings struct {
	logger           *zap.Logger
	httpClient       *http.Client
	endpointTemplate string
}

// WithLogger sets a custom logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithHTTPClient sets the HTTP client used for indexing API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.httpClient = c }
}

// WithEndpointTemplate overrides DefaultEndpointTemplate. Only pools use it.
func WithEndpointTemplate(tmpl string) Option {
	return func(s *settings) { s.endpointTemplate = tmpl }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:           zap.NewNop(),
		httpClient:       http.DefaultClient,
		endpointTemplate: DefaultEndpointTemplate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
