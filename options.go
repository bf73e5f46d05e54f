package hunt

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hunt/internal/transport/signing"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	hosts     []string
	username  string
	password  string
	retries   int
	transport http.RoundTripper
	signer    string
	signing   signing.Config

	index           string
	types           []string
	fields          []string
	settings        map[string]any
	multilingual    bool
	localeField     string
	locales         []string
	retryOnConflict *int
	maxDepth        int
	lenient         bool

	logger *zap.Logger
}

// WithHosts sets the engine addresses.
func WithHosts(hosts ...string) Option {
	return func(c *clientConfig) { c.hosts = hosts }
}

// WithBasicAuth sets engine credentials.
func WithBasicAuth(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithRetries sets the client-side retry count. Negative disables retries.
func WithRetries(n int) Option {
	return func(c *clientConfig) { c.retries = n }
}

// WithTransport sets the HTTP transport used for engine requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *clientConfig) { c.transport = rt }
}

// WithAWSSigning signs engine requests with AWS Signature Version 4.
func WithAWSSigning(key, secret, region string) Option {
	return func(c *clientConfig) {
		c.signer = signing.AWS
		c.signing = signing.Config{Key: key, Secret: secret, Region: region}
	}
}

// WithIndex sets the index name.
func WithIndex(name string) Option {
	return func(c *clientConfig) { c.index = name }
}

// WithTypes sets the default search scope.
func WithTypes(buckets ...string) Option {
	return func(c *clientConfig) { c.types = buckets }
}

// WithFields sets the default weighted search fields, e.g. "title^3".
func WithFields(fields ...string) Option {
	return func(c *clientConfig) { c.fields = fields }
}

// WithIndexSettings sets the settings used when the index is created.
func WithIndexSettings(settings map[string]any) Option {
	return func(c *clientConfig) { c.settings = settings }
}

// WithMultilingual suffixes buckets with the locale. localeField, when set,
// also restricts searches to documents of the requested locale.
func WithMultilingual(localeField string, locales ...string) Option {
	return func(c *clientConfig) {
		c.multilingual = true
		c.localeField = localeField
		c.locales = locales
	}
}

// WithRetryOnConflict sets the per-upsert version conflict retry count.
func WithRetryOnConflict(n int) Option {
	return func(c *clientConfig) { c.retryOnConflict = &n }
}

// WithMaxDepth bounds relation nesting during rehydration.
func WithMaxDepth(n int) Option {
	return func(c *clientConfig) { c.maxDepth = n }
}

// WithLenientHydration omits broken relation payloads instead of failing the search.
func WithLenientHydration() Option {
	return func(c *clientConfig) { c.lenient = true }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}
