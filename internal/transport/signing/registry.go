package signing

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/kailas-cloud/hunt/internal/domain"
)

// Config holds the settings of one named signing handler.
type Config struct {
	Key     string
	Secret  string
	Token   string
	Region  string
	Service string
}

// Factory builds a signing round tripper around next.
type Factory func(cfg Config, next http.RoundTripper) (http.RoundTripper, error)

// Registry resolves signing handlers by name.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in handlers.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(AWS, NewAWS)
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names returns the registered handler names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Wrap returns next wrapped by the handler registered under name.
// A nil next means http.DefaultTransport.
func (r *Registry) Wrap(name string, cfg Config, next http.RoundTripper) (http.RoundTripper, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown signing handler %q", domain.ErrConfiguration, name)
	}
	if next == nil {
		next = http.DefaultTransport
	}
	rt, err := f(cfg, next)
	if err != nil {
		return nil, fmt.Errorf("signing handler %q: %w", name, err)
	}
	return rt, nil
}
