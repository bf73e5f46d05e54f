package record

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/hunt/internal/domain"
)

// DefaultNamespace prefixes short type names given on the command line.
const DefaultNamespace = `App\`

// Registry maps type tags to record types. It is populated at startup and
// read-only afterwards.
type Registry struct {
	types map[string]*Type
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register validates t and adds it under its name.
func (r *Registry) Register(t Type) (*Type, error) {
	if err := t.init(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	if _, dup := r.types[t.Name]; dup {
		return nil, fmt.Errorf("type %q: %w", t.Name, domain.ErrAlreadyExists)
	}
	stored := &t
	r.types[t.Name] = stored
	r.order = append(r.order, t.Name)
	return stored, nil
}

// MustRegister is Register that panics on error, for static declarations.
func (r *Registry) MustRegister(t Type) *Type {
	stored, err := r.Register(t)
	if err != nil {
		panic(err)
	}
	return stored
}

// Validate checks that every relation target is registered.
func (r *Registry) Validate() error {
	for _, name := range r.order {
		t := r.types[name]
		for _, rel := range t.Relations {
			if _, ok := r.types[rel.Target]; !ok {
				return fmt.Errorf("%w: type %q relation %q targets unregistered type %q",
					domain.ErrConfiguration, t.Name, rel.Name, rel.Target)
			}
		}
	}
	return nil
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, domain.NewUnknownType(name)
	}
	return t, nil
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []*Type {
	out := make([]*Type, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.types[name])
	}
	return out
}

// Resolve maps an operator-supplied name to a registered type. Each path
// segment is StudlyCased and the result is prefixed with namespace unless
// the name starts with a backslash.
func (r *Registry) Resolve(name, namespace string) (*Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("type name is empty: %w", domain.ErrInvalidArgument)
	}
	if t, ok := r.types[name]; ok {
		return t, nil
	}
	return r.Lookup(QualifiedName(name, namespace))
}

// QualifiedName applies the command-line naming rules to name.
func QualifiedName(name, namespace string) string {
	absolute := strings.HasPrefix(name, `\`)
	name = strings.Trim(name, `\`)

	segments := strings.Split(name, `\`)
	for i, seg := range segments {
		segments[i] = Studly(seg)
	}
	name = strings.Join(segments, `\`)
	if absolute {
		return name
	}
	if namespace != "" && !strings.HasSuffix(namespace, `\`) {
		namespace += `\`
	}
	return namespace + name
}

// Studly converts snake, kebab or spaced words to StudlyCase.
func Studly(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
