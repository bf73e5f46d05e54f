package db

// Mapping is the field schema of one bucket.
type Mapping struct {
	SourceEnabled bool
	Properties    map[string]any
}

// NewMapping creates a mapping with the source retained.
func NewMapping(properties map[string]any) *Mapping {
	if properties == nil {
		properties = map[string]any{}
	}
	return &Mapping{SourceEnabled: true, Properties: properties}
}

// Body renders the put-mapping request body keyed by bucket.
func (m *Mapping) Body(bucket string) map[string]any {
	return map[string]any{
		bucket: map[string]any{
			"_source":    map[string]any{"enabled": m.SourceEnabled},
			"properties": m.Properties,
		},
	}
}

// IndexSettings renders the create-index request body; nil when there are no settings.
func IndexSettings(settings map[string]any) map[string]any {
	if len(settings) == 0 {
		return nil
	}
	return map[string]any{"settings": settings}
}
