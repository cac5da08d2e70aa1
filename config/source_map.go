package config

// MapSource static in-memory data source (defaults, explicit overrides)
type MapSource struct {
	name     string
	values   map[string]interface{}
	priority int
}

// NewMapSource creates a static source; values are copied
func NewMapSource(name string, values map[string]interface{}, priority int) *MapSource {
	copied := make(map[string]interface{}, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &MapSource{name: name, values: copied, priority: priority}
}

// Name data source name
func (s *MapSource) Name() string {
	return s.name
}

// Priority priority
func (s *MapSource) Priority() int {
	return s.priority
}

// Load returns a copy of the values
func (s *MapSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		result[k] = v
	}
	return result, nil
}
