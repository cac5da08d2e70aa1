package config

import "sort"

// PropertySource is a named, already loaded set of flat configuration values.
// It is the element type of a SourceChain.
type PropertySource struct {
	name   string
	values map[string]interface{}
}

// NewPropertySource copies values into a new named source
func NewPropertySource(name string, values map[string]interface{}) *PropertySource {
	copied := make(map[string]interface{}, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &PropertySource{name: name, values: copied}
}

// NewStringPropertySource builds a source from string values
func NewStringPropertySource(name string, values map[string]string) *PropertySource {
	copied := make(map[string]interface{}, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &PropertySource{name: name, values: copied}
}

// Name source name
func (p *PropertySource) Name() string {
	return p.name
}

// Get returns the value stored under key (exact, case-sensitive)
func (p *PropertySource) Get(key string) (interface{}, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Contains reports whether key is defined
func (p *PropertySource) Contains(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the defined keys in sorted order
func (p *PropertySource) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len number of keys
func (p *PropertySource) Len() int {
	return len(p.values)
}

// Values returns a copy of all values
func (p *PropertySource) Values() map[string]interface{} {
	copied := make(map[string]interface{}, len(p.values))
	for k, v := range p.values {
		copied[k] = v
	}
	return copied
}
