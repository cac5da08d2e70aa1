package config

import "sync"

// SourceChain is an ordered list of property sources, consulted front to back.
// The first source defining a key wins.
//
// Names are not required to be unique: AddFirst with an existing name adds a
// second entry. Name-addressed operations act on the first match.
type SourceChain struct {
	mu      sync.RWMutex
	sources []*PropertySource
	version uint64
}

// NewSourceChain creates a chain holding sources in precedence order
func NewSourceChain(sources ...*PropertySource) *SourceChain {
	c := &SourceChain{}
	c.sources = append(c.sources, sources...)
	return c
}

// AddFirst inserts source ahead of every existing source
func (c *SourceChain) AddFirst(source *PropertySource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sources = append([]*PropertySource{source}, c.sources...)
	c.version++
}

// AddLast appends source behind every existing source
func (c *SourceChain) AddLast(source *PropertySource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sources = append(c.sources, source)
	c.version++
}

// AddBefore inserts source directly ahead of the source named relative
func (c *SourceChain) AddBefore(relative string, source *PropertySource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(relative)
	if idx < 0 {
		return ErrSourceNotInChain.WithData("name", relative)
	}
	c.insertLocked(idx, source)
	return nil
}

// AddAfter inserts source directly behind the source named relative
func (c *SourceChain) AddAfter(relative string, source *PropertySource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(relative)
	if idx < 0 {
		return ErrSourceNotInChain.WithData("name", relative)
	}
	c.insertLocked(idx+1, source)
	return nil
}

// Replace swaps the source named name for source, keeping its position
func (c *SourceChain) Replace(name string, source *PropertySource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(name)
	if idx < 0 {
		return ErrSourceNotInChain.WithData("name", name)
	}
	c.sources[idx] = source
	c.version++
	return nil
}

// Remove removes and returns the first source named name, nil if absent
func (c *SourceChain) Remove(name string) *PropertySource {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(name)
	if idx < 0 {
		return nil
	}
	removed := c.sources[idx]
	c.sources = append(c.sources[:idx:idx], c.sources[idx+1:]...)
	c.version++
	return removed
}

// Reset replaces the whole chain
func (c *SourceChain) Reset(sources ...*PropertySource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sources = append([]*PropertySource(nil), sources...)
	c.version++
}

// Get returns the first source named name
func (c *SourceChain) Get(name string) (*PropertySource, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := c.indexLocked(name)
	if idx < 0 {
		return nil, false
	}
	return c.sources[idx], true
}

// Contains reports whether a source named name exists
func (c *SourceChain) Contains(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Names returns source names in precedence order
func (c *SourceChain) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

// Sources returns a snapshot of the chain in precedence order
func (c *SourceChain) Sources() []*PropertySource {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]*PropertySource(nil), c.sources...)
}

// Len number of sources
func (c *SourceChain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

// Version increases on every mutation
func (c *SourceChain) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Lookup resolves key front to back.
// It returns the value and the name of the source that defined it.
func (c *SourceChain) Lookup(key string) (interface{}, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, s := range c.sources {
		if v, ok := s.Get(key); ok {
			return v, s.Name(), true
		}
	}
	return nil, "", false
}

// Merged flattens the chain into one map, front sources overriding back ones
func (c *SourceChain) Merged() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	merged := make(map[string]interface{})
	for i := len(c.sources) - 1; i >= 0; i-- {
		for k, v := range c.sources[i].values {
			merged[k] = v
		}
	}
	return merged
}

func (c *SourceChain) indexLocked(name string) int {
	for i, s := range c.sources {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

func (c *SourceChain) insertLocked(idx int, source *PropertySource) {
	c.sources = append(c.sources, nil)
	copy(c.sources[idx+1:], c.sources[idx:])
	c.sources[idx] = source
	c.version++
}
