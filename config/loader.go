package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// SettingsLookup reads a process-level setting by name
type SettingsLookup func(name string) (string, bool)

// Loader configuration loader.
// Declared sources are materialized into a SourceChain; typed getters read a
// viper view of the chain that is rebuilt whenever the chain changes, so a
// source added at runtime is visible to the next lookup.
type Loader struct {
	mu            sync.Mutex
	sources       []ConfigSource // declared sources
	chain         *SourceChain
	v             *viper.Viper // merged view (for Unmarshal and typed getters)
	syncedVersion uint64
	synced        bool
	loadedFiles   []string
	lookupSetting SettingsLookup
}

// NewLoader creates a configuration loader reading settings from the environment
func NewLoader() *Loader {
	return &Loader{
		sources:       make([]ConfigSource, 0),
		chain:         NewSourceChain(),
		v:             viper.New(),
		loadedFiles:   make([]string, 0),
		lookupSetting: os.LookupEnv,
	}
}

// SetSettingsLookup replaces the process-level settings lookup
func (l *Loader) SetSettingsLookup(fn SettingsLookup) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if fn == nil {
		fn = os.LookupEnv
	}
	l.lookupSetting = fn
}

// AddSource declares a configuration data source
func (l *Loader) AddSource(source ConfigSource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sources = append(l.sources, source)
}

// Load loads every declared source and rebuilds the chain, highest priority first.
// Sources added to the chain at runtime are dropped.
func (l *Loader) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 1. Sort by priority (high to low); equal priorities keep declaration order
	sorted := append([]ConfigSource(nil), l.sources...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() > sorted[j].Priority()
	})

	// 2. Load each source
	loaded := make([]*PropertySource, 0, len(sorted))
	files := make([]string, 0)
	for _, source := range sorted {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("load source %s: %w", source.Name(), err)
		}
		if ps, ok := source.(pathSource); ok && len(data) > 0 {
			files = append(files, ps.Path())
		}
		loaded = append(loaded, NewPropertySource(source.Name(), data))
	}

	// 3. Replace the chain; the viper view resyncs lazily
	l.chain.Reset(loaded...)
	l.loadedFiles = files
	return nil
}

// Sources returns the live source chain
func (l *Loader) Sources() *SourceChain {
	return l.chain
}

// LookupSetting reads a process-level setting
func (l *Loader) LookupSetting(name string) (string, bool) {
	l.mu.Lock()
	lookup := l.lookupSetting
	l.mu.Unlock()
	return lookup(name)
}

// Resolve walks the chain front to back for key (exact, case-sensitive)
// and reports which source supplied the value.
func (l *Loader) Resolve(key string) (interface{}, string, bool) {
	return l.chain.Lookup(key)
}

// view returns the viper view, resynchronizing it after chain mutations
func (l *Loader) view() *viper.Viper {
	l.mu.Lock()
	defer l.mu.Unlock()

	version := l.chain.Version()
	if l.synced && version == l.syncedVersion {
		return l.v
	}

	nested := layerSources(l.chain.Sources())
	v := viper.New()
	for key, value := range nested {
		v.Set(key, value)
	}

	l.v = v
	l.syncedVersion = version
	l.synced = true
	return l.v
}

// layerSources builds the nested view back to front: every source overwrites
// the scalars and subtrees of the sources behind it. Keys are lowercased,
// matching viper's case-insensitive lookups.
func layerSources(sources []*PropertySource) map[string]interface{} {
	result := make(map[string]interface{})
	for i := len(sources) - 1; i >= 0; i-- {
		applyLayer(result, sources[i].Values())
	}
	return result
}

// unflattenMap converts a flattened map to a nested map
// For example: {"server.port": 8080} -> {"server": {"port": 8080}}
func unflattenMap(flat map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	applyLayer(result, flat)
	return result
}

// applyLayer writes one flat source into m.
// Keys are applied sorted, so within a source "a.b" replaces a scalar "a".
func applyLayer(m map[string]interface{}, flat map[string]interface{}) {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		setNestedValue(m, strings.ToLower(key), flat[key])
	}
}

func setNestedValue(m map[string]interface{}, key string, value interface{}) {
	keys := splitKey(key)
	if len(keys) == 0 {
		return
	}

	current := m
	for _, k := range keys[:len(keys)-1] {
		// copy on descent: map values may belong to a source
		nested := make(map[string]interface{})
		if existing, ok := current[k].(map[string]interface{}); ok {
			for ek, ev := range existing {
				nested[ek] = ev
			}
		}
		current[k] = nested
		current = nested
	}

	// a scalar replaces a whole subtree written earlier
	current[keys[len(keys)-1]] = value
}

// splitKey splits a dotted key, dropping empty segments
func splitKey(key string) []string {
	parts := strings.Split(key, ".")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Unmarshal parses the whole configuration into a struct
func (l *Loader) Unmarshal(v interface{}) error {
	return l.view().Unmarshal(v)
}

// UnmarshalKey parses one section into a struct
func (l *Loader) UnmarshalKey(key string, v interface{}) error {
	return l.view().UnmarshalKey(key, v)
}

// Get configuration value
func (l *Loader) Get(key string) interface{} {
	return l.view().Get(key)
}

// GetString gets a string configuration
func (l *Loader) GetString(key string) string {
	return l.view().GetString(key)
}

// GetInt gets an integer configuration
func (l *Loader) GetInt(key string) int {
	return l.view().GetInt(key)
}

// GetBool gets a boolean configuration
func (l *Loader) GetBool(key string) bool {
	return l.view().GetBool(key)
}

// IsSet checks if the configuration item exists
func (l *Loader) IsSet(key string) bool {
	return l.view().IsSet(key)
}

// AllSettings returns the merged configuration as a nested map
func (l *Loader) AllSettings() map[string]interface{} {
	return l.view().AllSettings()
}

// GetLoadedFiles returns files that contributed values, highest priority first
func (l *Loader) GetLoadedFiles() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.loadedFiles...)
}

// GetViper returns the current viper view
func (l *Loader) GetViper() *viper.Viper {
	return l.view()
}
