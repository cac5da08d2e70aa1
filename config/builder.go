package config

import (
	"context"
	"os"
	"path/filepath"
)

// InitializerFunc runs against a freshly loaded Loader before it is handed out,
// e.g. to splice extra sources into its chain.
type InitializerFunc func(ctx context.Context, l *Loader)

// LoaderBuilder configuration loader builder
type LoaderBuilder struct {
	configPath   string
	envPrefix    string
	flags        interface{}
	defaults     map[string]interface{}
	overrides    map[string]interface{}
	lookup       SettingsLookup
	initializers []InitializerFunc
}

// NewLoaderBuilder creates a loader builder
func NewLoaderBuilder() *LoaderBuilder {
	return &LoaderBuilder{
		lookup: os.LookupEnv,
	}
}

// WithConfigPath sets the configuration directory
func (b *LoaderBuilder) WithConfigPath(path string) *LoaderBuilder {
	b.configPath = path
	return b
}

// WithEnvPrefix sets the environment variable prefix
func (b *LoaderBuilder) WithEnvPrefix(prefix string) *LoaderBuilder {
	b.envPrefix = prefix
	return b
}

// WithFlags sets the `config`-tagged command line argument struct
func (b *LoaderBuilder) WithFlags(flags interface{}) *LoaderBuilder {
	b.flags = flags
	return b
}

// WithDefaults sets lowest-priority default values
func (b *LoaderBuilder) WithDefaults(defaults map[string]interface{}) *LoaderBuilder {
	b.defaults = defaults
	return b
}

// WithOverrides sets explicit key=value overrides (above flags)
func (b *LoaderBuilder) WithOverrides(overrides map[string]interface{}) *LoaderBuilder {
	b.overrides = overrides
	return b
}

// WithSettingsLookup sets how process-level settings are read (default os.LookupEnv)
func (b *LoaderBuilder) WithSettingsLookup(lookup SettingsLookup) *LoaderBuilder {
	if lookup != nil {
		b.lookup = lookup
	}
	return b
}

// WithInitializer appends initializers, run in registration order after loading
func (b *LoaderBuilder) WithInitializer(fns ...InitializerFunc) *LoaderBuilder {
	b.initializers = append(b.initializers, fns...)
	return b
}

// Build builds and loads the loader
func (b *LoaderBuilder) Build() (*Loader, error) {
	return b.BuildContext(context.Background())
}

// BuildContext builds and loads the loader, then runs initializers with ctx
func (b *LoaderBuilder) BuildContext(ctx context.Context) (*Loader, error) {
	loader := NewLoader()
	loader.SetSettingsLookup(b.lookup)

	// 1. Defaults (priority 1)
	if len(b.defaults) > 0 {
		loader.AddSource(NewMapSource("defaults", b.defaults, 1))
	}

	if b.configPath != "" {
		// 2. Basic configuration file (priority 10)
		loader.AddSource(NewFileSource(filepath.Join(b.configPath, "config.yaml"), 10))

		// 3. Environment configuration file (priority 20)
		if env := b.envName(); env != "" {
			loader.AddSource(NewFileSource(filepath.Join(b.configPath, env+".yaml"), 20))
		}
	}

	// 4. Environment variables (priority 50)
	if b.envPrefix != "" {
		loader.AddSource(NewEnvSource(b.envPrefix, 50))
	}

	// 5. Command line arguments (priority 100)
	if b.flags != nil {
		loader.AddSource(NewFlagSource(b.flags, 100))
	}

	// 6. Explicit overrides (priority 110)
	if len(b.overrides) > 0 {
		loader.AddSource(NewMapSource("overrides", b.overrides, 110))
	}

	if err := loader.Load(); err != nil {
		return nil, err
	}

	for _, fn := range b.initializers {
		fn(ctx, loader)
	}

	return loader, nil
}

// envName resolves the runtime environment (APP_ENV > ENV > dev)
func (b *LoaderBuilder) envName() string {
	if env, ok := b.lookup("APP_ENV"); ok && env != "" {
		return env
	}
	if env, ok := b.lookup("ENV"); ok && env != "" {
		return env
	}
	return "dev"
}

// GetEnv retrieves the runtime environment from process environment variables
// (APP_ENV > ENV > default dev)
func GetEnv() string {
	return NewLoaderBuilder().envName()
}
