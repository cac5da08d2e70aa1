package config

import (
	"context"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/do/v2"
)

var envPrefixPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// ProvideLoaderOptions options for building a Loader
type ProvideLoaderOptions struct {
	ConfigPath     string                 // configuration directory
	ConfigPrefix   string                 // environment variable prefix
	Flags          interface{}            // `config`-tagged command line arguments
	Defaults       map[string]interface{} // lowest-priority values
	Overrides      map[string]interface{} // explicit key=value overrides
	SettingsLookup SettingsLookup         // process-level settings, os.LookupEnv when nil
	Initializers   []InitializerFunc      // run after loading, in order
	Context        context.Context        // passed to initializers, Background when nil
}

// Validate implements Validator
func (o ProvideLoaderOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.ConfigPrefix, validation.Match(envPrefixPattern)),
	)
}

// ProvideLoader creates a Loader provider.
// Config is the lowest-level component and has no dependencies.
//
//	do.Provide(injector, config.ProvideLoader(config.ProvideLoaderOptions{
//	    ConfigPath:   "./configs",
//	    ConfigPrefix: "WEBCONFIG",
//	}))
//	loader := do.MustInvoke[*config.Loader](injector)
func ProvideLoader(opts ProvideLoaderOptions) func(do.Injector) (*Loader, error) {
	return func(i do.Injector) (*Loader, error) {
		if err := ValidateAll(opts); err != nil {
			return nil, err
		}

		ctx := opts.Context
		if ctx == nil {
			ctx = context.Background()
		}

		loader, err := NewLoaderBuilder().
			WithConfigPath(opts.ConfigPath).
			WithEnvPrefix(opts.ConfigPrefix).
			WithFlags(opts.Flags).
			WithDefaults(opts.Defaults).
			WithOverrides(opts.Overrides).
			WithSettingsLookup(opts.SettingsLookup).
			WithInitializer(opts.Initializers...).
			BuildContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("config loader build failed: %w", err)
		}

		return loader, nil
	}
}

// ProvideLoaderValue registers an already built Loader (tests, special cases)
//
//	loader, _ := config.NewLoaderBuilder().Build()
//	do.Provide(injector, config.ProvideLoaderValue(loader))
func ProvideLoaderValue(loader *Loader) func(do.Injector) (*Loader, error) {
	return func(i do.Injector) (*Loader, error) {
		return loader, nil
	}
}
