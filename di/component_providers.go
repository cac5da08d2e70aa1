package di

import (
	"context"
	"io"

	"github.com/KOMKZ/yogan-webconfig/config"
	"github.com/KOMKZ/yogan-webconfig/logger"
	"github.com/KOMKZ/yogan-webconfig/overlay"
	"github.com/samber/do/v2"
)

// BootstrapLoggerManager names the logger manager used before configuration is read
const BootstrapLoggerManager = "logger.bootstrap"

// CoreOptions core component options
type CoreOptions struct {
	AppName        string                 // app_name field of every log entry
	ConfigPath     string                 // configuration directory
	ConfigPrefix   string                 // environment variable prefix
	Overrides      map[string]interface{} // explicit key=value overrides
	SettingsLookup config.SettingsLookup  // process-level settings, os.LookupEnv when nil
	Overlay        overlay.Options        // overlay indirection setting and source name
	LogLevel       string                 // overrides the configured level when set
	LogOutput      io.Writer              // console sink, stderr when nil
	Context        context.Context        // start-up context (trace id for overlay diagnostics)
}

// ProvideBootstrapLoggerManager creates the console logger manager used while
// configuration is being loaded
func ProvideBootstrapLoggerManager(opts CoreOptions) func(do.Injector) (*logger.Manager, error) {
	return func(i do.Injector) (*logger.Manager, error) {
		cfg := logger.DefaultManagerConfig()
		cfg.AppName = opts.AppName
		cfg.Output = opts.LogOutput
		if opts.LogLevel != "" {
			cfg.Level = opts.LogLevel
		}
		if err := config.ValidateAll(cfg); err != nil {
			return nil, err
		}
		return logger.NewManager(cfg), nil
	}
}

// ProvideOverlay creates the overlay Initializer.
// Depends on the bootstrap logger manager only.
func ProvideOverlay(opts CoreOptions) func(do.Injector) (*overlay.Initializer, error) {
	return func(i do.Injector) (*overlay.Initializer, error) {
		mgr, err := do.InvokeNamed[*logger.Manager](i, BootstrapLoggerManager)
		if err != nil {
			return nil, err
		}
		return overlay.NewInitializer(opts.Overlay, mgr.GetLogger("overlay"))
	}
}

// ProvideConfigLoader creates the config.Loader provider; the overlay is
// applied once the declared sources are loaded.
func ProvideConfigLoader(opts CoreOptions) func(do.Injector) (*config.Loader, error) {
	return overlay.ProvideLoader(config.ProvideLoaderOptions{
		ConfigPath:     opts.ConfigPath,
		ConfigPrefix:   opts.ConfigPrefix,
		Overrides:      opts.Overrides,
		SettingsLookup: opts.SettingsLookup,
		Context:        opts.Context,
	})
}

// ProvideLoggerManager creates the logger.Manager provider.
// Depends on config.Loader: the "logger" section is decoded over the defaults.
func ProvideLoggerManager(opts CoreOptions) func(do.Injector) (*logger.Manager, error) {
	return func(i do.Injector) (*logger.Manager, error) {
		loader, err := do.Invoke[*config.Loader](i)
		if err != nil {
			return nil, err
		}

		cfg := logger.DefaultManagerConfig()
		if err := loader.UnmarshalKey("logger", &cfg); err != nil {
			return nil, err
		}
		if cfg.AppName == "" {
			cfg.AppName = opts.AppName
		}
		if opts.LogLevel != "" {
			cfg.Level = opts.LogLevel
		}
		cfg.Output = opts.LogOutput

		cfg.ApplyDefaults()
		if err := config.ValidateAll(cfg); err != nil {
			return nil, err
		}
		return logger.NewManager(cfg), nil
	}
}

// ProvideCtxLogger creates a named CtxZapLogger provider factory
func ProvideCtxLogger(moduleName string) func(do.Injector) (*logger.CtxZapLogger, error) {
	return func(i do.Injector) (*logger.CtxZapLogger, error) {
		mgr, err := do.Invoke[*logger.Manager](i)
		if err != nil {
			return nil, err
		}
		return mgr.GetLogger(moduleName), nil
	}
}
