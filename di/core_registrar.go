// Package di registers the core component providers with a samber/do injector.
package di

import (
	"github.com/samber/do/v2"
)

// RegisterCoreProviders registers all core component providers to the injector.
// Registration is by dependency level; every provider is lazy.
func RegisterCoreProviders(injector do.Injector, opts CoreOptions) {
	// Layer 0: console logger used while configuration loads
	do.ProvideNamed(injector, BootstrapLoggerManager, ProvideBootstrapLoggerManager(opts))

	// Layer 1: overlay initializer and configuration (overlay applied after load)
	do.Provide(injector, ProvideOverlay(opts))
	do.Provide(injector, ProvideConfigLoader(opts))

	// Layer 2: logger reconfigured from the "logger" section
	do.Provide(injector, ProvideLoggerManager(opts))
	do.Provide(injector, ProvideCtxLogger(opts.moduleName()))
}

func (o CoreOptions) moduleName() string {
	if o.AppName == "" {
		return "webconfig"
	}
	return o.AppName
}
