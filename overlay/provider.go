package overlay

import (
	"github.com/KOMKZ/yogan-webconfig/config"
	"github.com/KOMKZ/yogan-webconfig/logger"
	"github.com/samber/do/v2"
)

// Provide creates an Initializer provider.
// A *logger.CtxZapLogger registered in the injector is used when present.
//
//	do.Provide(injector, overlay.Provide(overlay.DefaultOptions()))
//	do.Provide(injector, overlay.ProvideLoader(config.ProvideLoaderOptions{ConfigPath: "./configs"}))
//	loader := do.MustInvoke[*config.Loader](injector)
func Provide(opts Options) func(do.Injector) (*Initializer, error) {
	return func(i do.Injector) (*Initializer, error) {
		var log Logger
		if l, err := do.Invoke[*logger.CtxZapLogger](i); err == nil && l != nil {
			log = l
		}
		return NewInitializer(opts, log)
	}
}

// ProvideLoader creates a Loader provider that applies the injector's overlay
// Initializer after the declared sources are loaded.
func ProvideLoader(opts config.ProvideLoaderOptions) func(do.Injector) (*config.Loader, error) {
	return func(i do.Injector) (*config.Loader, error) {
		ini, err := do.Invoke[*Initializer](i)
		if err != nil {
			return nil, err
		}

		initializers := make([]config.InitializerFunc, 0, len(opts.Initializers)+1)
		initializers = append(initializers, opts.Initializers...)
		opts.Initializers = append(initializers, ini.LoaderInitializer())

		return config.ProvideLoader(opts)(i)
	}
}
