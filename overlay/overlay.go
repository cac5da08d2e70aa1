// Package overlay splices an optional, externally supplied properties file in
// front of an application's configuration source chain at start-up.
//
// The file location is read from a process-level setting (WEBCONFIG_LOCATION by
// default). Every failure is logged and swallowed: the application always starts,
// with or without the overlay.
package overlay

import (
	"context"
	"errors"
	"fmt"

	"github.com/KOMKZ/yogan-webconfig/config"
	"github.com/KOMKZ/yogan-webconfig/errcode"
	"github.com/KOMKZ/yogan-webconfig/logger"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Host is the configuration owner the overlay is applied to.
// *config.Loader implements it.
type Host interface {
	LookupSetting(name string) (string, bool)
	Sources() *config.SourceChain
}

// Logger is the logging capability the overlay needs.
// *logger.CtxZapLogger and *logger.TestCtxLogger implement it.
type Logger interface {
	InfoCtx(ctx context.Context, msg string, fields ...zap.Field)
	WarnCtx(ctx context.Context, msg string, fields ...zap.Field)
}

// Initializer applies the overlay once per application context
type Initializer struct {
	opts Options
	log  Logger
	fs   afero.Fs // nil reads the OS filesystem
}

// NewInitializer creates an Initializer. Empty options fall back to
// WEBCONFIG_LOCATION and USER_PROPERTIES; a nil log uses the "webconfig" module logger.
func NewInitializer(opts Options, log Logger) (*Initializer, error) {
	opts.ApplyDefaults()
	if err := config.ValidateAll(opts); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetLogger("webconfig")
	}
	return &Initializer{opts: opts, log: log}, nil
}

// WithFs returns a copy that reads the overlay file through fsys
func (i *Initializer) WithFs(fsys afero.Fs) *Initializer {
	clone := *i
	clone.fs = fsys
	return &clone
}

// Options returns the effective options
func (i *Initializer) Options() Options {
	return i.opts
}

// Initialize reads the overlay file named by the indirection setting and, when
// it parses completely, inserts it as the first source of host's chain.
// The chain is left untouched on every other path.
func (i *Initializer) Initialize(ctx context.Context, host Host) {
	location, ok := host.LookupSetting(i.opts.Variable)
	if !ok {
		i.log.InfoCtx(ctx, fmt.Sprintf(
			"setting %s is not set, using the default configuration; "+
				"set it to the location of a properties file to override the default configuration",
			i.opts.Variable),
			zap.String("variable", i.opts.Variable))
		return
	}
	if location == "" {
		i.log.WarnCtx(ctx, fmt.Sprintf(
			"setting %s is empty, using the default configuration", i.opts.Variable),
			zap.String("variable", i.opts.Variable),
			zap.String("path", location))
		return
	}

	values, err := config.NewPropertiesSource(i.opts.SourceName, location, 0).
		WithFs(i.fs).
		LoadStrings()
	if err != nil {
		i.log.WarnCtx(ctx, warnMessage(location, err),
			zap.String("variable", i.opts.Variable),
			zap.String("path", location),
			zap.Int("code", errcode.CodeOf(err)),
			zap.Error(err))
		return
	}

	host.Sources().AddFirst(config.NewStringPropertySource(i.opts.SourceName, values))
}

// LoaderInitializer adapts the overlay to a config.LoaderBuilder start-up hook
func (i *Initializer) LoaderInitializer() config.InitializerFunc {
	return func(ctx context.Context, l *config.Loader) {
		i.Initialize(ctx, l)
	}
}

func warnMessage(location string, err error) string {
	switch {
	case errors.Is(err, config.ErrSourceNotFound):
		return fmt.Sprintf("overlay file %s does not exist", location)
	case errors.Is(err, config.ErrSourceIsDir):
		return fmt.Sprintf("overlay path %s is a directory", location)
	case errors.Is(err, config.ErrSourceUnreadable):
		return fmt.Sprintf("overlay file %s is not readable", location)
	default:
		return fmt.Sprintf("failed to read overlay properties from %s: %v", location, err)
	}
}
