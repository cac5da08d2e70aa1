// Package application wires the webconfig command line tool.
// CLIApplication owns the injector, the resolved configuration and the cobra command tree.
package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/KOMKZ/yogan-webconfig/config"
	"github.com/KOMKZ/yogan-webconfig/di"
	"github.com/KOMKZ/yogan-webconfig/flagx"
	"github.com/KOMKZ/yogan-webconfig/logger"
	"github.com/KOMKZ/yogan-webconfig/overlay"
	"github.com/google/uuid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AppName name of the tool, its log module and its app_name log field
const AppName = "webconfig"

// AppState application state
type AppState int

const (
	StateInit AppState = iota
	StateSetup
	StateRunning
	StateStopping
	StateStopped
)

// String state name
func (s AppState) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateSetup:
		return "Setup"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Option configures a CLIApplication
type Option func(*CLIApplication)

// WithOutput sets the command output and the log/diagnostic output
func WithOutput(out, errOut io.Writer) Option {
	return func(c *CLIApplication) {
		c.out = out
		c.errOut = errOut
	}
}

// WithSettingsLookup replaces os.LookupEnv for process-level settings
func WithSettingsLookup(lookup config.SettingsLookup) Option {
	return func(c *CLIApplication) {
		c.settings = lookup
	}
}

// WithTraceIDGenerator replaces the per-run trace id generator (UUID by default)
func WithTraceIDGenerator(gen func() string) Option {
	return func(c *CLIApplication) {
		c.traceID = gen
	}
}

// WithVersion sets the version reported by --version
func WithVersion(version string) Option {
	return func(c *CLIApplication) {
		c.version = version
	}
}

// CLIApplication webconfig command line application
type CLIApplication struct {
	rootCmd  *cobra.Command
	flags    AppFlags
	injector *do.RootScope

	loader *config.Loader
	log    *logger.CtxZapLogger

	settings config.SettingsLookup
	out      io.Writer
	errOut   io.Writer
	version  string
	traceID  func() string

	state AppState
	mu    sync.RWMutex
}

// NewCLI creates the application and its command tree
func NewCLI(opts ...Option) *CLIApplication {
	c := &CLIApplication{
		out:     os.Stdout,
		errOut:  os.Stderr,
		traceID: func() string { return uuid.New().String() },
		state:   StateInit,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rootCmd = &cobra.Command{
		Use:   AppName,
		Short: "Inspect layered configuration with an optional external properties overlay",
		Long: "webconfig loads config.yaml, <env>.yaml, prefixed environment variables and --set overrides,\n" +
			"then places the properties file named by WEBCONFIG_LOCATION ahead of all of them.",
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.Setup(cmd)
		},
	}
	c.rootCmd.SetOut(c.out)
	c.rootCmd.SetErr(c.errOut)

	if err := flagx.BindPersistentFlags(c.rootCmd, &AppFlags{}); err != nil {
		panic(fmt.Sprintf("bind flags: %v", err))
	}

	c.rootCmd.AddCommand(
		newGetCmd(c),
		newSourcesCmd(c),
		newDumpCmd(c),
	)
	return c
}

// Setup resolves flags, builds the injector and loads the configuration.
// The overlay runs with the console logger; the logger is then rebuilt from
// the "logger" section.
func (c *CLIApplication) Setup(cmd *cobra.Command) error {
	c.setState(StateSetup)

	if err := flagx.ParseFlags(cmd, &c.flags); err != nil {
		return err
	}
	overrides, err := c.flags.overrides()
	if err != nil {
		return err
	}

	injector := do.New()
	di.RegisterCoreProviders(injector, di.CoreOptions{
		AppName:        AppName,
		ConfigPath:     c.flags.ConfigDir,
		ConfigPrefix:   c.flags.EnvPrefix,
		Overrides:      overrides,
		SettingsLookup: c.settings,
		Overlay: overlay.Options{
			Variable:   c.flags.Variable,
			SourceName: c.flags.SourceName,
		},
		LogLevel:  c.flags.LogLevel,
		LogOutput: c.errOut,
		Context:   cmd.Context(),
	})
	c.injector = injector

	loader, err := do.Invoke[*config.Loader](injector)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	log, err := do.Invoke[*logger.CtxZapLogger](injector)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	c.mu.Lock()
	c.loader = loader
	c.log = log
	c.mu.Unlock()

	c.setState(StateRunning)
	log.DebugCtx(cmd.Context(), "configuration loaded",
		zap.Strings("sources", loader.Sources().Names()),
		zap.Strings("files", loader.GetLoadedFiles()))
	return nil
}

// Execute runs the command line and shuts down afterwards
func (c *CLIApplication) Execute() error {
	return c.ExecuteContext(context.Background())
}

// ExecuteContext runs the command line with ctx.
// A trace id is attached unless ctx carries an OpenTelemetry span.
// Shutdown happens whether or not the command succeeded.
func (c *CLIApplication) ExecuteContext(ctx context.Context) error {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		ctx = logger.WithTraceID(ctx, c.traceID())
	}

	err := c.rootCmd.ExecuteContext(ctx)
	shutdownErr := c.Shutdown()

	if err != nil {
		return err
	}
	return shutdownErr
}

// Shutdown closes every component registered in the injector
func (c *CLIApplication) Shutdown() error {
	c.mu.RLock()
	injector := c.injector
	c.mu.RUnlock()
	if injector == nil {
		return nil
	}

	c.setState(StateStopping)
	err := injector.Shutdown()
	c.setState(StateStopped)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Loader returns the loaded configuration (nil before Setup)
func (c *CLIApplication) Loader() *config.Loader {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loader
}

// GetRootCmd returns the root command (for testing)
func (c *CLIApplication) GetRootCmd() *cobra.Command {
	return c.rootCmd
}

// GetState returns the current state
func (c *CLIApplication) GetState() AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *CLIApplication) mustLoader() (*config.Loader, error) {
	loader := c.Loader()
	if loader == nil {
		return nil, ErrNotSetup
	}
	return loader, nil
}

func (c *CLIApplication) setState(state AppState) {
	c.mu.Lock()
	old := c.state
	c.state = state
	log := c.log
	c.mu.Unlock()

	if log != nil {
		log.Debug("state changed",
			zap.String("from", old.String()),
			zap.String("to", state.String()))
	}
}
