package overlay

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/KOMKZ/yogan-webconfig/config"
	"github.com/KOMKZ/yogan-webconfig/logger"
	"github.com/KOMKZ/yogan-webconfig/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	settings map[string]string
	chain    *config.SourceChain
}

func newFakeHost(settings map[string]string, sources ...*config.PropertySource) *fakeHost {
	return &fakeHost{settings: settings, chain: config.NewSourceChain(sources...)}
}

func (h *fakeHost) LookupSetting(name string) (string, bool) {
	v, ok := h.settings[name]
	return v, ok
}

func (h *fakeHost) Sources() *config.SourceChain {
	return h.chain
}

func defaultSources() []*config.PropertySource {
	return []*config.PropertySource{
		config.NewStringPropertySource("systemProperties", map[string]string{"greeting": "from-system"}),
		config.NewStringPropertySource("applicationConfig", map[string]string{"greeting": "from-app", "port": "8080"}),
	}
}

func newTestInitializer(t *testing.T) (*Initializer, *logger.TestCtxLogger) {
	t.Helper()
	log := logger.NewTestCtxLogger()
	ini, err := NewInitializer(Options{}, log)
	require.NoError(t, err)
	return ini, log
}

// assertUntouched checks the chain holds exactly the given sources, in order, by reference
func assertUntouched(t *testing.T, host *fakeHost, before []*config.PropertySource, version uint64) {
	t.Helper()
	after := host.chain.Sources()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Same(t, before[i], after[i])
	}
	assert.Equal(t, version, host.chain.Version())
}

func TestInitialize_SettingUnset(t *testing.T) {
	ini, log := newTestInitializer(t)
	host := newFakeHost(map[string]string{}, defaultSources()...)
	before, version := host.chain.Sources(), host.chain.Version()

	ini.Initialize(context.Background(), host)

	assertUntouched(t, host, before, version)
	assert.Equal(t, 1, log.CountLogs("INFO"))
	assert.Equal(t, 0, log.CountLogs("WARN"))

	entry := log.Logs()[0]
	assert.Contains(t, entry.Message, "WEBCONFIG_LOCATION")
	assert.Contains(t, entry.Message, "default configuration")
	assert.Equal(t, "WEBCONFIG_LOCATION", entry.Fields["variable"])
}

func TestInitialize_SettingEmpty(t *testing.T) {
	ini, log := newTestInitializer(t)
	host := newFakeHost(map[string]string{DefaultVariable: ""}, defaultSources()...)
	before, version := host.chain.Sources(), host.chain.Version()

	ini.Initialize(context.Background(), host)

	assertUntouched(t, host, before, version)
	assert.Equal(t, 0, log.CountLogs("INFO"))
	require.Equal(t, 1, log.CountLogs("WARN"))
	assert.True(t, log.HasLogWithField("WARN",
		"setting WEBCONFIG_LOCATION is empty, using the default configuration", "path", ""))
}

func TestInitialize_MissingFile(t *testing.T) {
	ini, log := newTestInitializer(t)
	missing := testutil.MissingPath(t, "missing.properties")
	host := newFakeHost(map[string]string{DefaultVariable: missing}, defaultSources()...)
	before, version := host.chain.Sources(), host.chain.Version()

	ini.Initialize(context.Background(), host)

	assertUntouched(t, host, before, version)
	assert.Equal(t, 0, log.CountLogs("INFO"))
	require.Equal(t, 1, log.CountLogs("WARN"))
	assert.True(t, log.HasLog("WARN", "overlay file "+missing+" does not exist"))
	assert.True(t, log.HasLogWithField("WARN", "overlay file "+missing+" does not exist", "path", missing))
}

func TestInitialize_MissingFileInTmp(t *testing.T) {
	const missing = "/tmp/missing.properties"
	if _, err := os.Stat(missing); err == nil {
		t.Skip(missing + " exists on this machine")
	}

	ini, log := newTestInitializer(t)
	host := newFakeHost(map[string]string{DefaultVariable: missing}, defaultSources()...)
	before, version := host.chain.Sources(), host.chain.Version()

	ini.Initialize(context.Background(), host)

	assertUntouched(t, host, before, version)
	require.Equal(t, 1, log.CountLogs("WARN"))
	assert.Contains(t, log.Logs()[0].Message, missing)
	assert.True(t, log.HasFieldContaining("WARN", "path", missing))
}

func TestInitialize_ValidFile(t *testing.T) {
	ini, log := newTestInitializer(t)
	path := testutil.WriteProperties(t, "greeting=hello\nport = 9090\n")
	host := newFakeHost(map[string]string{DefaultVariable: path}, defaultSources()...)

	ini.Initialize(context.Background(), host)

	assert.Empty(t, log.Logs())
	assert.Equal(t, []string{DefaultSourceName, "systemProperties", "applicationConfig"}, host.chain.Names())

	front, ok := host.chain.Get(DefaultSourceName)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"greeting": "hello", "port": "9090"}, front.Values())

	value, source, ok := host.chain.Lookup("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", value)
	assert.Equal(t, DefaultSourceName, source)

	// keys absent from the overlay fall through
	_, _, ok = host.chain.Lookup("missing")
	assert.False(t, ok)
}

func TestInitialize_EmptyFile(t *testing.T) {
	ini, log := newTestInitializer(t)
	path := testutil.WriteProperties(t, "# only a comment\n")
	host := newFakeHost(map[string]string{DefaultVariable: path}, defaultSources()...)

	ini.Initialize(context.Background(), host)

	assert.Empty(t, log.Logs())
	require.Equal(t, 3, host.chain.Len())
	front, ok := host.chain.Get(DefaultSourceName)
	require.True(t, ok)
	assert.Equal(t, 0, front.Len())

	value, source, ok := host.chain.Lookup("greeting")
	require.True(t, ok)
	assert.Equal(t, "from-system", value)
	assert.Equal(t, "systemProperties", source)
}

func TestInitialize_TwiceAddsTwoSources(t *testing.T) {
	ini, _ := newTestInitializer(t)
	path := testutil.WriteProperties(t, "greeting=hello\n")
	host := newFakeHost(map[string]string{DefaultVariable: path}, defaultSources()...)

	ini.Initialize(context.Background(), host)
	ini.Initialize(context.Background(), host)

	assert.Equal(t, []string{DefaultSourceName, DefaultSourceName, "systemProperties", "applicationConfig"}, host.chain.Names())
	sources := host.chain.Sources()
	assert.NotSame(t, sources[0], sources[1])
	assert.Equal(t, sources[0].Values(), sources[1].Values())
}

func TestInitialize_Directory(t *testing.T) {
	ini, log := newTestInitializer(t)
	dir := t.TempDir()
	host := newFakeHost(map[string]string{DefaultVariable: dir}, defaultSources()...)
	before, version := host.chain.Sources(), host.chain.Version()

	ini.Initialize(context.Background(), host)

	assertUntouched(t, host, before, version)
	require.Equal(t, 1, log.CountLogs("WARN"))
	assert.True(t, log.HasLog("WARN", "overlay path "+dir+" is a directory"))
}

func TestInitialize_Unreadable(t *testing.T) {
	ini, log := newTestInitializer(t)
	const path = "/etc/webconfig/user.properties"
	ini = ini.WithFs(testutil.DenyOpenFs{Fs: testutil.MemFile(t, path, "greeting=hello\n")})
	host := newFakeHost(map[string]string{DefaultVariable: path}, defaultSources()...)
	before, version := host.chain.Sources(), host.chain.Version()

	ini.Initialize(context.Background(), host)

	assertUntouched(t, host, before, version)
	require.Equal(t, 1, log.CountLogs("WARN"))
	assert.True(t, log.HasLogWithField("WARN", "overlay file "+path+" is not readable", "path", path))
	assert.True(t, log.HasLogWithField("WARN", "overlay file "+path+" is not readable", "code", int64(config.ErrSourceUnreadable.Code())))
}

func TestInitialize_FromFs(t *testing.T) {
	ini, log := newTestInitializer(t)
	const path = "/etc/webconfig/user.properties"
	ini = ini.WithFs(testutil.MemFile(t, path, "greeting=from-memory\n"))
	host := newFakeHost(map[string]string{DefaultVariable: path}, defaultSources()...)

	ini.Initialize(context.Background(), host)

	assert.Empty(t, log.Logs())
	value, source, ok := host.chain.Lookup("greeting")
	require.True(t, ok)
	assert.Equal(t, "from-memory", value)
	assert.Equal(t, DefaultSourceName, source)
}

func TestInitialize_InvalidUTF8(t *testing.T) {
	ini, log := newTestInitializer(t)
	path := testutil.WriteProperties(t, "greeting=caf\xe9\n")
	host := newFakeHost(map[string]string{DefaultVariable: path}, defaultSources()...)
	before, version := host.chain.Sources(), host.chain.Version()

	ini.Initialize(context.Background(), host)

	assertUntouched(t, host, before, version)
	require.Equal(t, 1, log.CountLogs("WARN"))
	entry := log.Logs()[0]
	assert.True(t, strings.HasPrefix(entry.Message, "failed to read overlay properties from "+path))
	assert.Equal(t, int64(config.ErrSourceRead.Code()), entry.Fields["code"])

	value, source, ok := host.chain.Lookup("greeting")
	require.True(t, ok)
	assert.Equal(t, "from-system", value)
	assert.Equal(t, "systemProperties", source)
}

func TestInitialize_Malformed(t *testing.T) {
	ini, log := newTestInitializer(t)
	path := testutil.WriteProperties(t, "greeting=hello\nbad=\\uZZZZ\n")
	host := newFakeHost(map[string]string{DefaultVariable: path}, defaultSources()...)
	before, version := host.chain.Sources(), host.chain.Version()

	ini.Initialize(context.Background(), host)

	assertUntouched(t, host, before, version)
	require.Equal(t, 1, log.CountLogs("WARN"))
	entry := log.Logs()[0]
	assert.True(t, strings.HasPrefix(entry.Message, "failed to read overlay properties from "+path))
	assert.NotEmpty(t, entry.Fields["error"])

	_, _, ok := host.chain.Lookup("bad")
	assert.False(t, ok)
}

func TestInitialize_CustomOptions(t *testing.T) {
	log := logger.NewTestCtxLogger()
	ini, err := NewInitializer(Options{Variable: "MY_OVERLAY", SourceName: "overlay"}, log)
	require.NoError(t, err)

	path := testutil.WriteProperties(t, "greeting=custom\n")
	host := newFakeHost(map[string]string{
		DefaultVariable: "/ignored",
		"MY_OVERLAY":    path,
	}, defaultSources()...)

	ini.Initialize(context.Background(), host)

	assert.Empty(t, log.Logs())
	assert.Equal(t, "overlay", host.chain.Names()[0])
	value, source, ok := host.chain.Lookup("greeting")
	require.True(t, ok)
	assert.Equal(t, "custom", value)
	assert.Equal(t, "overlay", source)
}

func TestInitialize_TraceID(t *testing.T) {
	ini, log := newTestInitializer(t)
	host := newFakeHost(nil)

	ctx := logger.WithTraceID(context.Background(), "trace-123")
	ini.Initialize(ctx, host)

	require.Len(t, log.Logs(), 1)
	assert.Equal(t, "trace-123", log.Logs()[0].TraceID)
}

func TestNewInitializer(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		ini, err := NewInitializer(Options{}, logger.NewTestCtxLogger())
		require.NoError(t, err)
		assert.Equal(t, DefaultOptions(), ini.Options())
	})

	t.Run("nil logger falls back to module logger", func(t *testing.T) {
		ini, err := NewInitializer(Options{}, nil)
		require.NoError(t, err)
		assert.NotNil(t, ini.log)
	})

	t.Run("invalid variable name", func(t *testing.T) {
		_, err := NewInitializer(Options{Variable: "not a name"}, logger.NewTestCtxLogger())
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrInvalidOptions)
	})
}

func TestLoaderInitializer(t *testing.T) {
	path := testutil.WriteProperties(t, "server.port=9090\ngreeting=hello\n")
	log := logger.NewTestCtxLogger()
	ini, err := NewInitializer(Options{}, log)
	require.NoError(t, err)

	loader, err := config.NewLoaderBuilder().
		WithDefaults(map[string]interface{}{"server.port": 8080, "greeting": "hi"}).
		WithSettingsLookup(testutil.Settings(map[string]string{DefaultVariable: path})).
		WithInitializer(ini.LoaderInitializer()).
		Build()
	require.NoError(t, err)

	assert.Empty(t, log.Logs())
	assert.Equal(t, []string{DefaultSourceName, "defaults"}, loader.Sources().Names())
	assert.Equal(t, 9090, loader.GetInt("server.port"))
	assert.Equal(t, "hello", loader.GetString("greeting"))

	value, source, ok := loader.Resolve("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", value)
	assert.Equal(t, DefaultSourceName, source)
}
