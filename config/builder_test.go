package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticLookup(values map[string]string) SettingsLookup {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

// TestLoaderBuilder_Build test building the loader
func TestLoaderBuilder_Build(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("app:\n  name: test\n"), 0644))

	loader, err := NewLoaderBuilder().
		WithConfigPath(tmpDir).
		WithSettingsLookup(staticLookup(nil)).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "test", loader.GetString("app.name"))
	assert.Equal(t, []string{filepath.Join(tmpDir, "config.yaml")}, loader.GetLoadedFiles())
}

// TestLoaderBuilder_Build_WithEnvConfig the environment file overrides config.yaml
func TestLoaderBuilder_Build_WithEnvConfig(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("app:\n  port: 8080\n  name: base\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "prod.yaml"), []byte("app:\n  port: 9090\n"), 0644))

	loader, err := NewLoaderBuilder().
		WithConfigPath(tmpDir).
		WithSettingsLookup(staticLookup(map[string]string{"APP_ENV": "prod"})).
		Build()

	require.NoError(t, err)
	assert.Equal(t, 9090, loader.GetInt("app.port"))
	assert.Equal(t, "base", loader.GetString("app.name"))
	assert.Equal(t, []string{
		"file:" + filepath.Join(tmpDir, "prod.yaml"),
		"file:" + filepath.Join(tmpDir, "config.yaml"),
	}, loader.Sources().Names())
}

func TestLoaderBuilder_Build_AllSources(t *testing.T) {
	type flags struct {
		Level string `config:"logger.level"`
	}
	t.Setenv("WCBUILD_APP_NAME", "from-env")

	loader, err := NewLoaderBuilder().
		WithEnvPrefix("WCBUILD").
		WithDefaults(map[string]interface{}{"app.name": "default", "logger.level": "info", "app.mode": "x"}).
		WithFlags(&flags{Level: "debug"}).
		WithOverrides(map[string]interface{}{"app.mode": "override"}).
		Build()

	require.NoError(t, err)
	assert.Equal(t, []string{"overrides", "flags", "env:WCBUILD", "defaults"}, loader.Sources().Names())
	assert.Equal(t, "from-env", loader.GetString("app.name"))
	assert.Equal(t, "debug", loader.GetString("logger.level"))
	assert.Equal(t, "override", loader.GetString("app.mode"))
}

func TestLoaderBuilder_Initializers(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")

	var order []string
	loader, err := NewLoaderBuilder().
		WithDefaults(map[string]interface{}{"greeting": "default"}).
		WithInitializer(func(ctx context.Context, l *Loader) {
			assert.Equal(t, "marker", ctx.Value(ctxKey{}))
			assert.Equal(t, "default", l.GetString("greeting"))
			order = append(order, "first")
			l.Sources().AddFirst(NewStringPropertySource("USER_PROPERTIES", map[string]string{"greeting": "hello"}))
		}).
		WithInitializer(func(ctx context.Context, l *Loader) {
			order = append(order, "second")
		}).
		BuildContext(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, "hello", loader.GetString("greeting"))
}

func TestLoaderBuilder_Build_Error(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("app: [broken\n"), 0644))

	_, err := NewLoaderBuilder().WithConfigPath(tmpDir).Build()
	assert.Error(t, err)
}

func TestLoaderBuilder_EnvName(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{"APP_ENV wins", map[string]string{"APP_ENV": "prod", "ENV": "test"}, "prod"},
		{"ENV fallback", map[string]string{"ENV": "test"}, "test"},
		{"empty APP_ENV ignored", map[string]string{"APP_ENV": "", "ENV": "test"}, "test"},
		{"default dev", nil, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewLoaderBuilder().WithSettingsLookup(staticLookup(tt.values))
			assert.Equal(t, tt.want, b.envName())
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	assert.Equal(t, "staging", GetEnv())
}
