// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/KOMKZ/yogan-webconfig/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content to dir/name and returns the path
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteProperties writes a properties file into a fresh temporary directory
//
//	path := testutil.WriteProperties(t, "greeting=hello\n")
//	lookup := testutil.Settings(map[string]string{"WEBCONFIG_LOCATION": path})
func WriteProperties(t testing.TB, content string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "overlay.properties", content)
}

// MissingPath returns a path inside a temporary directory that does not exist
func MissingPath(t testing.TB, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

// Settings returns a SettingsLookup backed by values instead of the process environment
func Settings(values map[string]string) config.SettingsLookup {
	return func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	}
}

// DenyOpenFs wraps an afero.Fs so files can be stat'ed but every Open fails
// with fs.ErrPermission, whatever the user running the test.
type DenyOpenFs struct {
	afero.Fs
}

// Open implements afero.Fs
func (d DenyOpenFs) Open(name string) (afero.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
}

// MemFile returns an in-memory filesystem holding content at path
func MemFile(t testing.TB, path, content string) afero.Fs {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0644))
	return mem
}
