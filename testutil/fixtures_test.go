package testutil

import (
	"io/fs"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteProperties(t *testing.T) {
	path := WriteProperties(t, "greeting=hello\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "greeting=hello\n", string(data))
}

func TestWriteFile_CreatesParents(t *testing.T) {
	path := WriteFile(t, t.TempDir(), "nested/dir/config.yaml", "a: 1\n")
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestMissingPath(t *testing.T) {
	_, err := os.Stat(MissingPath(t, "missing.properties"))
	assert.True(t, os.IsNotExist(err))
}

func TestSettings(t *testing.T) {
	lookup := Settings(map[string]string{"WEBCONFIG_LOCATION": "/etc/app.properties", "EMPTY": ""})

	v, ok := lookup("WEBCONFIG_LOCATION")
	assert.True(t, ok)
	assert.Equal(t, "/etc/app.properties", v)

	v, ok = lookup("EMPTY")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = Settings(nil)("WEBCONFIG_LOCATION")
	assert.False(t, ok)
}

func TestDenyOpenFs(t *testing.T) {
	mem := MemFile(t, "/conf/user.properties", "a=b\n")

	data, err := afero.ReadFile(mem, "/conf/user.properties")
	require.NoError(t, err)
	assert.Equal(t, "a=b\n", string(data))

	denied := DenyOpenFs{Fs: mem}
	info, err := denied.Stat("/conf/user.properties")
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	_, err = denied.Open("/conf/user.properties")
	assert.ErrorIs(t, err, fs.ErrPermission)
}
