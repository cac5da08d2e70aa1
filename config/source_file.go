package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

// FileSource structured file data source (yaml, json, toml, properties, ...)
// read through viper. A missing file yields an empty configuration.
type FileSource struct {
	path     string
	priority int
}

// NewFileSource creates a file data source
func NewFileSource(path string, priority int) *FileSource {
	return &FileSource{
		path:     path,
		priority: priority,
	}
}

// Name data source name
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Priority priority
func (s *FileSource) Priority() int {
	return s.priority
}

// Path file path
func (s *FileSource) Path() string {
	return s.path
}

// Load loads the file and flattens it to dotted keys
func (s *FileSource) Load() (map[string]interface{}, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]interface{}), nil
		}
		return nil, ErrSourceUnreadable.WithData("path", s.path).Wrap(err)
	}
	if info.IsDir() {
		return nil, ErrSourceIsDir.WithData("path", s.path)
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, ErrSourceParse.WithData("path", s.path).Wrap(err)
	}

	return flattenMap("", v.AllSettings()), nil
}

// flattenMap flattens a nested map into dot-separated keys
// For example: {"server": {"http": {"port": 8080}}} -> {"server.http.port": 8080}
func flattenMap(prefix string, data map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			for nestedKey, nestedValue := range flattenMap(fullKey, nested) {
				result[nestedKey] = nestedValue
			}
			continue
		}
		result[fullKey] = value
	}

	return result
}
