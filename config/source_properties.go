package config

import (
	"errors"
	"io"
	"io/fs"
	"unicode/utf8"

	"github.com/magiconair/properties"
	"github.com/spf13/afero"
)

// PropertiesSource reads a flat key=value .properties file.
// Keys keep their case, ${} references are not expanded, and the
// content is decoded as UTF-8.
type PropertiesSource struct {
	name     string
	path     string
	priority int
	optional bool
	fs       afero.Fs
}

// NewPropertiesSource creates a properties file source.
// A missing file is an error; see Optional.
func NewPropertiesSource(name, path string, priority int) *PropertiesSource {
	if name == "" {
		name = "properties:" + path
	}
	return &PropertiesSource{
		name:     name,
		path:     path,
		priority: priority,
		fs:       afero.NewOsFs(),
	}
}

// Optional returns a copy that treats a missing file as empty
func (s *PropertiesSource) Optional() *PropertiesSource {
	clone := *s
	clone.optional = true
	return &clone
}

// WithFs returns a copy reading through fsys instead of the OS filesystem
func (s *PropertiesSource) WithFs(fsys afero.Fs) *PropertiesSource {
	clone := *s
	if fsys != nil {
		clone.fs = fsys
	}
	return &clone
}

// Name data source name
func (s *PropertiesSource) Name() string {
	return s.name
}

// Priority priority
func (s *PropertiesSource) Priority() int {
	return s.priority
}

// Path file path
func (s *PropertiesSource) Path() string {
	return s.path
}

// Load implements ConfigSource
func (s *PropertiesSource) Load() (map[string]interface{}, error) {
	values, err := s.LoadStrings()
	if err != nil {
		return nil, err
	}
	result := make(map[string]interface{}, len(values))
	for k, v := range values {
		result[k] = v
	}
	return result, nil
}

// LoadStrings reads and parses the file.
// The handle is closed on every path; nothing is returned on failure.
func (s *PropertiesSource) LoadStrings() (map[string]string, error) {
	info, err := s.fs.Stat(s.path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if s.optional {
				return map[string]string{}, nil
			}
			return nil, ErrSourceNotFound.WithData("path", s.path).Wrap(err)
		default:
			return nil, ErrSourceUnreadable.WithData("path", s.path).Wrap(err)
		}
	}
	if info.IsDir() {
		return nil, ErrSourceIsDir.WithData("path", s.path)
	}

	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, ErrSourceUnreadable.WithData("path", s.path).Wrap(err)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, ErrSourceRead.WithData("path", s.path).Wrap(err)
	}
	if !utf8.Valid(buf) {
		return nil, ErrSourceRead.WithData("path", s.path).
			WithMsgf("configuration file %s is not valid UTF-8", s.path)
	}

	return ParseProperties(buf)
}

// ParseProperties parses UTF-8 .properties content.
// Duplicate keys resolve to the last occurrence; invalid UTF-8 is rejected.
func ParseProperties(buf []byte) (map[string]string, error) {
	if !utf8.Valid(buf) {
		return nil, ErrSourceParse.WithMsgf("content is not valid UTF-8")
	}
	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	props, err := loader.LoadBytes(buf)
	if err != nil {
		return nil, ErrSourceParse.Wrap(err)
	}
	return props.Map(), nil
}
