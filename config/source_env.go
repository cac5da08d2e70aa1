package config

import (
	"os"
	"strings"
)

// EnvSource environment variable data source
type EnvSource struct {
	prefix   string // e.g. "WEBCONFIG"
	priority int
	bindings map[string]string // key mapping, e.g. "server.port" -> "SERVER_PORT"
	environ  func() []string
}

// NewEnvSource creates an environment variable data source
func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
		bindings: make(map[string]string),
		environ:  os.Environ,
	}
}

// WithEnviron replaces the environment snapshot function (tests, embedding)
func (s *EnvSource) WithEnviron(environ func() []string) *EnvSource {
	s.environ = environ
	return s
}

// AddBinding adds an explicit key mapping.
// For example: AddBinding("server.port", "SERVER_PORT")
func (s *EnvSource) AddBinding(key, envKey string) {
	s.bindings[key] = envKey
}

// Name data source name
func (s *EnvSource) Name() string {
	return "env:" + s.prefix
}

// Priority priority
func (s *EnvSource) Priority() int {
	return s.priority
}

// Load loads environment variables.
// With bindings only bound variables are read; otherwise every PREFIX_* variable
// is mapped: WEBCONFIG_SERVER_PORT -> server.port
func (s *EnvSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})
	env := s.snapshot()

	if len(s.bindings) > 0 {
		for key, envKey := range s.bindings {
			fullEnvKey := envKey
			if s.prefix != "" && !strings.HasPrefix(envKey, s.prefix+"_") {
				fullEnvKey = s.prefix + "_" + envKey
			}
			if value := env[fullEnvKey]; value != "" {
				result[key] = value
			}
		}
		return result, nil
	}

	if s.prefix == "" {
		return result, nil
	}

	prefix := s.prefix + "_"
	for name, value := range env {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		configKey := strings.TrimPrefix(name, prefix)
		configKey = strings.ToLower(configKey)
		configKey = strings.ReplaceAll(configKey, "_", ".")
		result[configKey] = value
	}

	return result, nil
}

func (s *EnvSource) snapshot() map[string]string {
	env := make(map[string]string)
	for _, kv := range s.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[name] = value
	}
	return env
}
