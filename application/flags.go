package application

import (
	"github.com/KOMKZ/yogan-webconfig/flagx"
)

// AppFlags global command line flags, inherited by every sub command
type AppFlags struct {
	ConfigDir  string   `flag:"config-dir,c" usage:"configuration directory holding config.yaml and <env>.yaml"`
	EnvPrefix  string   `flag:"env-prefix" usage:"environment variable prefix (PREFIX_SERVER_PORT -> server.port)" default:"WEBCONFIG"`
	Variable   string   `flag:"variable" usage:"setting that names the overlay properties file" default:"WEBCONFIG_LOCATION"`
	SourceName string   `flag:"source-name" usage:"name of the overlay source in the chain" default:"USER_PROPERTIES"`
	Set        []string `flag:"set" array:"true" usage:"override a key (key=value, repeatable)"`
	LogLevel   string   `flag:"log-level" usage:"log level: debug, info, warn, error"`
}

// overrides converts --set pairs into loader overrides
func (f AppFlags) overrides() (map[string]interface{}, error) {
	pairs, err := flagx.ParseKeyValues(f.Set)
	if err != nil {
		return nil, ErrInvalidOverride.Wrap(err)
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(map[string]interface{}, len(pairs))
	for k, v := range pairs {
		out[k] = v
	}
	return out, nil
}
