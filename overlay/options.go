package overlay

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultVariable names the setting that holds the overlay file path
	DefaultVariable = "WEBCONFIG_LOCATION"

	// DefaultSourceName names the overlay in the source chain
	DefaultSourceName = "USER_PROPERTIES"
)

var variablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Options overlay options
type Options struct {
	Variable   string `mapstructure:"variable"`    // indirection setting name
	SourceName string `mapstructure:"source_name"` // name of the inserted source
}

// DefaultOptions returns WEBCONFIG_LOCATION / USER_PROPERTIES
func DefaultOptions() Options {
	return Options{
		Variable:   DefaultVariable,
		SourceName: DefaultSourceName,
	}
}

// ApplyDefaults fills empty fields
func (o *Options) ApplyDefaults() {
	if o.Variable == "" {
		o.Variable = DefaultVariable
	}
	if o.SourceName == "" {
		o.SourceName = DefaultSourceName
	}
}

// Validate implements config.Validator
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Variable, validation.Required, validation.Match(variablePattern)),
		validation.Field(&o.SourceName, validation.Required, validation.Length(1, 128)),
	)
}
