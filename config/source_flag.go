package config

import (
	"fmt"
	"reflect"
	"strings"
)

// FlagSource command line argument data source.
// Struct fields map to configuration keys through `config` tags:
//
//	type Flags struct {
//	    LogLevel string `config:"logger.level"`
//	    Port     int    `config:"server.port,api.port"`
//	}
//
// Zero-valued fields are skipped so unset flags never shadow lower sources.
type FlagSource struct {
	flags    interface{}
	priority int
}

// NewFlagSource creates a command line argument data source
func NewFlagSource(flags interface{}, priority int) *FlagSource {
	return &FlagSource{
		flags:    flags,
		priority: priority,
	}
}

// Name data source name
func (s *FlagSource) Name() string {
	return "flags"
}

// Priority priority
func (s *FlagSource) Priority() int {
	return s.priority
}

// Load reads tagged, non-zero fields
func (s *FlagSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})

	if s.flags == nil {
		return result, nil
	}

	v := reflect.ValueOf(s.flags)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return result, nil
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("flags must be a struct or pointer to struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanInterface() {
			continue
		}

		configTag := fieldType.Tag.Get("config")
		if configTag == "" || configTag == "-" || isZeroValue(field) {
			continue
		}

		// multiple mappings separated by commas
		for _, key := range strings.Split(configTag, ",") {
			key = strings.TrimSpace(key)
			if key == "" || key == "-" {
				continue
			}
			result[key] = field.Interface()
		}
	}

	return result, nil
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
