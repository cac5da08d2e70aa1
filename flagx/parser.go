// Package flagx binds cobra flags to option structs through `flag` struct tags.
package flagx

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ParseFlags copies parsed flag values from cmd into target.
// Inherited persistent flags are visible once cobra has parsed the command line.
//
//	var opts cliOptions
//	if err := flagx.ParseFlags(cmd, &opts); err != nil {
//	    return err
//	}
//
// Supported tags:
// - flag: flag name, optionally followed by a short name ("set,s")
// - array: "true" registers a string slice as a repeatable StringArray
func ParseFlags(cmd *cobra.Command, target interface{}) error {
	return ParseFlagSet(cmd.Flags(), target)
}

// ParseFlagSet copies values from fs into target
func ParseFlagSet(fs *pflag.FlagSet, target interface{}) error {
	v, err := structValue(target)
	if err != nil {
		return err
	}
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		flagTag := fieldType.Tag.Get("flag")
		if flagTag == "" {
			continue
		}
		flagName := strings.Split(flagTag, ",")[0]

		// Flags that were never registered leave the field untouched
		if fs.Lookup(flagName) == nil {
			continue
		}

		if err := setFieldValue(fs, field, flagName); err != nil {
			return fmt.Errorf("parse field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func setFieldValue(fs *pflag.FlagSet, field reflect.Value, flagName string) error {
	var err error
	switch field.Kind() {
	case reflect.String:
		var val string
		val, err = fs.GetString(flagName)
		field.SetString(val)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var val int
		val, err = fs.GetInt(flagName)
		field.SetInt(int64(val))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var val uint
		val, err = fs.GetUint(flagName)
		field.SetUint(uint64(val))

	case reflect.Bool:
		var val bool
		val, err = fs.GetBool(flagName)
		field.SetBool(val)

	case reflect.Float32, reflect.Float64:
		var val float64
		val, err = fs.GetFloat64(flagName)
		field.SetFloat(val)

	case reflect.Slice:
		return setSliceValue(fs, field, flagName)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return err
}

func setSliceValue(fs *pflag.FlagSet, field reflect.Value, flagName string) error {
	switch field.Type().Elem().Kind() {
	case reflect.String:
		var (
			val []string
			err error
		)
		if fs.Lookup(flagName).Value.Type() == "stringArray" {
			val, err = fs.GetStringArray(flagName)
		} else {
			val, err = fs.GetStringSlice(flagName)
		}
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(val))

	case reflect.Int:
		val, err := fs.GetIntSlice(flagName)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(val))

	default:
		return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
	}

	return nil
}

// BindFlags registers local flags on cmd for the tagged fields of target
//
//	type cliOptions struct {
//	    ConfigDir string   `flag:"config-dir,c" usage:"configuration directory" default:"./configs"`
//	    Set       []string `flag:"set" array:"true" usage:"override a key (key=value)"`
//	}
func BindFlags(cmd *cobra.Command, target interface{}) error {
	return BindFlagSet(cmd.Flags(), target)
}

// BindPersistentFlags registers flags inherited by every sub command
func BindPersistentFlags(cmd *cobra.Command, target interface{}) error {
	return BindFlagSet(cmd.PersistentFlags(), target)
}

// BindFlagSet registers flags on fs for the tagged fields of target.
// Fields tagged required:"true" are annotated for cobra's required-flag check.
func BindFlagSet(fs *pflag.FlagSet, target interface{}) error {
	v, err := structValue(target)
	if err != nil {
		return err
	}
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		fieldType := t.Field(i)

		flagTag := fieldType.Tag.Get("flag")
		if flagTag == "" {
			continue
		}

		parts := strings.Split(flagTag, ",")
		flagName := parts[0]
		shortName := ""
		if len(parts) > 1 {
			shortName = parts[1]
		}

		usage := fieldType.Tag.Get("usage")
		defaultVal := fieldType.Tag.Get("default")
		array := fieldType.Tag.Get("array") == "true"

		if err := registerFlag(fs, fieldType, flagName, shortName, usage, defaultVal, array); err != nil {
			return fmt.Errorf("register flag %s: %w", flagName, err)
		}

		if fieldType.Tag.Get("required") == "true" {
			if err := cobra.MarkFlagRequired(fs, flagName); err != nil {
				return err
			}
		}
	}

	return nil
}

func registerFlag(fs *pflag.FlagSet, field reflect.StructField, name, short, usage, defaultVal string, array bool) error {
	switch field.Type.Kind() {
	case reflect.String:
		fs.StringP(name, short, defaultVal, usage)

	case reflect.Int:
		def := 0
		if defaultVal != "" {
			parsed, err := strconv.Atoi(defaultVal)
			if err != nil {
				return fmt.Errorf("invalid default %q: %w", defaultVal, err)
			}
			def = parsed
		}
		fs.IntP(name, short, def, usage)

	case reflect.Bool:
		def := false
		if defaultVal != "" {
			parsed, err := strconv.ParseBool(defaultVal)
			if err != nil {
				return fmt.Errorf("invalid default %q: %w", defaultVal, err)
			}
			def = parsed
		}
		fs.BoolP(name, short, def, usage)

	case reflect.Slice:
		switch field.Type.Elem().Kind() {
		case reflect.String:
			if array {
				fs.StringArrayP(name, short, nil, usage)
			} else {
				fs.StringSliceP(name, short, nil, usage)
			}
		case reflect.Int:
			fs.IntSliceP(name, short, nil, usage)
		default:
			return fmt.Errorf("unsupported slice element type: %s", field.Type.Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type.Kind())
	}

	return nil
}

func structValue(target interface{}) (reflect.Value, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("target must be a pointer to struct")
	}
	return v.Elem(), nil
}
