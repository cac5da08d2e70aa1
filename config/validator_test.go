package config

import (
	"errors"
	"testing"

	"github.com/KOMKZ/yogan-webconfig/errcode"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct{ err error }

func (f fakeValidator) Validate() error { return f.err }

func TestValidateAll(t *testing.T) {
	assert.NoError(t, ValidateAll())
	assert.NoError(t, ValidateAll(fakeValidator{}, fakeValidator{}))

	plain := errors.New("plain failure")
	err := ValidateAll(fakeValidator{}, fakeValidator{err: plain}, fakeValidator{err: errors.New("not reached")})
	assert.Same(t, plain, err)
}

func TestValidateAll_FieldErrors(t *testing.T) {
	opts := ProvideLoaderOptions{ConfigPrefix: "lower"}

	err := ValidateAll(opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOptions))

	var le *errcode.LayeredError
	require.True(t, errors.As(err, &le))
	fields, ok := le.Data()["fields"].(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields, "ConfigPrefix")

	var fieldErrs validation.Errors
	assert.True(t, errors.As(err, &fieldErrs))
}

func TestProvideLoaderOptions_Validate(t *testing.T) {
	assert.NoError(t, ProvideLoaderOptions{}.Validate())
	assert.NoError(t, ProvideLoaderOptions{ConfigPrefix: "WEBCONFIG_2"}.Validate())
	assert.Error(t, ProvideLoaderOptions{ConfigPrefix: "2WEB"}.Validate())
}
