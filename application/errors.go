package application

import "github.com/KOMKZ/yogan-webconfig/errcode"

// Module code 12: command line tool
var (
	// ErrKeyNotFound no source in the chain defines the key
	ErrKeyNotFound = errcode.Register(errcode.New(12, 1, "cli",
		"error.cli.key_not_found", "configuration key is not set"))

	// ErrUnknownFormat unsupported dump format
	ErrUnknownFormat = errcode.Register(errcode.New(12, 2, "cli",
		"error.cli.unknown_format", "unknown output format"))

	// ErrInvalidOverride malformed --set argument
	ErrInvalidOverride = errcode.Register(errcode.New(12, 3, "cli",
		"error.cli.invalid_override", "invalid --set override"))

	// ErrNotSetup command ran before the application was set up
	ErrNotSetup = errcode.Register(errcode.New(12, 4, "cli",
		"error.cli.not_setup", "application is not set up"))
)
