package config

import "github.com/KOMKZ/yogan-webconfig/errcode"

// Module code 11: configuration loading
var (
	// ErrSourceNotFound file behind a source does not exist
	ErrSourceNotFound = errcode.Register(errcode.New(11, 1, "config",
		"error.config.source_not_found", "configuration file does not exist"))

	// ErrSourceIsDir path points at a directory
	ErrSourceIsDir = errcode.Register(errcode.New(11, 2, "config",
		"error.config.source_is_dir", "configuration path is a directory"))

	// ErrSourceUnreadable file exists but cannot be opened
	ErrSourceUnreadable = errcode.Register(errcode.New(11, 3, "config",
		"error.config.source_unreadable", "configuration file is not readable"))

	// ErrSourceRead I/O failure while reading an opened file
	ErrSourceRead = errcode.Register(errcode.New(11, 4, "config",
		"error.config.source_read", "failed to read configuration file"))

	// ErrSourceParse content could not be parsed
	ErrSourceParse = errcode.Register(errcode.New(11, 5, "config",
		"error.config.source_parse", "failed to parse configuration file"))

	// ErrSourceNotInChain name-addressed chain operation found no source
	ErrSourceNotInChain = errcode.Register(errcode.New(11, 6, "config",
		"error.config.source_not_in_chain", "configuration source not found in chain"))

	// ErrInvalidOptions options failed validation
	ErrInvalidOptions = errcode.Register(errcode.New(11, 7, "config",
		"error.config.invalid_options", "invalid configuration options"))
)
