// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// defaultHistoryLimit mirrors the shell package default. Defined locally
	// to avoid coupling config to internal/shell.
	defaultHistoryLimit = 500
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidStateDirPath is returned when a StateDirPath value is whitespace-only.
	ErrInvalidStateDirPath = errors.New("invalid state dir path")
	// ErrInvalidHistoryConfig is the sentinel error wrapped by InvalidHistoryConfigError.
	ErrInvalidHistoryConfig = errors.New("invalid history config")
	// ErrInvalidServeConfig is the sentinel error wrapped by InvalidServeConfigError.
	ErrInvalidServeConfig = errors.New("invalid serve config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// StateDirPath represents a filesystem path to the shell state directory.
	// The zero value ("") is valid and means "use the platform data directory".
	StateDirPath string

	// InvalidStateDirPathError is returned when a StateDirPath value is
	// non-empty but whitespace-only.
	InvalidStateDirPathError struct {
		Value StateDirPath
	}

	// InvalidHistoryConfigError is returned when a HistoryConfig has invalid
	// fields. It wraps ErrInvalidHistoryConfig for errors.Is() compatibility.
	InvalidHistoryConfigError struct {
		FieldErrors []error
	}

	// InvalidServeConfigError is returned when a ServeConfig has invalid
	// fields. It wraps ErrInvalidServeConfig for errors.Is() compatibility.
	InvalidServeConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// StateDir overrides where shell state records (filesystem,
		// environment, history) are stored.
		StateDir StateDirPath `toml:"state_dir" mapstructure:"state_dir"`
		// History configures command history retention.
		History HistoryConfig `toml:"history" mapstructure:"history"`
		// Serve configures the SSH listener used by the serve command.
		Serve ServeConfig `toml:"serve" mapstructure:"serve"`
		// UI configures the user interface.
		UI UIConfig `toml:"ui" mapstructure:"ui"`
	}

	// HistoryConfig configures command history retention.
	HistoryConfig struct {
		// Limit is the maximum number of retained history entries.
		Limit int `toml:"limit" mapstructure:"limit"`
	}

	// ServeConfig configures the SSH listener.
	ServeConfig struct {
		// Host is the interface the SSH listener binds to.
		Host string `toml:"host" mapstructure:"host"`
		// Port is the TCP port the SSH listener binds to.
		Port int `toml:"port" mapstructure:"port"`
		// HostKeyPath overrides where the server host key is stored.
		HostKeyPath string `toml:"host_key_path" mapstructure:"host_key_path"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme.
		ColorScheme ColorScheme `toml:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output.
		Verbose bool `toml:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the StateDirPath.
func (p StateDirPath) String() string { return string(p) }

// IsValid returns whether the StateDirPath is valid.
// The zero value ("") is valid (means "use the platform data directory").
// Non-zero values must not be whitespace-only.
func (p StateDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidStateDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidStateDirPathError.
func (e *InvalidStateDirPathError) Error() string {
	return fmt.Sprintf("invalid state dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidStateDirPath for errors.Is() compatibility.
func (e *InvalidStateDirPathError) Unwrap() error { return ErrInvalidStateDirPath }

// IsValid returns whether the HistoryConfig has valid fields.
// The retention limit must be at least one entry.
func (c HistoryConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Limit < 1 {
		errs = append(errs, fmt.Errorf("history limit %d: must be at least 1", c.Limit))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidHistoryConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHistoryConfigError.
func (e *InvalidHistoryConfigError) Error() string {
	return fmt.Sprintf("invalid history config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidHistoryConfig for errors.Is() compatibility.
func (e *InvalidHistoryConfigError) Unwrap() error { return ErrInvalidHistoryConfig }

// IsValid returns whether the ServeConfig has valid fields.
// The host must be non-empty and the port within the TCP range.
func (c ServeConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, fmt.Errorf("serve host: must be non-empty"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("serve port %d: must be in range 1-65535", c.Port))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidServeConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServeConfigError.
func (e *InvalidServeConfigError) Error() string {
	return fmt.Sprintf("invalid serve config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidServeConfig for errors.Is() compatibility.
func (e *InvalidServeConfigError) Unwrap() error { return ErrInvalidServeConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to StateDir.IsValid(), History.IsValid(), Serve.IsValid(),
// and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.StateDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.History.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Serve.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		StateDir: "", // Will use the platform data directory if empty
		History: HistoryConfig{
			Limit: defaultHistoryLimit,
		},
		Serve: ServeConfig{
			Host:        "localhost",
			Port:        2222,
			HostKeyPath: "", // Will use <config dir>/host_key if empty
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
