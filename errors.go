package fontatlas

import "errors"

// Sentinel errors returned by Init.
var (
	// ErrEmptyPath is returned when Init is called without a font path.
	ErrEmptyPath = errors.New("fontatlas: empty font path")

	// ErrInvalidHeight is returned for a pixel height that is not a positive
	// finite number.
	ErrInvalidHeight = errors.New("fontatlas: pixel height must be positive")

	// ErrInvalidOversample is returned for oversampling factors outside
	// [1, text.MaxOversample].
	ErrInvalidOversample = errors.New("fontatlas: invalid oversampling factor")

	// ErrNotInitialized is returned by operations that need a loaded font.
	ErrNotInitialized = errors.New("fontatlas: font not initialized")
)

// LoadError is returned when Init cannot load the font file or create the
// atlas texture. The handle is left uninitialized.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return "fontatlas: load " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "fontatlas: invalid config." + e.Field + ": " + e.Reason
}
