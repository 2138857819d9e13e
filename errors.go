package upscale

import (
	"errors"
	"fmt"
)

// Error kinds for errors.Is.
var (
	// ErrConfig matches every *ConfigError.
	ErrConfig = errors.New("upscale: invalid configuration")

	// ErrInitialization matches every *InitError.
	ErrInitialization = errors.New("upscale: initialization failed")

	// ErrInference matches every *InferenceError.
	ErrInference = errors.New("upscale: inference failed")
)

// ConfigError reports an invalid user option. It is returned by New and
// Resolve before any resource is retained.
type ConfigError struct {
	// Option is the argument key, e.g. "tile_w". Empty for input format errors.
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return "upscale: " + e.Reason
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func configErrorf(option, format string, args ...any) *ConfigError {
	return &ConfigError{Option: option, Reason: fmt.Sprintf(format, args...)}
}

// InitError reports a failure to create the GPU context or load a model.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return "upscale: " + e.Op
	}
	return "upscale: " + e.Op + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

func (e *InitError) Is(target error) bool {
	return target == ErrInitialization
}

// InferenceError reports a failed tile. The whole frame is discarded.
type InferenceError struct {
	Frame        int
	TileX, TileY int
	Err          error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("upscale: frame %d: tile (%d,%d): %v", e.Frame, e.TileX, e.TileY, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

func (e *InferenceError) Is(target error) bool {
	return target == ErrInference
}
