// Package envconfig reads upscale settings from the process environment.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Models returns the root directory holding the model variant directories.
// Configurable via UPSCALE_MODELS.
// Default: the "models" directory next to the running executable.
func Models() string {
	if s := Var("UPSCALE_MODELS"); s != "" {
		return s
	}

	exe, err := os.Executable()
	if err != nil {
		return "models"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "models")
}

// LogLevel returns the log level for the CLI.
// Configurable via UPSCALE_DEBUG: a true boolean selects debug, an integer n
// selects slog.Level(-4n).
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("UPSCALE_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

var (
	// Backend selects the provider name. Empty means automatic selection.
	Backend = String("UPSCALE_BACKEND")
	// ORTLibrary is the path of the onnxruntime shared library.
	ORTLibrary = String("UPSCALE_ORT_LIBRARY")
	// CUDALibrary is the CUDA driver library used to enumerate devices.
	CUDALibrary = StringDefault("UPSCALE_CUDA_LIBRARY", "libcuda.so.1")
	// MaxRequests bounds parallel frame requests in the CLI. Zero means GOMAXPROCS.
	MaxRequests = Uint("UPSCALE_MAX_REQUESTS", 0)
)

// Var returns an environment variable stripped of surrounding quotes and spaces.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// String returns a getter for a string variable.
func String(s string) func() string {
	return func() string {
		return Var(s)
	}
}

// StringDefault returns a getter for a string variable with a default.
func StringDefault(key, defaultValue string) func() string {
	return func() string {
		if s := Var(key); s != "" {
			return s
		}
		return defaultValue
	}
}

// Uint returns a getter for an unsigned integer variable with a default.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// EnvVar describes one environment variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every setting with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"UPSCALE_DEBUG":        {"UPSCALE_DEBUG", LogLevel(), "Show additional debug information (e.g. UPSCALE_DEBUG=1)"},
		"UPSCALE_MODELS":       {"UPSCALE_MODELS", Models(), "The path to the models directory"},
		"UPSCALE_BACKEND":      {"UPSCALE_BACKEND", Backend(), "Inference provider to use (onnx, wgpu)"},
		"UPSCALE_ORT_LIBRARY":  {"UPSCALE_ORT_LIBRARY", ORTLibrary(), "Path to the onnxruntime shared library"},
		"UPSCALE_MAX_REQUESTS": {"UPSCALE_MAX_REQUESTS", MaxRequests(), "Maximum number of parallel frame requests"},
		"UPSCALE_CUDA_LIBRARY": {"UPSCALE_CUDA_LIBRARY", CUDALibrary(), "CUDA driver library used to list devices"},
	}
}

// Values returns every setting formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
