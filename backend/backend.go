package backend

import (
	"context"
	"errors"
	"fmt"
)

// Common backend errors.
var (
	// ErrNotRegistered is returned when a requested provider is not registered.
	ErrNotRegistered = errors.New("backend: provider not registered")

	// ErrNoDevice is returned when a device index does not exist.
	ErrNoDevice = errors.New("backend: no such device")

	// ErrNetUnsupported is returned by instances that can enumerate devices
	// but cannot run a network.
	ErrNetUnsupported = errors.New("backend: network execution not supported")

	// ErrClosed is returned when a Net or Instance is used after Close.
	ErrClosed = errors.New("backend: closed")
)

// Provider creates the process-wide GPU instance for one inference engine.
//
// Open is called by the context manager on the 0→1 reference transition and
// must not be called concurrently with the Close of a previous Instance; the
// context manager serializes both.
type Provider interface {
	// Name returns the provider identifier (e.g., "onnx").
	Name() string

	// Format describes the model files this provider loads.
	Format() ModelFormat

	// Open performs one-time GPU backend initialization.
	Open() (Instance, error)
}

// Instance is an initialized GPU backend shared by all filters in a process.
type Instance interface {
	// Devices enumerates the GPUs usable by this instance, indexed from 0.
	Devices() []DeviceInfo

	// DefaultDevice returns the index of the platform default device,
	// or -1 when no device is available.
	DefaultDevice() int

	// NewNet loads a network on the device named in opts.
	NewNet(opts NetOptions) (Net, error)

	// Close tears down the instance. Nets created from it must already be closed.
	Close() error
}

// Net runs one loaded super-resolution network.
//
// Forward receives a padded tile and must fill out, which covers only the
// unpadded tile magnified by the configured scale. Border reports how many
// context pixels are really present on each side of in; where fewer than the
// configured prepadding are present the net extends the tile with its own
// border policy. Forward must be safe for concurrent use.
type Net interface {
	Forward(ctx context.Context, in Image, border Border, out Image) error
	Close() error
}

// NetOptions selects the device and model for NewNet.
type NetOptions struct {
	// Device is the index into Instance.Devices.
	Device int

	// Files are the model assets, in the order given by the provider's Format.
	Files []string

	Noise      int
	Scale      int
	Prepadding int

	// FP32 requests full precision storage and arithmetic.
	FP32 bool
}

// ModelFormat lists the file extensions that make up one model.
type ModelFormat struct {
	Extensions []string
}

// NCNNFormat is the classic param/bin pair used by the waifu2x model zoo.
var NCNNFormat = ModelFormat{Extensions: []string{".param", ".bin"}}

// DeviceType classifies a GPU.
type DeviceType int

const (
	DeviceOther DeviceType = iota
	DeviceIntegrated
	DeviceDiscrete
	DeviceVirtual
	DeviceCPU
)

// String returns a lowercase device type name.
func (t DeviceType) String() string {
	switch t {
	case DeviceIntegrated:
		return "integrated"
	case DeviceDiscrete:
		return "discrete"
	case DeviceVirtual:
		return "virtual"
	case DeviceCPU:
		return "cpu"
	default:
		return "other"
	}
}

// DeviceInfo describes one enumerated GPU.
type DeviceInfo struct {
	// Index is the position in the enumeration, used as gpu_id.
	Index int

	// Name is the human-readable device name reported by the driver.
	Name string

	Type DeviceType

	// ComputeQueues is the number of submissions the device accepts
	// concurrently. gpu_thread may not exceed it.
	ComputeQueues int
}

// String returns "index: name".
func (d DeviceInfo) String() string {
	return fmt.Sprintf("%d: %s", d.Index, d.Name)
}
