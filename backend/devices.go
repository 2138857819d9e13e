package backend

// Compute queue budgets per device type. Neither Vulkan HAL nor the CUDA
// driver report a usable queue count, so these follow what common drivers
// expose for their compute-capable families.
const (
	discreteQueues   = 8
	integratedQueues = 2
	otherQueues      = 1
)

// ComputeQueues returns the concurrent submission budget of a device type.
func ComputeQueues(t DeviceType) int {
	switch t {
	case DeviceDiscrete:
		return discreteQueues
	case DeviceIntegrated:
		return integratedQueues
	default:
		return otherQueues
	}
}

// PreferredDevice returns the index of the first discrete device, else the
// first integrated one, else 0. It returns -1 when devs is empty.
func PreferredDevice(devs []DeviceInfo) int {
	if len(devs) == 0 {
		return -1
	}
	for _, want := range []DeviceType{DeviceDiscrete, DeviceIntegrated} {
		for _, d := range devs {
			if d.Type == want {
				return d.Index
			}
		}
	}
	return 0
}

// EnumerateOnly is implemented by providers that list devices but cannot
// execute a Net.
type EnumerateOnly interface {
	EnumerateOnly() bool
}

// RunsNets reports whether p can execute networks.
func RunsNets(p Provider) bool {
	if p == nil {
		return false
	}
	e, ok := p.(EnumerateOnly)
	return !ok || !e.EnumerateOnly()
}
