package upscale

import (
	"context"
	"strings"

	"github.com/gogpu/upscale/backend"
)

// DeviceList formats devices one per line as "index: name".
func DeviceList(devices []backend.DeviceInfo) string {
	var b strings.Builder
	for _, d := range devices {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// ListDevices acquires the GPU context of m, formats its devices and
// releases the context again. A nil m uses DefaultContextManager.
func ListDevices(m *ContextManager) (string, error) {
	if m == nil {
		m = DefaultContextManager()
	}
	inst, err := m.Acquire()
	if err != nil {
		return "", err
	}
	defer m.Release()
	return DeviceList(inst.Devices()), nil
}

// textClip passes frames through and attaches a text property, the way a
// host text overlay would receive it.
type textClip struct {
	src  Clip
	text string
}

func (c *textClip) Info() VideoInfo {
	return c.src.Info()
}

func (c *textClip) Frame(ctx context.Context, n int) (*Frame, error) {
	f, err := c.src.Frame(ctx, n)
	if err != nil {
		return nil, err
	}
	out := f.withProps()
	out.Props[PropText] = c.text
	return out, nil
}

func (c *textClip) Free() {
	c.src.Free()
}
