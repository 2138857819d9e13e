package backend

import (
	"errors"
	"testing"
)

type stubProvider struct{ name string }

func (p stubProvider) Name() string            { return p.name }
func (p stubProvider) Format() ModelFormat     { return NCNNFormat }
func (p stubProvider) Open() (Instance, error) { return nil, errors.New("stub") }

func withCleanRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := providers
	providers = make(map[string]Provider)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		providers = saved
		registryMu.Unlock()
	})
}

func TestRegisterAndGet(t *testing.T) {
	withCleanRegistry(t)

	Register(stubProvider{name: "custom"})
	if !IsRegistered("custom") {
		t.Fatal("IsRegistered(custom) = false, want true")
	}
	if p := Get("custom"); p == nil || p.Name() != "custom" {
		t.Errorf("Get(custom) = %v, want custom provider", p)
	}
	if p := Get("missing"); p != nil {
		t.Errorf("Get(missing) = %v, want nil", p)
	}

	Unregister("custom")
	if IsRegistered("custom") {
		t.Error("IsRegistered(custom) after Unregister = true, want false")
	}
}

func TestDefaultPriority(t *testing.T) {
	withCleanRegistry(t)

	if p := Default(); p != nil {
		t.Fatalf("Default() on empty registry = %v, want nil", p)
	}

	Register(stubProvider{name: "zeta"})
	Register(stubProvider{name: "alpha"})
	if got := Default().Name(); got != "alpha" {
		t.Errorf("Default() = %q, want %q (name order outside priority)", got, "alpha")
	}

	Register(stubProvider{name: ProviderWGPU})
	if got := Default().Name(); got != ProviderWGPU {
		t.Errorf("Default() = %q, want %q", got, ProviderWGPU)
	}

	Register(stubProvider{name: ProviderONNX})
	if got := Default().Name(); got != ProviderONNX {
		t.Errorf("Default() = %q, want %q", got, ProviderONNX)
	}

	got := Available()
	want := []string{"alpha", ProviderONNX, ProviderWGPU, "zeta"}
	if len(got) != len(want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLookup(t *testing.T) {
	withCleanRegistry(t)

	if _, err := Lookup(""); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Lookup(\"\") on empty registry error = %v, want ErrNotRegistered", err)
	}

	Register(stubProvider{name: "custom"})
	p, err := Lookup("")
	if err != nil || p.Name() != "custom" {
		t.Errorf("Lookup(\"\") = %v, %v; want custom", p, err)
	}
	if _, err := Lookup("nope"); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Lookup(nope) error = %v, want ErrNotRegistered", err)
	}
}

func TestRegisterNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register(nil) did not panic")
		}
	}()
	Register(nil)
}

func TestImagePlanes(t *testing.T) {
	im := NewImage(4, 3)
	if len(im.Data) != Channels*4*3 {
		t.Fatalf("len(Data) = %d, want %d", len(im.Data), Channels*4*3)
	}

	im.Set(0, 1, 2, 0.25)
	im.Set(2, 3, 0, 0.75)

	if got := im.At(0, 1, 2); got != 0.25 {
		t.Errorf("At(0,1,2) = %v, want 0.25", got)
	}
	if got := im.Plane(0)[2*4+1]; got != 0.25 {
		t.Errorf("Plane(0)[9] = %v, want 0.25", got)
	}
	if got := im.Plane(2)[3]; got != 0.75 {
		t.Errorf("Plane(2)[3] = %v, want 0.75", got)
	}
	if got := im.Plane(1); len(got) != 12 {
		t.Errorf("len(Plane(1)) = %d, want 12", len(got))
	}
}

func TestBorderMissing(t *testing.T) {
	tests := []struct {
		name string
		b    Border
		pad  int
		want Border
	}{
		{"interior", Border{7, 7, 7, 7}, 7, Border{}},
		{"top-left corner", Border{0, 0, 7, 7}, 7, Border{7, 7, 0, 0}},
		{"partial", Border{3, 18, 18, 10}, 18, Border{15, 0, 0, 8}},
		{"no padding", Border{}, 0, Border{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Missing(tt.pad); got != tt.want {
				t.Errorf("Missing(%d) = %+v, want %+v", tt.pad, got, tt.want)
			}
		})
	}
}

func TestDeviceInfoString(t *testing.T) {
	d := DeviceInfo{Index: 1, Name: "NVIDIA GeForce RTX 3080", Type: DeviceDiscrete}
	if got := d.String(); got != "1: NVIDIA GeForce RTX 3080" {
		t.Errorf("String() = %q", got)
	}
	if got := d.Type.String(); got != "discrete" {
		t.Errorf("Type.String() = %q, want discrete", got)
	}
	if got := DeviceType(42).String(); got != "other" {
		t.Errorf("DeviceType(42).String() = %q, want other", got)
	}
}
