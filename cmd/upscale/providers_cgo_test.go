//go:build cgo

package main

import (
	"testing"

	"github.com/gogpu/upscale/backend"
)

func TestDefaultBackendRunsNets(t *testing.T) {
	p := backend.Default()
	if p == nil {
		t.Fatalf("no provider registered (available: %v)", backend.Available())
	}
	if p.Name() != backend.ProviderONNX {
		t.Errorf("default provider = %q, want %q", p.Name(), backend.ProviderONNX)
	}
	if !backend.RunsNets(p) {
		t.Errorf("default provider %q cannot run networks", p.Name())
	}
	if backend.IsRegistered(backend.ProviderWGPU) {
		t.Error("wgpu provider registered in a cgo build")
	}
}
