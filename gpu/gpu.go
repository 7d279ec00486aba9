//go:build !nogpu

// Package gpu registers the GPU accelerator for hardware-accelerated
// warping.
//
// Import this package to run warp's field sampling as a wgpu compute
// dispatch. The accelerator handles nearest and bilinear interpolation
// with every extension policy; bicubic warps stay on the CPU.
//
// If GPU initialization fails (no Vulkan available), the registration is
// silently skipped and warping falls back to CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/warp/gpu" // enable GPU acceleration
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/warp"
	gpuimpl "github.com/gogpu/warp/internal/gpu"
)

func init() {
	accel := &gpuimpl.WarpAccelerator{}
	if err := warp.RegisterAccelerator(accel); err != nil {
		warp.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// DeviceHandle provides GPU device access from a host application.
//
// Hosts that already own a GPU device (e.g., a gogpu window) implement
// DeviceHandle and pass it to SetDeviceHandle, letting warp dispatch on
// the shared device instead of creating its own.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// warp-specific name for the interface while maintaining full
// compatibility with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// SetDeviceHandle configures the registered accelerator to use a shared
// GPU device. The handle must also expose HAL types via HalDevice() any
// and HalQueue() any for direct dispatch access.
func SetDeviceHandle(h DeviceHandle) error {
	return warp.SetAcceleratorDeviceProvider(h)
}

// SetDeviceProvider is the untyped variant of SetDeviceHandle for
// providers outside the gpucontext ecosystem.
//
// The provider should implement HalDevice() any and HalQueue() any
// methods that return wgpu/hal types.
func SetDeviceProvider(provider any) error {
	return warp.SetAcceleratorDeviceProvider(provider)
}
