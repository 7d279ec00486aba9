package warp

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU is returned by an accelerator that cannot take an
// operation; the engine then samples on the CPU without surfacing an error.
var ErrFallbackToCPU = errors.New("warp: falling back to CPU sampling")

// AcceleratedOp is a bitmask of operations an accelerator can take over.
type AcceleratedOp uint32

const (
	// AccelWarp represents field-driven resampling of a source image.
	AccelWarp AcceleratedOp = 1 << iota
)

// GPUTarget provides pixel buffer access for GPU output.
// The Data slice must be opaque RGBA, 4 bytes per pixel, laid out row by
// row with the given Stride.
type GPUTarget struct {
	Data          []uint8
	Width, Height int
	Stride        int // bytes per row
}

// WarpParams carries the sampling configuration for an accelerated warp.
// Background modes arrive pre-resolved: when the engine averages the
// source it stores the result in Background, so accelerators treat
// ExtendBackground and ExtendBackgroundAverage identically.
type WarpParams struct {
	Extend     ExtendMode
	Interp     InterpolationMode
	Background [4]uint8 // RGBA fill for background modes
}

// GPUAccelerator is an optional GPU backend for the warp engine. A
// registered accelerator is offered every supported operation first; on
// ErrFallbackToCPU or any other error the engine samples on the CPU.
//
// Backends live in their own packages and register through a blank import:
//
//	import _ "github.com/gogpu/warp/gpu" // enables GPU acceleration
type GPUAccelerator interface {
	// Name identifies the backend (e.g., "warp-wgpu") in log output.
	Name() string

	// Init acquires GPU resources. It runs once, during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the backend handles op at all. It must
	// be cheap; the engine calls it per warp before building GPU state.
	CanAccelerate(op AcceleratedOp) bool

	// WarpField samples the flattened source through the coordinate field
	// into the target. The field dimensions match the target dimensions.
	// Returns ErrFallbackToCPU if the configuration cannot be
	// GPU-accelerated (e.g., bicubic interpolation). src is recycled after
	// the call returns, so implementations must not retain it.
	WarpField(target GPUTarget, src *ImageBuf, field *Field, params WarpParams) error
}

// DeviceProviderAware marks accelerators that can run on an externally
// owned GPU device (e.g., one shared with a gogpu window) instead of
// creating their own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator installs a as the process-wide accelerator, calling
// its Init first; an Init error aborts the registration. There is at most
// one accelerator: a second registration replaces and closes the first.
// Backend packages call this from their init functions.
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("warp: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Accelerator returns the registered accelerator, or nil.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider hands an external device provider to the
// registered accelerator. Without a registered accelerator, or with one
// that is not DeviceProviderAware, it is a no-op.
//
// The provider is expected to expose HalDevice() any and HalQueue() any
// returning wgpu/hal types.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
