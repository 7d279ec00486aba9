//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/warp"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// WarpAccelerator samples coordinate fields on the GPU using a wgpu/hal
// compute shader. It implements the warp.GPUAccelerator interface.
//
// Each WarpField call is one dispatch: params, field, and source pixels
// are uploaded, the kernel writes packed RGBA output, and the result is
// read back into the target.
type WarpAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

var _ warp.GPUAccelerator = (*WarpAccelerator)(nil)

func (a *WarpAccelerator) Name() string { return "warp-wgpu" }

func (a *WarpAccelerator) CanAccelerate(op warp.AcceleratedOp) bool {
	return op&warp.AccelWarp != 0
}

// SetLogger receives the logger warp.SetLogger propagates to accelerators.
func (a *WarpAccelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// Init brings up the GPU device and pipeline. A failed init does not
// error: the accelerator stays registered and declines all work, so the
// engine samples on the CPU.
func (a *WarpAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		slogger().Warn("gpu-warp: GPU init failed, accelerator disabled", "err", err)
	}
	return nil
}

func (a *WarpAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
			a.device = nil
		}
		if a.instance != nil {
			a.instance.Destroy()
			a.instance = nil
		}
	} else {
		// Don't destroy shared resources — we don't own them
		a.device = nil
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to use a shared GPU device
// from an external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (a *WarpAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu-warp: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu-warp: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu-warp: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Destroy own resources if we created them
	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	// Use provided resources
	a.device = device
	a.queue = queue
	a.externalDevice = true

	// Recreate pipelines with shared device
	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("gpu-warp: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu-warp: switched to shared GPU device")
	return nil
}

// WarpField samples the source through the field on the GPU. Unsupported
// configurations return warp.ErrFallbackToCPU and leave the target
// untouched.
func (a *WarpAccelerator) WarpField(target warp.GPUTarget, src *warp.ImageBuf, field *warp.Field, params warp.WarpParams) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return warp.ErrFallbackToCPU
	}
	if params.Interp != warp.InterpNearest && params.Interp != warp.InterpBilinear {
		return warp.ErrFallbackToCPU
	}
	if src == nil || src.Format() != warp.FormatRGBA8 {
		return warp.ErrFallbackToCPU
	}
	if field == nil || field.Width() != target.Width || field.Height() != target.Height {
		return warp.ErrFallbackToCPU
	}
	if target.Width <= 0 || target.Height <= 0 {
		return warp.ErrFallbackToCPU
	}
	return a.dispatch(target, src, field, params)
}

// dispatch uploads the kernel inputs, runs one compute pass, and reads
// the output back into the target.
func (a *WarpAccelerator) dispatch(target warp.GPUTarget, src *warp.ImageBuf, field *warp.Field, params warp.WarpParams) error {
	w := uint32(target.Width)   //nolint:gosec // dimensions always fit uint32
	h := uint32(target.Height)  //nolint:gosec // dimensions always fit uint32
	outSize := uint64(w) * uint64(h) * 4

	kp := kernelParams{
		OutWidth:   w,
		OutHeight:  h,
		SrcWidth:   uint32(src.Width()),  //nolint:gosec // dimensions always fit uint32
		SrcHeight:  uint32(src.Height()), //nolint:gosec // dimensions always fit uint32
		ExtendMode: uint32(params.Extend),
		InterpMode: uint32(params.Interp),
		Background: packColor(params.Background),
	}
	paramsBytes := structToBytes(unsafe.Pointer(&kp), unsafe.Sizeof(kp)) //nolint:gosec // safe struct access
	fieldBytes := float32Bytes(field.Coords())
	srcBytes := packImagePixels(src)

	paramsBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "warp_params", Size: uint64(len(paramsBytes)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paramsBuf)

	fieldBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "warp_field", Size: uint64(len(fieldBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create field buffer: %w", err)
	}
	defer a.device.DestroyBuffer(fieldBuf)

	srcBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "warp_src", Size: uint64(len(srcBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create source buffer: %w", err)
	}
	defer a.device.DestroyBuffer(srcBuf)

	dstBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "warp_dst", Size: outSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create output buffer: %w", err)
	}
	defer a.device.DestroyBuffer(dstBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "warp_staging", Size: outSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(paramsBuf, 0, paramsBytes)
	a.queue.WriteBuffer(fieldBuf, 0, fieldBytes)
	a.queue.WriteBuffer(srcBuf, 0, srcBytes)

	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "warp_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: uint64(len(paramsBytes))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: fieldBuf.NativeHandle(), Offset: 0, Size: uint64(len(fieldBytes))}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: srcBuf.NativeHandle(), Offset: 0, Size: uint64(len(srcBytes))}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: dstBuf.NativeHandle(), Offset: 0, Size: outSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bg)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "warp_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("warp"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "warp_pass"})
	computePass.SetPipeline(a.pipeline)
	computePass.SetBindGroup(0, bg, nil)
	computePass.Dispatch((w+7)/8, (h+7)/8, 1)
	computePass.End()

	encoder.CopyBufferToBuffer(dstBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, outSize)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	copyToTarget(readback, target)
	return nil
}

func (a *WarpAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu-warp: accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *WarpAccelerator) createPipelines() error {
	code, err := compileWGSL(warpShaderSource)
	if err != nil {
		return fmt.Errorf("compile warp shader: %w", err)
	}
	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "warp_sample",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "warp_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "warp_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "warp_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline

	return nil
}

func (a *WarpAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}

// packColor packs an RGBA color the way the shader unpacks it: r in the
// low byte.
func packColor(c [4]uint8) uint32 {
	return uint32(c[0]) | uint32(c[1])<<8 | uint32(c[2])<<16 | uint32(c[3])<<24
}

// packImagePixels concatenates the pixel rows of a FormatRGBA8 image into
// a tightly packed upload buffer.
func packImagePixels(img *warp.ImageBuf) []byte {
	w, h := img.Bounds()
	out := make([]byte, w*h*4)
	for y := range h {
		copy(out[y*w*4:(y+1)*w*4], img.RowBytes(y))
	}
	return out
}

// copyToTarget writes packed kernel output into the target, honoring its
// stride. Kernel output bytes are already RGBA in memory order.
func copyToTarget(readback []byte, target warp.GPUTarget) {
	rowLen := target.Width * 4
	for y := 0; y < target.Height; y++ {
		copy(target.Data[y*target.Stride:y*target.Stride+rowLen], readback[y*rowLen:(y+1)*rowLen])
	}
}

func structToBytes(ptr unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), size) //nolint:gosec // safe struct serialization
}

// float32Bytes views a float32 slice as raw little-endian bytes for
// buffer upload.
func float32Bytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4) //nolint:gosec // raw upload view
}
