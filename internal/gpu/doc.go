// Package gpu implements the wgpu compute kernel behind warp's optional
// GPU acceleration.
//
// The kernel samples a flattened source image through an uploaded
// coordinate field in a single compute dispatch: one thread per output
// pixel, 8x8 workgroups. WGSL source is embedded and compiled to SPIR-V
// at pipeline creation via naga.
//
// The package never fails a warp. When the device is unavailable or the
// configuration is unsupported (bicubic interpolation), WarpField returns
// warp.ErrFallbackToCPU and the engine samples on the CPU instead.
//
// mirrorWarp replicates the shader algorithm in float32 on the CPU; GPU
// parity tests compare dispatch output against it.
package gpu
