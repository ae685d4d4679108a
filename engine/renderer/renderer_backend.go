package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU API implementation behind a Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU backend.
	BackendTypeWGPU RendererBackendType = iota
)

// RendererBackend is the GPU API implementation the Renderer delegates buffer management to.
type RendererBackend interface {
	// CreateStorageBuffer allocates a storage buffer that can be written from the CPU.
	//
	// Parameters:
	//   - label: the debug label of the buffer
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the new buffer
	//   - error: error if the allocation fails
	CreateStorageBuffer(label string, size uint64) (*wgpu.Buffer, error)

	// WriteBuffer queues a write of data into buf at offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the byte offset into buf
	//   - data: the bytes to write
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)

	// Device returns the GPU device.
	Device() *wgpu.Device

	// Queue returns the device's queue.
	Queue() *wgpu.Queue

	// Release frees the device and adapter.
	Release()
}
