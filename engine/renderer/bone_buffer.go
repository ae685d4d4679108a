package renderer

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// BoneMatrixSize is the size in bytes of one skinning matrix in a bone buffer.
const BoneMatrixSize = 64

// BoneBuffer is a GPU storage buffer holding one entity's skinning matrices.
// It grows when an upload is larger than its current size.
type BoneBuffer struct {
	mu sync.Mutex

	backend RendererBackend
	label   string
	buffer  *wgpu.Buffer
	size    uint64
}

func newBoneBuffer(backend RendererBackend, label string, boneCount int) (*BoneBuffer, error) {
	b := &BoneBuffer{backend: backend, label: label}
	if err := b.ensureSize(bufferSize(boneCount)); err != nil {
		return nil, err
	}
	return b, nil
}

// bufferSize returns the storage size for boneCount matrices; storage bindings may not be empty.
func bufferSize(boneCount int) uint64 {
	return uint64(max(boneCount, 1)) * BoneMatrixSize
}

// Upload writes the serialized skinning matrices to the GPU.
//
// Parameters:
//   - data: BoneCount * 64 bytes of little-endian float32 matrices
//
// Returns:
//   - error: error if the buffer had to grow and the allocation failed
func (b *BoneBuffer) Upload(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureSize(uint64(len(data))); err != nil {
		return err
	}
	b.backend.WriteBuffer(b.buffer, 0, data)
	return nil
}

// Buffer returns the underlying GPU buffer.
func (b *BoneBuffer) Buffer() *wgpu.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer
}

// Size returns the buffer size in bytes.
func (b *BoneBuffer) Size() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// BindGroupEntry describes the whole buffer at the given binding.
//
// Parameters:
//   - binding: the binding index in the bind group layout
//
// Returns:
//   - wgpu.BindGroupEntry: the bind group entry
func (b *BoneBuffer) BindGroupEntry(binding uint32) wgpu.BindGroupEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return wgpu.BindGroupEntry{
		Binding: binding,
		Buffer:  b.buffer,
		Offset:  0,
		Size:    wgpu.WholeSize,
	}
}

// Release frees the GPU buffer.
func (b *BoneBuffer) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
		b.size = 0
	}
}

func (b *BoneBuffer) ensureSize(size uint64) error {
	if b.buffer != nil && size <= b.size {
		return nil
	}

	buf, err := b.backend.CreateStorageBuffer(b.label+" Bone Buffer", size)
	if err != nil {
		return fmt.Errorf("renderer: failed to create bone buffer %q: %w", b.label, err)
	}
	if b.buffer != nil {
		b.buffer.Release()
	}
	b.buffer = buf
	b.size = size
	return nil
}
