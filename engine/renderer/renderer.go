package renderer

import (
	"fmt"
	"sync"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	buffers []*BoneBuffer

	forceFallbackAdapter bool
}

// Renderer owns the GPU context that animated bone data is uploaded to.
//
// The Renderer is headless: it creates no surface and draws nothing. Bone buffers created through
// it are storage buffers a render pipeline elsewhere can bind.
type Renderer interface {
	// Backend returns the GPU API implementation.
	//
	// Returns:
	//   - RendererBackend: the backend
	Backend() RendererBackend

	// NewBoneBuffer allocates a storage buffer sized for boneCount skinning matrices.
	//
	// Parameters:
	//   - label: the debug label of the buffer
	//   - boneCount: the number of 4x4 float32 matrices the buffer holds
	//
	// Returns:
	//   - *BoneBuffer: the new buffer, released together with the Renderer
	//   - error: error if the allocation fails
	NewBoneBuffer(label string, boneCount int) (*BoneBuffer, error)

	// Release frees every bone buffer and the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer and its GPU device.
//
// Parameters:
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the new Renderer
//   - error: error if no adapter or device is available
func NewRenderer(options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: BackendTypeWGPU,
	}
	for _, option := range options {
		option(r)
	}

	switch r.backendType {
	case BackendTypeWGPU:
		backend, err := newWGPURendererBackend(r.forceFallbackAdapter)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	default:
		return nil, fmt.Errorf("renderer: unsupported backend type %d", r.backendType)
	}
	return r, nil
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) NewBoneBuffer(label string, boneCount int) (*BoneBuffer, error) {
	b, err := newBoneBuffer(r.backend, label, boneCount)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.buffers = append(r.buffers, b)
	r.mu.Unlock()
	return b, nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.buffers {
		b.Release()
	}
	r.buffers = nil
	r.backend.Release()
}
