package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-motion/engine/animator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ animator.BoneBuffer = (*BoneBuffer)(nil)

func TestBufferSize(t *testing.T) {
	assert.Equal(t, uint64(64), bufferSize(0), "storage bindings may not be empty")
	assert.Equal(t, uint64(64), bufferSize(1))
	assert.Equal(t, uint64(3*64), bufferSize(3))
}

func TestBoneBufferUpload(t *testing.T) {
	r, err := NewRenderer(WithForceFallbackAdapter(true))
	if err != nil {
		t.Skipf("no GPU adapter available: %v", err)
	}
	defer r.Release()

	b, err := r.NewBoneBuffer("hero", 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(128), b.Size())
	first := b.Buffer()

	require.NoError(t, b.Upload(make([]byte, 128)))
	assert.Same(t, first, b.Buffer(), "an upload that fits reuses the buffer")

	require.NoError(t, b.Upload(make([]byte, 4*64)))
	assert.Equal(t, uint64(256), b.Size())
	assert.NotSame(t, first, b.Buffer())

	entry := b.BindGroupEntry(3)
	assert.Equal(t, uint32(3), entry.Binding)
	assert.Same(t, b.Buffer(), entry.Buffer)
}
