package pose

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUBoneTransform is the GPU-aligned representation of one exported bone.
// Size: 64 bytes (mat4x4<f32>, std430 aligned).
type GPUBoneTransform struct {
	Skinning [16]float32 // offset 0, size 64: world * inverse bind, column-major
}

// Size returns the size of the GPUBoneTransform struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *GPUBoneTransform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo serializes the bone matrix into buf, which must hold at least 64 bytes.
//
// Parameters:
//   - buf: the destination buffer
func (g *GPUBoneTransform) MarshalTo(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Skinning[i]))
	}
}

// Marshal serializes the GPUBoneTransform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUBoneTransform) Marshal() []byte {
	buf := make([]byte, 64)
	g.MarshalTo(buf)
	return buf
}
