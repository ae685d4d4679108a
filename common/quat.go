package common

import "math"

// slerpLinearThreshold is the cosine above which Slerp falls back to a normalized lerp.
const slerpLinearThreshold = 1 - 1e-7

// QuatIdentity returns the identity rotation (x, y, z, w) = (0, 0, 0, 1).
func QuatIdentity() [4]float32 {
	return [4]float32{0, 0, 0, 1}
}

// QuatFromAxisAngle builds a unit quaternion rotating by angle radians around axis.
// The axis does not need to be normalized; a zero axis yields the identity rotation.
//
// Parameters:
//   - axis: the rotation axis
//   - angle: the rotation angle in radians
//
// Returns:
//   - [4]float32: the quaternion (x, y, z, w)
func QuatFromAxisAngle(axis [3]float32, angle float64) [4]float32 {
	l := math.Sqrt(float64(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2]))
	if l == 0 {
		return QuatIdentity()
	}
	s := math.Sin(angle/2) / l
	return [4]float32{
		float32(float64(axis[0]) * s),
		float32(float64(axis[1]) * s),
		float32(float64(axis[2]) * s),
		float32(math.Cos(angle / 2)),
	}
}

// QuatDot returns the four-component dot product of a and b.
func QuatDot(a, b [4]float32) float64 {
	return float64(a[0])*float64(b[0]) + float64(a[1])*float64(b[1]) + float64(a[2])*float64(b[2]) + float64(a[3])*float64(b[3])
}

// QuatNormalize scales q to unit length. A zero quaternion normalizes to the identity.
func QuatNormalize(q [4]float32) [4]float32 {
	l := math.Sqrt(QuatDot(q, q))
	if l == 0 {
		return QuatIdentity()
	}
	return [4]float32{
		float32(float64(q[0]) / l),
		float32(float64(q[1]) / l),
		float32(float64(q[2]) / l),
		float32(float64(q[3]) / l),
	}
}

// QuatSlerp spherically interpolates from a to b along the shortest arc.
// Nearly parallel inputs fall back to a normalized linear interpolation.
//
// Parameters:
//   - a: the start rotation
//   - b: the end rotation
//   - t: the interpolation factor in [0, 1]
//
// Returns:
//   - [4]float32: the normalized interpolated rotation
func QuatSlerp(a, b [4]float32, t float64) [4]float32 {
	cosTheta := QuatDot(a, b)
	if cosTheta < 0 {
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
		cosTheta = -cosTheta
	}

	var wa, wb float64
	if cosTheta > slerpLinearThreshold {
		wa, wb = 1-t, t
	} else {
		theta := math.Acos(cosTheta)
		sinTheta := math.Sin(theta)
		wa = math.Sin((1-t)*theta) / sinTheta
		wb = math.Sin(t*theta) / sinTheta
	}

	return QuatNormalize([4]float32{
		float32(wa*float64(a[0]) + wb*float64(b[0])),
		float32(wa*float64(a[1]) + wb*float64(b[1])),
		float32(wa*float64(a[2]) + wb*float64(b[2])),
		float32(wa*float64(a[3]) + wb*float64(b[3])),
	})
}

// QuatAverage computes the weighted average of a set of rotations by summing their
// weighted components and normalizing the result. Every rotation is first flipped into
// the hemisphere of the first one so that q and -q do not cancel out.
// Weights are used as given; callers normalize them beforehand.
//
// Parameters:
//   - quats: the rotations to average
//   - weights: one weight per rotation
//
// Returns:
//   - [4]float32: the normalized average rotation, or the identity if quats is empty
func QuatAverage(quats [][4]float32, weights []float64) [4]float32 {
	if len(quats) == 0 {
		return QuatIdentity()
	}

	ref := quats[0]
	var sum [4]float64
	for i, q := range quats {
		w := weights[i]
		if QuatDot(ref, q) < 0 {
			w = -w
		}
		sum[0] += w * float64(q[0])
		sum[1] += w * float64(q[1])
		sum[2] += w * float64(q[2])
		sum[3] += w * float64(q[3])
	}

	return QuatNormalize([4]float32{float32(sum[0]), float32(sum[1]), float32(sum[2]), float32(sum[3])})
}

// Lerp3 linearly interpolates between two 3-component vectors.
func Lerp3(a, b [3]float32, t float64) [3]float32 {
	return [3]float32{
		float32(float64(a[0]) + (float64(b[0])-float64(a[0]))*t),
		float32(float64(a[1]) + (float64(b[1])-float64(a[1]))*t),
		float32(float64(a[2]) + (float64(b[2])-float64(a[2]))*t),
	}
}
