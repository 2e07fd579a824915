package trb

import "math"

// RotationMatrix converts a unit quaternion (x, y, z, w) into a row-major
// 4x4 homogeneous rotation matrix with no translation.
//
// The products are evaluated in float64, with fused multiply-add for the
// diagonal, and rounded to float32 at the end. The engine's own tool rounds
// differently, so a few components can differ from reference files in the
// last bit.
func RotationMatrix(q [4]float64) [16]float32 {
	x, y, z, w := q[0], q[1], q[2], q[3]

	// The explicit conversions stop the compiler from fusing the products
	// on FMA-capable targets, so every platform produces the same bits.
	sum := func(a, b float64) float64 { return float64(a) + float64(b) }
	diff := func(a, b float64) float64 { return float64(a) - float64(b) }
	diag := func(s float64) float64 { return math.FMA(s, -2, 1) }

	m := [16]float64{
		diag(sum(y*y, z*z)), 2 * sum(x*y, z*w), 2 * diff(x*z, y*w), 0,
		2 * diff(x*y, z*w), diag(sum(x*x, z*z)), 2 * sum(y*z, x*w), 0,
		2 * sum(x*z, y*w), 2 * diff(y*z, x*w), diag(sum(x*x, y*y)), 0,
		0, 0, 0, 1,
	}

	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
