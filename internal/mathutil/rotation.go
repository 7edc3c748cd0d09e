package mathutil

import "math"

// EulerToQuaternion converts Euler XYZ (radians) to a quaternion.
// Matches MU Online's bmdAngleToQuaternion function.
func EulerToQuaternion(rx, ry, rz float32) Quaternion {
	sx, cx := math.Sincos(float64(rx) * 0.5)
	sy, cy := math.Sincos(float64(ry) * 0.5)
	sz, cz := math.Sincos(float64(rz) * 0.5)

	return Quaternion{
		X: float32(sx*cy*cz - cx*sy*sz),
		Y: float32(cx*sy*cz + sx*cy*sz),
		Z: float32(cx*cy*sz - sx*sy*cz),
		W: float32(cx*cy*cz + sx*sy*sz),
	}
}
