package mathutil

import (
	"errors"
	"fmt"
	"math"
)

// Rad2Deg is 180/π rounded to float32. Kept as a literal so Euler output
// matches existing consumers bit for bit.
const Rad2Deg float32 = 57.29578

// kEpsilon is the tolerance used by SameRotation.
const kEpsilon float32 = 0.000001

// Gimbal-lock detection bounds on X·Y + Z·W.
const (
	gimbalNorth = 0.499
	gimbalSouth = -0.499
)

// ErrOutOfRange is returned by Get and Set for an index outside 0..3.
var ErrOutOfRange = errors.New("mathutil: quaternion index out of range")

// Quaternion is a rotation (x,y,z) = sin(θ/2)·axis, w = cos(θ/2), stored as
// four float32 components in X, Y, Z, W order.
//
// Nothing here normalizes; callers keep it unit length when they need rotation
// semantics. The zero value is (0, 0, 0, 0), not the identity rotation.
//
// There are two equality relations on this type:
//
//   - ExactEqual (and Equals, and Go's ==) compare components with IEEE-754
//     equality. HashCode is consistent with this relation only.
//   - SameRotation compares the 4D dot product against 1-ε. It is not
//     transitive and not consistent with HashCode; never key a set or map on it.
type Quaternion struct {
	X, Y, Z, W float32
}

// NewQuaternion returns the quaternion (x, y, z, w).
func NewQuaternion(x, y, z, w float32) Quaternion {
	return Quaternion{X: x, Y: y, Z: z, W: w}
}

// QuaternionIdentity returns (0, 0, 0, 1).
func QuaternionIdentity() Quaternion {
	return Quaternion{W: 1}
}

// Get returns component i: 0→X, 1→Y, 2→Z, 3→W.
func (q Quaternion) Get(i int) (float32, error) {
	switch i {
	case 0:
		return q.X, nil
	case 1:
		return q.Y, nil
	case 2:
		return q.Z, nil
	case 3:
		return q.W, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
}

// Set stores v into component i. The quaternion is left untouched on error.
func (q *Quaternion) Set(i int, v float32) error {
	switch i {
	case 0:
		q.X = v
	case 1:
		q.Y = v
	case 2:
		q.Z = v
	case 3:
		q.W = v
	default:
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return nil
}

// HashCode combines the component hashes as
// h(X) ^ h(Y)<<2 ^ h(Z)>>2 ^ h(W)>>1 with arithmetic shifts.
// ExactEqual quaternions always hash the same.
func (q Quaternion) HashCode() int32 {
	return floatHash(q.X) ^ (floatHash(q.Y) << 2) ^ (floatHash(q.Z) >> 2) ^ (floatHash(q.W) >> 1)
}

// floatHash is the float32 bit pattern with both zeros folded to 0 and every
// NaN folded to the exponent mask.
func floatHash(f float32) int32 {
	bits := int32(math.Float32bits(f))
	if ((bits - 1) & 0x7FFFFFFF) >= 0x7F800000 {
		bits &= 0x7F800000
	}
	return bits
}

// ExactEqual reports whether all four components are == equal.
// NaN components never compare equal.
func (q Quaternion) ExactEqual(o Quaternion) bool {
	return q.X == o.X && q.Y == o.Y && q.Z == o.Z && q.W == o.W
}

// Equals is ExactEqual for a Quaternion or non-nil *Quaternion and false for
// any other value.
func (q Quaternion) Equals(v any) bool {
	switch o := v.(type) {
	case Quaternion:
		return q.ExactEqual(o)
	case *Quaternion:
		return o != nil && q.ExactEqual(*o)
	default:
		return false
	}
}

// Dot returns the 4D dot product of a and b.
func Dot(a, b Quaternion) float32 {
	return float32(a.X*b.X) + float32(a.Y*b.Y) + float32(a.Z*b.Z) + float32(a.W*b.W)
}

// SameRotation reports whether Dot(q, o) > 1-ε.
//
// Only the positive side is checked: q and -q encode the same rotation but
// compare false here.
// TODO: confirm with asset owners whether dot < -1+ε should also match.
func (q Quaternion) SameRotation(o Quaternion) bool {
	return Dot(q, o) > float32(1-kEpsilon)
}

// DifferentRotation is the negation of SameRotation.
func (q Quaternion) DifferentRotation(o Quaternion) bool {
	return !q.SameRotation(o)
}

// ToEuler converts a (near-)unit quaternion to Euler angles.
//
// The general branch returns degrees, each component shifted by +360 once if
// negative. The two gimbal-lock branches (X·Y + Z·W beyond ±0.499) return
// radians instead: (0, ±2·atan2(X, W), ±π/2). Consumers depend on this mix, so
// it stays.
func (q Quaternion) ToEuler() Vector3 {
	var r Vector3

	// Explicit float32 conversions keep each product rounded on its own.
	test := float32(q.X*q.Y) + float32(q.Z*q.W)
	switch {
	case float64(test) > gimbalNorth:
		r.X = 0
		r.Y = 2 * float32(math.Atan2(float64(q.X), float64(q.W)))
		r.Z = float32(math.Pi) / 2
	case float64(test) < gimbalSouth:
		r.X = 0
		r.Y = float32(-2 * math.Atan2(float64(q.X), float64(q.W)))
		r.Z = float32(-math.Pi / 2)
	default:
		rad2deg := float64(Rad2Deg)
		r.X = float32(rad2deg * math.Atan2(
			float64(float32(2*q.X*q.W)-float32(2*q.Y*q.Z)),
			float64(1-float32(2*q.X*q.X)-float32(2*q.Z*q.Z))))
		r.Y = float32(rad2deg * math.Atan2(
			float64(float32(2*q.Y*q.W)-float32(2*q.X*q.Z)),
			float64(1-float32(2*q.Y*q.Y)-float32(2*q.Z*q.Z))))
		r.Z = float32(rad2deg * math.Asin(
			float64(float32(2*q.X*q.Y)+float32(2*q.Z*q.W))))

		if r.X < 0 {
			r.X += 360
		}
		if r.Y < 0 {
			r.Y += 360
		}
		if r.Z < 0 {
			r.Z += 360
		}
	}
	return r
}

// IsGimbalLocked reports whether ToEuler takes one of the radian branches.
func (q Quaternion) IsGimbalLocked() bool {
	test := float64(float32(q.X*q.Y) + float32(q.Z*q.W))
	return test > gimbalNorth || test < gimbalSouth
}

func (q Quaternion) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", q.X, q.Y, q.Z, q.W)
}
