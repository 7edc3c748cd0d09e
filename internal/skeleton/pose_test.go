package skeleton

import (
	"math"
	"testing"

	"mu-bmd-pose/internal/bmd"
	"mu-bmd-pose/internal/mathutil"
)

func bone(parent int, pos mathutil.Vector3, rz float32) bmd.Bone {
	return bmd.Bone{
		Parent: parent,
		Tracks: map[int][]bmd.Key{0: {{
			Position: pos,
			Angles:   mathutil.Vector3{Z: rz},
			Rotation: mathutil.EulerToQuaternion(0, 0, rz),
		}}},
	}
}

func near(a, b mathutil.Vector3) bool {
	const eps = 1e-5
	return math.Abs(float64(a.X-b.X)) < eps &&
		math.Abs(float64(a.Y-b.Y)) < eps &&
		math.Abs(float64(a.Z-b.Z)) < eps
}

func TestPoseChain(t *testing.T) {
	bones := []bmd.Bone{
		bone(-1, mathutil.Vector3{X: 10}, math.Pi/2),
		{Parent: -1, IsDummy: true},
		bone(0, mathutil.Vector3{X: 1}, math.Pi/2),
	}
	pose := Pose(bones, 0, 0)
	if len(pose) != 3 {
		t.Fatalf("len(Pose)\nhave %d\nwant 3", len(pose))
	}

	if !pose[1].Rotation.ExactEqual(mathutil.QuaternionIdentity()) {
		t.Fatalf("dummy rotation\nhave %v\nwant identity", pose[1].Rotation)
	}

	// Two 90° turns about Z: 180° about Z.
	half := mathutil.NewQuaternion(0, 0, 1, 0)
	if !pose[2].Rotation.SameRotation(half) {
		t.Fatalf("child rotation\nhave %v\nwant %v", pose[2].Rotation, half)
	}
	if want := (mathutil.Vector3{X: 10, Y: 1}); !near(pose[2].Position, want) {
		t.Fatalf("child position\nhave %v\nwant %v", pose[2].Position, want)
	}
}

func TestPoseForwardParentIsRoot(t *testing.T) {
	bones := []bmd.Bone{
		bone(1, mathutil.Vector3{X: 3}, math.Pi/2),
		bone(-1, mathutil.Vector3{X: 5}, 0),
	}
	qs := WorldRotations(bones, 0, 0)
	if !qs[0].ExactEqual(bones[0].Tracks[0][0].Rotation) {
		t.Fatalf("bone with forward parent\nhave %v\nwant its local rotation %v", qs[0], bones[0].Tracks[0][0].Rotation)
	}
}

func TestPoseMissingKey(t *testing.T) {
	bones := []bmd.Bone{bone(-1, mathutil.Vector3{X: 1}, 1)}
	pose := Pose(bones, 3, 0)
	if !pose[0].Rotation.ExactEqual(mathutil.QuaternionIdentity()) || pose[0].Position != (mathutil.Vector3{}) {
		t.Fatalf("Pose at missing action\nhave %+v\nwant identity", pose[0])
	}
}
