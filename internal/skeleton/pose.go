package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"

	"mu-bmd-pose/internal/bmd"
	"mu-bmd-pose/internal/mathutil"
)

// Transform is a bone's world placement at one keyframe.
type Transform struct {
	Position mathutil.Vector3
	Rotation mathutil.Quaternion
}

// Pose computes world transforms for every bone at (action, frame).
// A bone chains to its parent only when the parent index is lower than its own;
// otherwise it is treated as a root. Dummy bones and bones without a key at
// (action, frame) get the identity transform locally.
func Pose(bones []bmd.Bone, action, frame int) []Transform {
	rots := make([]mgl32.Quat, len(bones))
	pos := make([]mgl32.Vec3, len(bones))

	for i, bone := range bones {
		localRot := mgl32.QuatIdent()
		var localPos mgl32.Vec3
		if k, ok := bone.KeyAt(action, frame); ok {
			localRot = toMgl(k.Rotation)
			localPos = mgl32.Vec3{k.Position.X, k.Position.Y, k.Position.Z}
		}

		// Chain with parent
		if !bone.IsDummy && bone.Parent >= 0 && bone.Parent < i {
			p := bone.Parent
			rots[i] = rots[p].Mul(localRot)
			pos[i] = pos[p].Add(rots[p].Rotate(localPos))
		} else {
			rots[i] = localRot
			pos[i] = localPos
		}
	}

	out := make([]Transform, len(bones))
	for i := range out {
		out[i] = Transform{
			Position: mathutil.Vector3{X: pos[i][0], Y: pos[i][1], Z: pos[i][2]},
			Rotation: fromMgl(rots[i]),
		}
	}
	return out
}

// WorldRotations returns only the rotation part of Pose.
func WorldRotations(bones []bmd.Bone, action, frame int) []mathutil.Quaternion {
	pose := Pose(bones, action, frame)
	qs := make([]mathutil.Quaternion, len(pose))
	for i, t := range pose {
		qs[i] = t.Rotation
	}
	return qs
}

func toMgl(q mathutil.Quaternion) mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

func fromMgl(q mgl32.Quat) mathutil.Quaternion {
	return mathutil.NewQuaternion(q.V[0], q.V[1], q.V[2], q.W)
}
