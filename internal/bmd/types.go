package bmd

import "mu-bmd-pose/internal/mathutil"

// Model is the decoded content of one BMD file.
type Model struct {
	Name    string
	Version byte
	Meshes  []Mesh
	Actions []Action
	Bones   []Bone
}

// Mesh summarizes one sub-mesh. Geometry is skipped; only sizes are kept.
type Mesh struct {
	Vertices  int
	Normals   int
	TexCoords int
	Triangles int
	TexPath   string // texture reference from BMD (e.g. "sword04.jpg")
}

// Action is one animation clip header.
type Action struct {
	Keys          int
	LockPositions bool
	Positions     []mathutil.Vector3 // per key, only when LockPositions is set
}

// Key is one bone keyframe.
type Key struct {
	Position mathutil.Vector3
	Angles   mathutil.Vector3 // Euler XYZ radians as stored in the file
	Rotation mathutil.Quaternion
}

// Bone holds the hierarchy link and per-action key tracks for one bone.
// Tracks is keyed by action index and only holds actions that have keys.
type Bone struct {
	Name    string
	Parent  int
	IsDummy bool
	Tracks  map[int][]Key
}

// KeyAt returns the key for (action, frame), or false if there is none.
func (b *Bone) KeyAt(action, frame int) (Key, bool) {
	if b.IsDummy {
		return Key{}, false
	}
	track := b.Tracks[action]
	if frame < 0 || frame >= len(track) {
		return Key{}, false
	}
	return track[frame], true
}

// Rotations returns the key rotations of one action in frame order.
func (b *Bone) Rotations(action int) []mathutil.Quaternion {
	track := b.Tracks[action]
	if b.IsDummy || len(track) == 0 {
		return nil
	}
	qs := make([]mathutil.Quaternion, len(track))
	for i, k := range track {
		qs[i] = k.Rotation
	}
	return qs
}
