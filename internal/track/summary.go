package track

import (
	"mu-bmd-pose/internal/bmd"
	"mu-bmd-pose/internal/mathutil"
)

// Hold is a run of consecutive keys [Start, End] that all encode the same
// rotation as the key before them.
type Hold struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of keys in the hold.
func (h Hold) Len() int { return h.End - h.Start + 1 }

// Holds returns maximal runs (length ≥ 2) of consecutive keys where each key
// is SameRotation with its predecessor. Sign-flipped neighbours (q, -q) break
// a run.
func Holds(qs []mathutil.Quaternion) []Hold {
	var holds []Hold
	start := 0
	for i := 1; i <= len(qs); i++ {
		if i < len(qs) && qs[i].SameRotation(qs[i-1]) {
			continue
		}
		if i-start >= 2 {
			holds = append(holds, Hold{Start: start, End: i - 1})
		}
		start = i
	}
	return holds
}

// KeyEuler is one key's rotation in display form.
type KeyEuler struct {
	Rotation mathutil.Quaternion `json:"rotation"`
	Euler    mathutil.Vector3    `json:"euler"`
	// Radians is set when the key hit a gimbal-lock branch and Euler holds
	// radians instead of degrees.
	Radians bool `json:"radians,omitempty"`
}

// Summary describes one bone's rotation track for one action.
type Summary struct {
	Bone        int        `json:"bone"`
	Name        string     `json:"name"`
	Parent      int        `json:"parent"`
	Keys        int        `json:"keys"`
	Distinct    int        `json:"distinct"`
	GimbalLocks int        `json:"gimbal_locks"`
	Holds       []Hold     `json:"holds,omitempty"`
	Euler       []KeyEuler `json:"euler,omitempty"`
}

// Static reports whether every key of the track has the same rotation.
func (s Summary) Static() bool { return s.Keys > 0 && s.Distinct == 1 }

// Summarize analyses bones[index] for action.
func Summarize(bones []bmd.Bone, index, action int) Summary {
	b := &bones[index]
	s := Summary{Bone: index, Name: b.Name, Parent: b.Parent}
	qs := b.Rotations(action)
	if len(qs) == 0 {
		return s
	}

	s.Keys = len(qs)
	s.Distinct = NewSetOf(qs).Len()
	s.Holds = Holds(qs)
	s.Euler = make([]KeyEuler, len(qs))
	for i, q := range qs {
		locked := q.IsGimbalLocked()
		if locked {
			s.GimbalLocks++
		}
		s.Euler[i] = KeyEuler{Rotation: q, Euler: q.ToEuler(), Radians: locked}
	}
	return s
}

// SummarizeAll analyses every non-dummy bone of m for action.
func SummarizeAll(m *bmd.Model, action int) []Summary {
	out := make([]Summary, 0, len(m.Bones))
	for i := range m.Bones {
		if m.Bones[i].IsDummy {
			continue
		}
		out = append(out, Summarize(m.Bones, i, action))
	}
	return out
}

// NewSetOf returns a Set holding qs.
func NewSetOf(qs []mathutil.Quaternion) *Set {
	s := NewSet()
	for _, q := range qs {
		s.Add(q)
	}
	return s
}
