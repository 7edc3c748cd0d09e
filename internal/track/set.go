package track

import "mu-bmd-pose/internal/mathutil"

// Set holds quaternions under exact component equality, bucketed by
// Quaternion.HashCode. NaN-bearing values never match, so each one inserted
// is kept as a separate entry. The zero value is an empty set.
type Set struct {
	buckets map[int32][]mathutil.Quaternion
	n       int
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{buckets: make(map[int32][]mathutil.Quaternion)}
}

// Add inserts q and reports whether it was not already present.
func (s *Set) Add(q mathutil.Quaternion) bool {
	h := q.HashCode()
	for _, o := range s.buckets[h] {
		if o.ExactEqual(q) {
			return false
		}
	}
	if s.buckets == nil {
		s.buckets = make(map[int32][]mathutil.Quaternion)
	}
	s.buckets[h] = append(s.buckets[h], q)
	s.n++
	return true
}

// Contains reports whether an exactly equal quaternion was added.
func (s *Set) Contains(q mathutil.Quaternion) bool {
	for _, o := range s.buckets[q.HashCode()] {
		if o.ExactEqual(q) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct entries.
func (s *Set) Len() int { return s.n }

// Distinct returns qs with exact duplicates removed, first occurrence kept.
func Distinct(qs []mathutil.Quaternion) []mathutil.Quaternion {
	s := NewSet()
	out := make([]mathutil.Quaternion, 0, len(qs))
	for _, q := range qs {
		if s.Add(q) {
			out = append(out, q)
		}
	}
	return out
}
