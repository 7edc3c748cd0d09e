package track

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"mu-bmd-pose/internal/bmd"
	"mu-bmd-pose/internal/mathutil"
)

func TestSet(t *testing.T) {
	negZero := float32(math.Copysign(0, -1))
	s := NewSet()
	if !s.Add(mathutil.NewQuaternion(0, 0, 0, 1)) {
		t.Fatal("Set.Add(first): want true")
	}
	if s.Add(mathutil.NewQuaternion(negZero, 0, negZero, 1)) {
		t.Fatal("Set.Add(-0 variant): want false, -0 == 0")
	}
	if !s.Add(mathutil.NewQuaternion(0, 0, 0, -1)) {
		t.Fatal("Set.Add(-identity): want true, sets use exact equality")
	}
	if !s.Contains(mathutil.NewQuaternion(0, 0, 0, -1)) {
		t.Fatal("Set.Contains(-identity): want true")
	}
	if s.Contains(mathutil.NewQuaternion(1, 0, 0, 0)) {
		t.Fatal("Set.Contains(x): want false")
	}

	nan := float32(math.NaN())
	s.Add(mathutil.NewQuaternion(nan, 0, 0, 0))
	s.Add(mathutil.NewQuaternion(nan, 0, 0, 0))
	if have := s.Len(); have != 4 {
		t.Fatalf("Set.Len\nhave %d\nwant 4", have)
	}
}

func TestSetZeroValue(t *testing.T) {
	var s Set
	if s.Contains(mathutil.QuaternionIdentity()) || s.Len() != 0 {
		t.Fatal("zero Set should be empty")
	}
	if !s.Add(mathutil.QuaternionIdentity()) || s.Add(mathutil.QuaternionIdentity()) {
		t.Fatal("zero Set: first Add should insert, second should not")
	}
	if s.Len() != 1 || !s.Contains(mathutil.QuaternionIdentity()) {
		t.Fatalf("zero Set after Add: Len = %d", s.Len())
	}
}

func TestDistinct(t *testing.T) {
	a := mathutil.NewQuaternion(1, 2, 3, 4)
	b := mathutil.NewQuaternion(4, 3, 2, 1)
	have := Distinct([]mathutil.Quaternion{a, b, a, a, b})
	want := []mathutil.Quaternion{a, b}
	if !reflect.DeepEqual(have, want) {
		t.Fatalf("Distinct\nhave %v\nwant %v", have, want)
	}
}

func TestHolds(t *testing.T) {
	id := mathutil.QuaternionIdentity()
	neg := mathutil.NewQuaternion(0, 0, 0, -1)
	turn := mathutil.EulerToQuaternion(0, 0, 1)
	tiny := mathutil.EulerToQuaternion(0.0001, 0, 0)

	tests := []struct {
		name string
		qs   []mathutil.Quaternion
		want []Hold
	}{
		{"empty", nil, nil},
		{"single", []mathutil.Quaternion{id}, nil},
		{"all", []mathutil.Quaternion{id, tiny, id}, []Hold{{0, 2}}},
		{"split", []mathutil.Quaternion{id, id, turn, turn, turn, id}, []Hold{{0, 1}, {2, 4}}},
		{"sign flip", []mathutil.Quaternion{id, neg, id}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if have := Holds(tt.qs); !reflect.DeepEqual(have, tt.want) {
				t.Fatalf("Holds\nhave %v\nwant %v", have, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	mk := func(angles ...mathutil.Vector3) []bmd.Key {
		keys := make([]bmd.Key, len(angles))
		for i, a := range angles {
			keys[i] = bmd.Key{Angles: a, Rotation: mathutil.EulerToQuaternion(a.X, a.Y, a.Z)}
		}
		return keys
	}
	m := &bmd.Model{Bones: []bmd.Bone{
		{Name: "Root", Parent: -1, Tracks: map[int][]bmd.Key{0: mk(mathutil.Vector3{}, mathutil.Vector3{})}},
		{Parent: -1, IsDummy: true},
		{Name: "Tip", Parent: 0, Tracks: map[int][]bmd.Key{0: mk(
			mathutil.Vector3{},
			mathutil.Vector3{Y: -math.Pi / 6},
		)}},
	}}
	// A key that lands on the north pole branch.
	m.Bones[2].Tracks[0] = append(m.Bones[2].Tracks[0], bmd.Key{Rotation: mathutil.NewQuaternion(0.5, 0.5, 0.5, 0.5)})

	all := SummarizeAll(m, 0)
	if len(all) != 2 {
		t.Fatalf("len(SummarizeAll)\nhave %d\nwant 2 (dummy skipped)", len(all))
	}

	root := all[0]
	if root.Keys != 2 || root.Distinct != 1 || !root.Static() {
		t.Fatalf("root summary\nhave %+v", root)
	}
	if !reflect.DeepEqual(root.Holds, []Hold{{0, 1}}) {
		t.Fatalf("root holds\nhave %v", root.Holds)
	}

	tip := all[1]
	if tip.Bone != 2 || tip.Name != "Tip" || tip.Parent != 0 {
		t.Fatalf("tip identity\nhave %+v", tip)
	}
	if tip.Keys != 3 || tip.Distinct != 3 || tip.Static() {
		t.Fatalf("tip summary\nhave %+v", tip)
	}
	if tip.GimbalLocks != 1 || !tip.Euler[2].Radians || tip.Euler[1].Radians {
		t.Fatalf("tip gimbal flags\nhave %+v", tip.Euler)
	}
	if y := tip.Euler[1].Euler.Y; math.Abs(float64(y)-330) > 1e-3 {
		t.Fatalf("tip key 1 Euler.Y\nhave %v\nwant 330", y)
	}

	if empty := Summarize(m.Bones, 0, 5); empty.Keys != 0 || empty.Euler != nil {
		t.Fatalf("Summarize(missing action)\nhave %+v", empty)
	}
}

func TestSummaryJSONNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	q := mathutil.NewQuaternion(nan, 0, 0, 1)
	s := Summary{Name: "Broken", Keys: 2, Euler: []KeyEuler{
		{Rotation: mathutil.QuaternionIdentity(), Euler: mathutil.Vector3{X: 270.5}},
		{Rotation: q, Euler: mathutil.Vector3{X: nan, Y: inf, Z: -inf}},
	}}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}

	var back struct {
		Euler []struct {
			Rotation map[string]any `json:"rotation"`
			Euler    map[string]any `json:"euler"`
		} `json:"euler"`
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("json.Unmarshal(%s): %v", data, err)
	}
	if len(back.Euler) != 2 {
		t.Fatalf("decoded %d keys, want 2: %s", len(back.Euler), data)
	}
	if got := back.Euler[0].Rotation["W"]; got != 1.0 {
		t.Errorf("key 0 rotation W = %v, want 1", got)
	}
	if got := back.Euler[0].Euler["X"]; got != 270.5 {
		t.Errorf("key 0 euler X = %v, want 270.5", got)
	}
	if got := back.Euler[1].Rotation["X"]; got != "NaN" {
		t.Errorf("key 1 rotation X = %v, want \"NaN\"", got)
	}
	e := back.Euler[1].Euler
	if e["X"] != "NaN" || e["Y"] != "+Inf" || e["Z"] != "-Inf" {
		t.Errorf("key 1 euler = %v, want NaN/+Inf/-Inf strings", e)
	}
}
