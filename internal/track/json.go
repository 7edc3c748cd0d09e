package track

import (
	"encoding/json"
	"math"
	"strconv"
)

// jsonFloat encodes NaN and ±Inf as the strings "NaN", "+Inf" and "-Inf",
// which encoding/json refuses to write as numbers.
type jsonFloat float32

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 32), nil
}

// MarshalJSON keeps keys with non-finite components encodable.
func (k KeyEuler) MarshalJSON() ([]byte, error) {
	type xyzw struct{ X, Y, Z, W jsonFloat }
	type xyz struct{ X, Y, Z jsonFloat }
	return json.Marshal(struct {
		Rotation xyzw `json:"rotation"`
		Euler    xyz  `json:"euler"`
		Radians  bool `json:"radians,omitempty"`
	}{
		Rotation: xyzw{jsonFloat(k.Rotation.X), jsonFloat(k.Rotation.Y), jsonFloat(k.Rotation.Z), jsonFloat(k.Rotation.W)},
		Euler:    xyz{jsonFloat(k.Euler.X), jsonFloat(k.Euler.Y), jsonFloat(k.Euler.Z)},
		Radians:  k.Radians,
	})
}
