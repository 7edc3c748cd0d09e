package mathutil

import "fmt"

// Vector3 is a 3-component float32 vector (value type). Euler conversion
// returns one.
type Vector3 struct {
	X, Y, Z float32
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
