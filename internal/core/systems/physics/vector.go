package physics

import "math"

// Vector3 is an immutable spatial triple. Positions are in light-seconds and
// velocities are dimensionless fractions of c.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Zero is the origin / rest velocity.
var Zero = Vector3{}

func Vec3(x, y, z float64) Vector3 { return Vector3{X: x, Y: y, Z: z} }

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vector3) Neg() Vector3 { return Vector3{-v.X, -v.Y, -v.Z} }
func (v Vector3) Dot(o Vector3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3) Len2() float64 { return v.Dot(v) }
func (v Vector3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }
func (v Vector3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
func FromArray(a [3]float64) Vector3 { return Vector3{a[0], a[1], a[2]} }
func (v Vector3) Distance(o Vector3) float64 { return v.Sub(o).Len() }

// Len returns the Euclidean norm. It scales by the largest component so that
// coordinates near the float64 range do not overflow when squared.
func (v Vector3) Len() float64 {
	m := math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
	if m == 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		return m
	}
	x, y, z := v.X/m, v.Y/m, v.Z/m
	return m * math.Sqrt(x*x+y*y+z*z)
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// ApproxEqual compares component-wise with a mixed absolute/relative tolerance.
func (v Vector3) ApproxEqual(o Vector3, tol float64) bool {
	return approx(v.X, o.X, tol) && approx(v.Y, o.Y, tol) && approx(v.Z, o.Z, tol)
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func approx(a, b, tol float64) bool {
	d := math.Abs(a - b)
	if d <= tol {
		return true
	}
	return d <= tol*math.Max(math.Abs(a), math.Abs(b))
}
