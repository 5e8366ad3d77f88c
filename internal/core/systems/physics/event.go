package physics

// Event is a point in spacetime. It carries no frame tag: callers must not
// mix events from different frames without an explicit boost.
type Event struct {
	T float64 `json:"t" yaml:"t"`
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func NewEvent(t float64, p Vector3) Event { return Event{T: t, X: p.X, Y: p.Y, Z: p.Z} }

// Spatial returns the (x, y, z) part of the event.
func (e Event) Spatial() Vector3 { return Vector3{X: e.X, Y: e.Y, Z: e.Z} }

// Translate shifts the spatial part, leaving time untouched.
func (e Event) Translate(d Vector3) Event { return NewEvent(e.T, e.Spatial().Add(d)) }

func (e Event) Array() [4]float64 { return [4]float64{e.T, e.X, e.Y, e.Z} }

func EventFromArray(a [4]float64) Event { return Event{T: a[0], X: a[1], Y: a[2], Z: a[3]} }

func (e Event) IsFinite() bool { return isFinite(e.T) && e.Spatial().IsFinite() }

func (e Event) ApproxEqual(o Event, tol float64) bool {
	return approx(e.T, o.T, tol) && e.Spatial().ApproxEqual(o.Spatial(), tol)
}
