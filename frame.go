package retrograde

import (
	"image/color"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/spatial/r2"
)

// BodyState is the snapshot of a body for a given tick.
type BodyState struct {
	Name    string     `json:"name"`
	R       r2.Vec     `json:"r"`      // meters
	V       r2.Vec     `json:"v"`      // m/s
	Screen  r2.Vec     `json:"screen"` // pixels
	Color   color.RGBA `json:"color"`
	Radius  float64    `json:"radius"`
	Central bool       `json:"central"`
	Trail   []r2.Vec   `json:"trail,omitempty"` // meters
}

// Frame is everything a renderer needs to draw a tick.
type Frame struct {
	Tick            uint64      `json:"tick"`
	DT              time.Time   `json:"dt"`
	JD              float64     `json:"jd"`
	Bodies          []BodyState `json:"bodies"`
	Viewport        Viewport    `json:"viewport"`
	Circle          Circle      `json:"circle"`
	Observer        string      `json:"observer"`
	Target          string      `json:"target"`
	Intersection    r2.Vec      `json:"intersection"` // pixels
	HasIntersection bool        `json:"hasIntersection"`
}

// Body returns the state of the body of that name.
func (f Frame) Body(name string) (BodyState, bool) {
	for _, b := range f.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyState{}, false
}

// Snapshot returns the frame of the current state of the system. It does not modify the system.
// The intersection is that of the line of sight from the observer to the target with the circle,
// both projected on screen. trailLimit bounds the number of trail points copied (zero for all).
func Snapshot(sys *System, vp Viewport, c Circle, observer, target string, trailLimit int) (Frame, error) {
	dt := sys.CurrentDT()
	f := Frame{Tick: sys.Ticks(), DT: dt, JD: julian.TimeToJD(dt), Viewport: vp, Circle: c, Observer: observer, Target: target}
	for _, b := range sys.Bodies() {
		f.Bodies = append(f.Bodies, BodyState{
			Name:    b.name,
			R:       b.R,
			V:       b.V,
			Screen:  vp.ToScreen(b.R),
			Color:   b.Color,
			Radius:  b.radius,
			Central: b.central,
			Trail:   b.TrailCopy(trailLimit),
		})
	}
	obs, ok := sys.Body(observer)
	if !ok {
		return f, &ConfigError{Field: "observer", Reason: "unknown body '" + observer + "'"}
	}
	tgt, ok := sys.Body(target)
	if !ok {
		return f, &ConfigError{Field: "target", Reason: "unknown body '" + target + "'"}
	}
	p, err := Intersect(c, vp.ToScreen(obs.R), vp.ToScreen(tgt.R))
	if err != nil {
		return f, err
	}
	f.Intersection = p
	f.HasIntersection = true
	return f, nil
}
