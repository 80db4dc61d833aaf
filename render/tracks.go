package render

import (
	"errors"
	"image/color"
	"math"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/wooyong8969/retrograde"
	"github.com/wooyong8969/retrograde/ephemeris"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	trackRadius    = 4.0
	observerRadius = 3.0
)

var (
	observerColor = color.RGBA{160, 160, 160, 255}
	trackColors   = []color.RGBA{retrograde.Mars.Color, retrograde.Earth.Color, retrograde.Sun.Color}
)

// trackXY returns the positions of the track projected on the x-y plane, in meters.
func trackXY(t ephemeris.Track, frame ephemeris.Frame) []r2.Vec {
	pos := t.Cartesian(frame)
	xy := make([]r2.Vec, len(pos))
	for i, p := range pos {
		xy[i] = r2.Vec{X: p[0] * 1e3, Y: p[1] * 1e3}
	}
	return xy
}

// TrackBounds returns the x-y bounds, in meters, of the tracks and of the observer at the origin.
func TrackBounds(frame ephemeris.Frame, tracks ...ephemeris.Track) (lo, hi r2.Vec) {
	for _, t := range tracks {
		tlo, thi := t.Bounds(frame)
		if tlo == nil {
			continue
		}
		lo.X = math.Min(lo.X, tlo[0]*1e3)
		lo.Y = math.Min(lo.Y, tlo[1]*1e3)
		hi.X = math.Max(hi.X, thi[0]*1e3)
		hi.Y = math.Max(hi.Y, thi[1]*1e3)
	}
	return
}

// FitViewport returns the viewport showing the box [lo; hi] (meters) centered on a canvas of the
// provided size, leaving margin pixels on every side.
func FitViewport(width, height int, lo, hi r2.Vec, margin float64) retrograde.Viewport {
	span := r2.Sub(hi, lo)
	scale := math.Inf(1)
	if span.X > 0 {
		scale = (float64(width) - 2*margin) / span.X
	}
	if span.Y > 0 {
		scale = math.Min(scale, (float64(height)-2*margin)/span.Y)
	}
	if math.IsInf(scale, 1) || scale <= 0 {
		return retrograde.NewViewport(width, height, retrograde.DefaultScale)
	}
	mid := r2.Scale(0.5, r2.Add(lo, hi))
	center := r2.Vec{X: float64(width) / 2, Y: float64(height) / 2}
	return retrograde.Viewport{Width: width, Height: height, Scale: scale, Offset: r2.Sub(center, r2.Scale(scale, mid))}
}

// TrackFrame returns the frame showing the first n records of each track as trails, next to
// the observer at the origin. The frame has no circle nor line of sight.
func TrackFrame(frame ephemeris.Frame, n int, vp retrograde.Viewport, tracks ...ephemeris.Track) retrograde.Frame {
	f := retrograde.Frame{Tick: uint64(n), Viewport: vp}
	f.Bodies = append(f.Bodies, retrograde.BodyState{
		Name:    "Observer",
		Screen:  vp.ToScreen(r2.Vec{}),
		Color:   observerColor,
		Radius:  observerRadius,
		Central: true,
	})
	for i, t := range tracks {
		head := t.Head(n)
		if len(head.Records) == 0 {
			continue
		}
		last := head.Records[len(head.Records)-1]
		if last.DT.After(f.DT) {
			f.DT = last.DT
			f.JD = last.JD
		}
		trail := trackXY(head, frame)
		r := trail[len(trail)-1]
		f.Bodies = append(f.Bodies, retrograde.BodyState{
			Name:   t.Name,
			R:      r,
			Screen: vp.ToScreen(r),
			Color:  trackColors[i%len(trackColors)],
			Radius: trackRadius,
			Trail:  trail,
		})
	}
	if f.JD == 0 && !f.DT.IsZero() {
		f.JD = julian.TimeToJD(f.DT)
	}
	return f
}

// AnimateTracks sends one frame per record of the longest track to the sink, each showing one
// more record than the previous, and closes the sink.
func AnimateTracks(sink retrograde.FrameSink, frame ephemeris.Frame, vp retrograde.Viewport, tracks ...ephemeris.Track) error {
	var records int
	for _, t := range tracks {
		if len(t.Records) > records {
			records = len(t.Records)
		}
	}
	if records == 0 {
		sink.Close()
		return errors.New("no record to animate")
	}
	for n := 1; n <= records; n++ {
		if err := sink.Consume(TrackFrame(frame, n, vp, tracks...)); err != nil {
			sink.Close()
			return err
		}
	}
	return sink.Close()
}
