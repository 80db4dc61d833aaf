package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wooyong8969/retrograde"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// Renderer draws a frame: orbit trails and bodies first, then the reference circle, the line
// of sight from the observer and the target projected on the circle.
type Renderer struct {
	TrailWidth float64
	Label      bool // print the date in the top left corner
}

// NewRenderer returns a renderer with two pixel wide trails and a date label.
func NewRenderer() *Renderer {
	return &Renderer{TrailWidth: 2, Label: true}
}

// Palette returns the palette of a frame: black, white and, for each body, its color
// followed by four shades blended towards the background.
func Palette(f retrograde.Frame) color.Palette {
	p := color.Palette{black, white}
	bg, _ := colorful.MakeColor(black)
	for _, b := range f.Bodies {
		c, ok := colorful.MakeColor(b.Color)
		if !ok {
			continue
		}
		p = append(p, b.Color)
		for i := 1; i <= 4; i++ {
			p = append(p, c.BlendLab(bg, float64(i)/5).Clamped())
		}
	}
	if len(p) > 256 {
		p = p[:256]
	}
	return p
}

// Render rasterizes a frame into a paletted image.
func (r *Renderer) Render(f retrograde.Frame) *image.Paletted {
	vp := f.Viewport
	c := newCanvas(vp.Width, vp.Height, black)
	for _, b := range f.Bodies {
		if len(b.Trail) > 2 {
			pts := make([]r2.Vec, len(b.Trail))
			for i, p := range b.Trail {
				pts[i] = vp.ToScreen(p)
			}
			c.polyline(pts, r.TrailWidth, b.Color)
		}
		c.disc(b.Screen, b.Radius, b.Color)
	}
	if f.Circle.Radius > 0 {
		c.ring(f.Circle.Center, f.Circle.Radius, 1, white)
	}
	if f.HasIntersection {
		obs, okObs := f.Body(f.Observer)
		tgt, okTgt := f.Body(f.Target)
		if okObs && okTgt {
			c.disc(f.Intersection, tgt.Radius, tgt.Color)
			c.line(obs.Screen, f.Intersection, 1, white)
		}
	}
	if r.Label {
		d := font.Drawer{
			Dst:  c.dst,
			Src:  image.NewUniform(white),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(10, 20),
		}
		d.DrawString(fmt.Sprintf("%s  JD %.1f  tick %d", f.DT.Format("2006-01-02"), f.JD, f.Tick))
	}
	dst := image.NewPaletted(c.dst.Bounds(), Palette(f))
	draw.Draw(dst, dst.Bounds(), c.dst, image.Point{}, draw.Src)
	return dst
}

// GIFSink is a retrograde.FrameSink which renders every n-th frame and encodes the animation
// when closed.
type GIFSink struct {
	Renderer  *Renderer
	Every     int     // keep one frame every so many
	FPS       float64 // playback rate
	MaxFrames int     // zero for no limit
	w         io.Writer
	closer    io.Closer
	count     int
	anim      gif.GIF
}

// NewGIFSink returns a sink writing the animation to w.
func NewGIFSink(w io.Writer, every int, fps float64) *GIFSink {
	if every < 1 {
		every = 1
	}
	return &GIFSink{Renderer: NewRenderer(), Every: every, FPS: fps, w: w}
}

// NewGIFFile returns a sink writing the animation to the file at path.
func NewGIFFile(path string, every int, fps float64) (*GIFSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s := NewGIFSink(f, every, fps)
	s.closer = f
	return s, nil
}

// Delay returns the delay between frames in hundredths of a second.
func (s *GIFSink) Delay() int {
	if s.FPS <= 0 {
		return 2
	}
	return int(math.Max(1, math.Round(100/s.FPS)))
}

// Frames returns the number of frames kept so far.
func (s *GIFSink) Frames() int {
	return len(s.anim.Image)
}

// Consume renders the frame if it must be kept.
func (s *GIFSink) Consume(f retrograde.Frame) error {
	s.count++
	if (s.count-1)%s.Every != 0 {
		return nil
	}
	if s.MaxFrames > 0 && len(s.anim.Image) >= s.MaxFrames {
		return nil
	}
	s.anim.Image = append(s.anim.Image, s.Renderer.Render(f))
	s.anim.Delay = append(s.anim.Delay, s.Delay())
	return nil
}

// Close encodes the animation.
func (s *GIFSink) Close() error {
	var err error
	if len(s.anim.Image) == 0 {
		err = errors.New("no frame to encode")
	} else {
		err = gif.EncodeAll(s.w, &s.anim)
	}
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
