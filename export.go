package retrograde

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	kitlog "github.com/go-kit/log"
)

// CgCatalog definition.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

func (c *CgCatalog) String() string {
	return c.Name + "(" + c.Version + ")"
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState is one record of a Cosmographia interpolated states file.
type CgInterpolatedState struct {
	JD       float64
	Position []float64 // km
	Velocity []float64 // km/s
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position[0], i.Position[1], i.Position[2], i.Velocity[0], i.Velocity[1], i.Velocity[2])
}

// TrailHeader is the header of the CSV written by TrailExporter.
var TrailHeader = []string{"tick", "jd", "body", "x", "y", "vx", "vy", "ix", "iy"}

// ExportConfig configures the exporting of the simulation.
type ExportConfig struct {
	CSV   io.Writer // trail records, may be nil
	Cosmo bool      // write one xyzv file per body and a catalog in Dir
	Dir   string
	Name  string // catalog name
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return c.CSV == nil && !c.Cosmo
}

type cosmoTrack struct {
	f          *os.File
	item       *CgItems
	start, end time.Time
}

// TrailExporter is a FrameSink which writes the state of every orbiting body at each tick.
type TrailExporter struct {
	conf   ExportConfig
	csv    *csv.Writer
	tracks map[string]*cosmoTrack
	order  []string
	center string
	logger kitlog.Logger
}

// NewTrailExporter returns a new exporter. Nothing is written until the first frame.
func NewTrailExporter(conf ExportConfig, logger kitlog.Logger) (*TrailExporter, error) {
	if conf.IsUseless() {
		return nil, errors.New("export configuration does not export anything")
	}
	if conf.Cosmo && conf.Dir == "" {
		conf.Dir = "."
	}
	if conf.Name == "" {
		conf.Name = "retrograde"
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	e := &TrailExporter{conf: conf, tracks: make(map[string]*cosmoTrack), logger: kitlog.With(logger, "subsys", "export")}
	if conf.CSV != nil {
		e.csv = csv.NewWriter(conf.CSV)
		if err := e.csv.Write(TrailHeader); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Consume writes the frame.
func (e *TrailExporter) Consume(f Frame) error {
	ix, iy := "", ""
	if f.HasIntersection {
		ix = strconv.FormatFloat(f.Intersection.X, 'f', 3, 64)
		iy = strconv.FormatFloat(f.Intersection.Y, 'f', 3, 64)
	}
	for _, b := range f.Bodies {
		if b.Central {
			e.center = b.Name
			continue
		}
		if e.csv != nil {
			record := []string{
				strconv.FormatUint(f.Tick, 10),
				strconv.FormatFloat(f.JD, 'f', 6, 64),
				b.Name,
				strconv.FormatFloat(b.R.X, 'e', 9, 64),
				strconv.FormatFloat(b.R.Y, 'e', 9, 64),
				strconv.FormatFloat(b.V.X, 'f', 6, 64),
				strconv.FormatFloat(b.V.Y, 'f', 6, 64),
				ix, iy,
			}
			if err := e.csv.Write(record); err != nil {
				return err
			}
		}
		if e.conf.Cosmo {
			if err := e.writeCosmo(f, b); err != nil {
				return err
			}
		}
	}
	if e.csv != nil {
		e.csv.Flush()
		return e.csv.Error()
	}
	return nil
}

// writeCosmo appends the state of b to its interpolated states file.
func (e *TrailExporter) writeCosmo(f Frame, b BodyState) error {
	track, ok := e.tracks[b.Name]
	if !ok {
		var err error
		if track, err = e.newTrack(f, b); err != nil {
			return err
		}
		e.tracks[b.Name] = track
		e.order = append(e.order, b.Name)
	}
	track.end = f.DT
	// Cosmographia expects km and km/s.
	asTxt := CgInterpolatedState{JD: f.JD, Position: []float64{b.R.X / 1e3, b.R.Y / 1e3, 0}, Velocity: []float64{b.V.X / 1e3, b.V.Y / 1e3, 0}}
	_, err := track.f.WriteString("\n" + asTxt.ToText())
	return err
}

// newTrack creates the interpolated states file of a body.
func (e *TrailExporter) newTrack(f Frame, b BodyState) (*cosmoTrack, error) {
	source := fmt.Sprintf("prop-%s.xyzv", b.Name)
	fh, err := os.Create(filepath.Join(e.conf.Dir, source))
	if err != nil {
		return nil, err
	}
	// Header
	if _, err := fmt.Fprintf(fh, `# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a TDB Julian date
#   Position in km
#   Velocity in km/sec
#   Simulation time start (UTC): %s`, time.Now().UTC(), f.DT.UTC()); err != nil {
		fh.Close()
		return nil, err
	}
	col := []float64{float64(b.Color.R) / 255, float64(b.Color.G) / 255, float64(b.Color.B) / 255}
	item := &CgItems{
		Class:           "spacecraft",
		Name:            b.Name,
		StartTime:       f.DT.UTC().String(),
		TrajectoryFrame: "EclipticJ2000",
		Trajectory:      &CgTrajectory{Type: "InterpolatedStates", Source: source},
		Label:           &CgLabel{Color: col, FadeSize: 1000000, ShowText: true},
		TrajectoryPlot:  &CgTrajectoryPlot{Color: col, LineWidth: 1, Lead: "0 d", SampleCount: 10},
	}
	e.logger.Log("level", "info", "body", b.Name, "file", fh.Name())
	return &cosmoTrack{f: fh, item: item, start: f.DT}, nil
}

// Close flushes the CSV, closes the interpolated states files and writes the catalog.
func (e *TrailExporter) Close() error {
	// Every file is closed even if one fails; the catalog is only written when all succeeded.
	var ferr error
	if e.csv != nil {
		e.csv.Flush()
		ferr = e.csv.Error()
	}
	if !e.conf.Cosmo {
		return ferr
	}
	for _, name := range e.order {
		track := e.tracks[name]
		_, err := fmt.Fprintf(track.f, "\n# Simulation time end (UTC): %s\n", track.end.UTC())
		if cerr := track.f.Close(); err == nil {
			err = cerr
		}
		if err != nil && ferr == nil {
			ferr = fmt.Errorf("%s: %w", track.f.Name(), err)
		}
	}
	if ferr != nil {
		return ferr
	}
	c := CgCatalog{Version: "1.0", Name: e.conf.Name}
	for _, name := range e.order {
		track := e.tracks[name]
		track.item.Center = e.center
		track.item.EndTime = track.end.UTC().String()
		track.item.TrajectoryPlot.Duration = fmt.Sprintf("%d d", int(track.end.Sub(track.start).Hours()/24+1))
		c.Items = append(c.Items, track.item)
	}
	marsh, err := json.Marshal(c)
	if err != nil {
		return err
	}
	catalog := filepath.Join(e.conf.Dir, fmt.Sprintf("catalog-%s.json", e.conf.Name))
	if err := os.WriteFile(catalog, marsh, 0644); err != nil {
		return err
	}
	e.logger.Log("level", "info", "catalog", catalog, "items", len(c.Items))
	return nil
}
