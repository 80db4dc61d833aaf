package ephemeris

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/wooyong8969/retrograde"
)

// Frame is the reference frame of Cartesian coordinates.
type Frame uint8

const (
	// Equatorial is the ICRF frame of the observer tables.
	Equatorial Frame = iota
	// Ecliptic is the J2000 ecliptic frame.
	Ecliptic
)

func (f Frame) String() string {
	if f == Ecliptic {
		return "ecliptic"
	}
	return "equatorial"
}

// Track is the named sequence of records of a target.
type Track struct {
	Name    string
	Records []Record
}

// Cartesian returns the positions in km of every record in the requested frame.
func (t Track) Cartesian(frame Frame) [][]float64 {
	pos := make([][]float64, len(t.Records))
	for i, rec := range t.Records {
		pos[i] = rec.Cartesian()
		if frame == Ecliptic {
			pos[i] = retrograde.Equatorial2Ecliptic(pos[i])
		}
	}
	return pos
}

// Bounds returns the minimum and maximum of each coordinate, e.g. to set the axes of a plot.
// Both are nil for an empty track.
func (t Track) Bounds(frame Frame) (lo, hi []float64) {
	pos := t.Cartesian(frame)
	if len(pos) == 0 {
		return nil, nil
	}
	lo = []float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = []float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pos {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	return
}

// Head returns the track limited to its first n records, which is what an animation shows at frame n.
func (t Track) Head(n int) Track {
	if n > len(t.Records) {
		n = len(t.Records)
	}
	if n < 0 {
		n = 0
	}
	return Track{Name: t.Name, Records: t.Records[:n]}
}

// CartesianHeader is the header written by WriteCartesianCSV.
var CartesianHeader = []string{"body", "jd", "date", "x", "y", "z"}

// WriteCartesianCSV writes the positions (km) of all the tracks, one after the other.
func WriteCartesianCSV(w io.Writer, frame Frame, tracks ...Track) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CartesianHeader); err != nil {
		return err
	}
	for _, t := range tracks {
		for i, p := range t.Cartesian(frame) {
			rec := t.Records[i]
			if err := cw.Write([]string{
				t.Name,
				strconv.FormatFloat(rec.JD, 'f', 6, 64),
				rec.DT.Format("2006-01-02 15:04:05"),
				strconv.FormatFloat(p[0], 'f', 3, 64),
				strconv.FormatFloat(p[1], 'f', 3, 64),
				strconv.FormatFloat(p[2], 'f', 3, 64),
			}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
