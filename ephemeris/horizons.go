// Package ephemeris reads observer tables exported from JPL Horizons and converts them into
// Cartesian tracks which can be replayed next to a simulation.
package ephemeris

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/wooyong8969/retrograde"
)

// Column names of a Horizons observer table.
const (
	ColDate   = "Date__(UT)__HR:MN"
	ColRA     = "R.A._(ICRF)"
	ColDEC    = "DEC_(ICRF)"
	ColDelta  = "delta"
	ColDelDot = "deldot"
)

var (
	// ErrMissingColumn is returned when a required column is not in the header.
	ErrMissingColumn = errors.New("missing column")
	dateLayouts      = []string{
		"2006-Jan-02 15:04",
		"2006-Jan-02 15:04:05",
		"2006-Jan-02 15:04:05.000",
		"2006-01-02 15:04",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
)

// Record is one line of an observer table.
type Record struct {
	DT     time.Time
	JD     float64
	RA     float64 // right ascension in degrees
	DEC    float64 // declination in degrees
	Delta  float64 // range in km
	DelDot float64 // range rate in km/s
}

// Cartesian returns the position of the target in km, in the equatorial frame of the observer.
func (r Record) Cartesian() []float64 {
	return retrograde.Equatorial2Cartesian(r.Delta, r.RA, r.DEC)
}

// ParseDate parses a Horizons date in any of the supported layouts, as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "A.D. ")
	for _, layout := range dateLayouts {
		if dt, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return dt, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date '%s'", s)
}

// ReadHorizons reads an observer table in CSV. The first record must be the header; blank
// lines and the $$SOE/$$EOE markers are ignored. Extra columns are ignored.
func ReadHorizons(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var idx map[string]int
	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err // *csv.ParseError has the line number.
		}
		line, _ := reader.FieldPos(0)
		if isMarker(row) {
			continue
		}
		if idx == nil {
			if idx, err = header(row); err != nil {
				return nil, err
			}
			continue
		}
		rec, err := parseRecord(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if idx == nil {
		return nil, fmt.Errorf("no header: %w", ErrMissingColumn)
	}
	return records, nil
}

// ReadHorizonsFile is ReadHorizons on the file at path.
func ReadHorizonsFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := ReadHorizons(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func isMarker(row []string) bool {
	first := strings.TrimSpace(row[0])
	if first == "$$SOE" || first == "$$EOE" {
		return true
	}
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func header(row []string) (map[string]int, error) {
	idx := make(map[string]int, len(row))
	for i, col := range row {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range []string{ColDate, ColRA, ColDEC, ColDelta} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w '%s'", ErrMissingColumn, col)
		}
	}
	return idx, nil
}

func parseRecord(row []string, idx map[string]int) (rec Record, err error) {
	cell := func(col string) (string, error) {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return "", fmt.Errorf("%w '%s'", ErrMissingColumn, col)
		}
		return strings.TrimSpace(row[i]), nil
	}
	num := func(col string) (float64, error) {
		s, err := cell(col)
		if err != nil {
			return math.NaN(), err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("%s: %w", col, err)
		}
		return v, nil
	}
	date, err := cell(ColDate)
	if err != nil {
		return rec, err
	}
	if rec.DT, err = ParseDate(date); err != nil {
		return rec, err
	}
	rec.JD = julian.TimeToJD(rec.DT)
	if rec.RA, err = num(ColRA); err != nil {
		return rec, err
	}
	if rec.DEC, err = num(ColDEC); err != nil {
		return rec, err
	}
	if rec.Delta, err = num(ColDelta); err != nil {
		return rec, err
	}
	if _, ok := idx[ColDelDot]; ok {
		if rec.DelDot, err = num(ColDelDot); err != nil {
			return rec, err
		}
	}
	return rec, nil
}
