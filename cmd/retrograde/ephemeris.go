package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wooyong8969/retrograde"
	"github.com/wooyong8969/retrograde/ephemeris"
	"github.com/wooyong8969/retrograde/render"
)

var (
	ephInputs   []string
	ephNames    []string
	ephOutput   string
	ephEcliptic bool
	ephGIF      string
	ephEvery    int
	ephFPS      float64
	ephSize     int
)

var ephemerisCmd = &cobra.Command{
	Use:     "ephemeris",
	Short:   "Convert Horizons observer tables (RA, DEC, delta) into Cartesian coordinates",
	Example: "  retrograde ephemeris --input DATA/mars_results.csv --input DATA/sun_earth_results.csv --output tracks.csv\n" +
		"  retrograde ephemeris --input DATA/mars_results.csv --gif mars.gif",
	RunE:    runEphemeris,
}

func init() {
	flags := ephemerisCmd.Flags()
	flags.StringSliceVar(&ephInputs, "input", nil, "Horizons CSV file (repeatable)")
	flags.StringSliceVar(&ephNames, "name", nil, "name of each track, defaults to the file name")
	flags.StringVar(&ephOutput, "output", "", "output CSV file, stdout if empty and no --gif")
	flags.BoolVar(&ephEcliptic, "ecliptic", false, "rotate into the J2000 ecliptic frame")
	flags.StringVar(&ephGIF, "gif", "", "replay the tracks, projected on the x-y plane, into this GIF file")
	flags.IntVar(&ephEvery, "every", 1, "keep one GIF frame every so many records")
	flags.Float64Var(&ephFPS, "fps", 10, "GIF frames per second")
	flags.IntVar(&ephSize, "size", 800, "width and height of the GIF in pixels")
	ephemerisCmd.MarkFlagRequired("input")
}

func runEphemeris(cmd *cobra.Command, args []string) error {
	logger := retrograde.NewLogger(os.Stderr)
	tracks := make([]ephemeris.Track, len(ephInputs))
	for i, path := range ephInputs {
		records, err := ephemeris.ReadHorizonsFile(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if i < len(ephNames) {
			name = ephNames[i]
		}
		tracks[i] = ephemeris.Track{Name: name, Records: records}
		if verbose {
			lo, hi := tracks[i].Bounds(frame())
			logger.Log("level", "debug", "subsys", "ephemeris", "track", name, "records", len(records), "min(km)", fmt.Sprint(lo), "max(km)", fmt.Sprint(hi))
		}
	}

	if ephGIF != "" {
		lo, hi := render.TrackBounds(frame(), tracks...)
		vp := render.FitViewport(ephSize, ephSize, lo, hi, 20)
		sink, err := render.NewGIFFile(ephGIF, ephEvery, ephFPS)
		if err != nil {
			return err
		}
		if err := render.AnimateTracks(sink, frame(), vp, tracks...); err != nil {
			return err
		}
		logger.Log("level", "info", "subsys", "render", "gif", ephGIF, "frames", sink.Frames())
		if ephOutput == "" {
			return nil
		}
	}

	var w io.Writer = os.Stdout
	if ephOutput != "" {
		f, err := os.Create(ephOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := ephemeris.WriteCartesianCSV(w, frame(), tracks...); err != nil {
		return err
	}
	logger.Log("level", "info", "subsys", "ephemeris", "tracks", len(tracks), "frame", frame())
	return nil
}

func frame() ephemeris.Frame {
	if ephEcliptic {
		return ephemeris.Ecliptic
	}
	return ephemeris.Equatorial
}
