package retrograde

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gonum.org/v1/gonum/spatial/r2"
)

func scenarioFromTOML(t *testing.T, conf string) (Scenario, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(conf)); err != nil {
		t.Fatalf("invalid TOML: %s", err)
	}
	return ScenarioFromViper(v)
}

// sameTime returns whether both dates are within a millisecond.
func sameTime(a, b time.Time) bool {
	d := a.Sub(b)
	return d < time.Millisecond && d > -time.Millisecond
}

func TestScenarioDefaults(t *testing.T) {
	sc, err := scenarioFromTOML(t, "")
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultScenario()
	if sc.Dt != Day || sc.FPS != 60 || sc.Observer != "Earth" || sc.Target != "Mars" {
		t.Fatalf("invalid defaults: %+v", sc)
	}
	if sc.Viewport != def.Viewport || sc.CircleRadius != 380 {
		t.Fatalf("invalid viewport: %+v", sc.Viewport)
	}
	if len(sc.Bodies) != 3 || sc.Bodies[0].Name != "Sun" {
		t.Fatalf("invalid bodies: %+v", sc.Bodies)
	}
	if !sameTime(sc.Epoch, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("invalid epoch %s", sc.Epoch)
	}
}

func TestScenarioTOML(t *testing.T) {
	sc, err := scenarioFromTOML(t, `
[simulation]
name = "slow"
dt = 3600.0
epoch = 2458849.5
fps = 0
ticks = 24
observer = "Home"
target = "Mars"

[viewport]
width = 400
height = 300
scale_px_per_au = 100.0

[circle]
radius = 140.0

[export]
csv = "trail.csv"
every = 2

[[bodies]]
preset = "sun"

[[bodies]]
preset = "earth"
name = "Home"
color = "#00ff00"

[[bodies]]
preset = "mars"
x_au = 0.0
y_au = 1.52
vx = -24070.0
vy = 0.0
`)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "slow" || sc.Dt != 3600 || sc.FPS != 0 || sc.Ticks != 24 {
		t.Fatalf("invalid simulation: %+v", sc)
	}
	if !sameTime(sc.Epoch, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("invalid epoch %s", sc.Epoch)
	}
	if sc.Viewport.Width != 400 || sc.Viewport.Offset != (r2.Vec{X: 200, Y: 150}) || sc.CircleRadius != 140 {
		t.Fatalf("invalid viewport %+v", sc.Viewport)
	}
	if sc.Export.CSV != "trail.csv" || sc.Export.Every != 2 {
		t.Fatalf("invalid export %+v", sc.Export)
	}
	home := sc.Bodies[1]
	if home.Name != "Home" || home.Mass != Earth.Mass || home.Color != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("invalid override: %+v", home)
	}
	mars := sc.Bodies[2]
	if mars.R != (r2.Vec{Y: 1.52}) || mars.V != (r2.Vec{X: -24070}) || mars.Color != Mars.Color {
		t.Fatalf("invalid override: %+v", mars)
	}
	sys, err := sc.System()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sys.Body("Home"); !ok {
		t.Fatal("Home not in the system")
	}
}

func TestScenarioErrors(t *testing.T) {
	for _, tc := range []struct {
		conf, field string
	}{
		{"[simulation]\ndt = -1.0", "simulation.dt"},
		{"[simulation]\nobserver = \"Venus\"", "simulation.observer"},
		{"[simulation]\ntarget = \"earth\"", "simulation.target"},
		{"[circle]\nradius = 0.0", "circle.radius"},
		{"[viewport]\nscale_px_per_au = -2.0", "viewport.scale_px_per_au"},
		{"[export]\nevery = 0", "export.every"},
		{"[[bodies]]\npreset = \"pluto\"", "preset"},
		{"[simulation]\ntarget = \"Earth\"", "simulation.target"},
		{"[simulation]\nobserver = \"Mars\"", "simulation.target"},
		{"[[bodies]]\npreset = \"sun\"\ncolor = \"yellow\"", "Sun.color"},
	} {
		_, err := scenarioFromTOML(t, tc.conf)
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("%q: expected a ConfigError, got %v", tc.conf, err)
		}
		if cerr.Field != tc.field {
			t.Fatalf("%q: field %s != %s", tc.conf, cerr.Field, tc.field)
		}
	}
}

func TestScenarioSystemErrors(t *testing.T) {
	sc := DefaultScenario()
	sc.Bodies = []CelestialObject{Earth, Mars}
	if _, err := sc.System(); err == nil {
		t.Fatal("no central body")
	}
	sc.Bodies = []CelestialObject{Sun, Earth, Earth}
	if _, err := sc.System(); err == nil {
		t.Fatal("duplicate body")
	}
	massless := Mars
	massless.Mass = 0
	sc.Bodies = []CelestialObject{Sun, Earth, massless}
	if _, err := sc.System(); err == nil {
		t.Fatal("massless body")
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	if err := os.WriteFile(path, []byte("[simulation]\nticks = 10\nepoch = 2000-01-02T00:00:00Z\n"), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Ticks != 10 || !sameTime(sc.Epoch, time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("invalid scenario %+v", sc)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("missing file")
	}
}

func TestBodyConfigZeroOverrides(t *testing.T) {
	sc, err := scenarioFromTOML(t, `
[simulation]
observer = "Earth"
target = "Mars"

[[bodies]]
preset = "sun"

[[bodies]]
preset = "earth"
vx = 0
vy = 0.0
x_au = -2.0

[[bodies]]
preset = "mars"
y_au = 0.5
`)
	if err != nil {
		t.Fatal(err)
	}
	earth := sc.Bodies[1]
	if earth.V != (r2.Vec{}) {
		t.Fatalf("zero velocity ignored: %+v", earth.V)
	}
	if earth.R != (r2.Vec{X: -2}) {
		t.Fatalf("invalid position %+v", earth.R)
	}
	// Only the provided coordinate changes.
	if mars := sc.Bodies[2]; mars.R != (r2.Vec{X: -1.5, Y: 0.5}) || mars.V != Mars.V {
		t.Fatalf("invalid Mars %+v", mars)
	}

	// Clearing the central flag of the Sun leaves the system without central body.
	sc, err = scenarioFromTOML(t, "[[bodies]]\npreset = \"sun\"\ncentral = false\n[[bodies]]\npreset = \"earth\"\n[[bodies]]\npreset = \"mars\"\n")
	if err != nil {
		t.Fatal(err)
	}
	if sc.Bodies[0].Central {
		t.Fatal("central flag not cleared")
	}
	if _, err := sc.System(); err == nil {
		t.Fatal("a system without central body should fail")
	}

	mass := 0.0
	if _, err := (BodyConfig{Preset: "earth", Mass: &mass}).Object(); err != nil {
		t.Fatal(err)
	}
	if obj, _ := (BodyConfig{Preset: "earth", Mass: &mass}).Object(); obj.Mass != 0 {
		t.Fatalf("mass not overridden: %g", obj.Mass)
	}
}

func TestScenarioObserverIsTarget(t *testing.T) {
	sc := DefaultScenario()
	sc.Target = sc.Observer
	var cerr *ConfigError
	if err := sc.Validate(); !errors.As(err, &cerr) || cerr.Field != "simulation.target" {
		t.Fatalf("expected a ConfigError on simulation.target, got %v", err)
	}
	if _, err := NewSimulation(sc, nil); err == nil {
		t.Fatal("simulation with the same observer and target")
	}
}
