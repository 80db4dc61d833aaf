package retrograde

import (
	"fmt"
	"image/color"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

// J2000 is the Julian date of the J2000 epoch, the default start of a simulation.
const J2000 = 2451545.0

// BodyConfig is the scenario definition of a body. When Preset is set, the preset (cf.
// CelestialObjectFromString) is used and every field present in the configuration overrides
// it, zero values included. Absent fields are nil.
type BodyConfig struct {
	Preset  string   `mapstructure:"preset"`
	Name    string   `mapstructure:"name"`
	Mass    *float64 `mapstructure:"mass"`
	Radius  *float64 `mapstructure:"radius"`
	XAU     *float64 `mapstructure:"x_au"`
	YAU     *float64 `mapstructure:"y_au"`
	VX      *float64 `mapstructure:"vx"`
	VY      *float64 `mapstructure:"vy"`
	Color   string   `mapstructure:"color"`
	Central *bool    `mapstructure:"central"`
}

// Object returns the celestial object defined by this configuration.
func (c BodyConfig) Object() (CelestialObject, error) {
	var obj CelestialObject
	if c.Preset != "" {
		var err error
		if obj, err = CelestialObjectFromString(c.Preset); err != nil {
			return obj, &ConfigError{Field: "preset", Reason: err.Error()}
		}
	}
	if c.Name != "" {
		obj.Name = c.Name
	}
	override := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	override(&obj.Mass, c.Mass)
	override(&obj.Radius, c.Radius)
	override(&obj.R.X, c.XAU)
	override(&obj.R.Y, c.YAU)
	override(&obj.V.X, c.VX)
	override(&obj.V.Y, c.VY)
	if c.Central != nil {
		obj.Central = *c.Central
	}
	if c.Color != "" {
		col, err := colorful.Hex(c.Color)
		if err != nil {
			return obj, &ConfigError{Field: obj.Name + ".color", Reason: err.Error()}
		}
		r, g, b := col.RGB255()
		obj.Color = color.RGBA{r, g, b, 255}
	} else if obj.Color.A == 0 {
		obj.Color = color.RGBA{200, 200, 255, 255}
	}
	return obj, nil
}

// ExportSettings configures the outputs of a simulation.
type ExportSettings struct {
	GIF   string // animated GIF path
	Every int    // keep one GIF frame every so many ticks
	CSV   string // trail CSV path
	Cosmo bool   // write Cosmographia files in Dir
	Dir   string
}

// ServerSettings configures the network endpoints.
type ServerSettings struct {
	Listen  string // WebSocket frame stream
	Metrics string // Prometheus metrics
}

// Scenario is the full definition of a simulation.
type Scenario struct {
	Name         string
	Dt           float64 // seconds
	Epoch        time.Time
	FPS          float64
	Ticks        uint64 // zero means no limit
	TrailLimit   int    // number of trail points sent with each frame, zero means everything
	Reference    bool   // propagate every orbiting body with RK4 as well and report the drift
	Observer     string
	Target       string
	Viewport     Viewport
	CircleRadius float64 // pixels
	Bodies       []CelestialObject
	Export       ExportSettings
	Server       ServerSettings
}

// DefaultScenario returns the Sun, Earth and Mars scenario: one day per tick at 60 ticks per second.
func DefaultScenario() Scenario {
	return Scenario{
		Name:         "retrograde",
		Dt:           Day,
		Epoch:        julian.JDToTime(J2000),
		FPS:          60,
		Observer:     Earth.Name,
		Target:       Mars.Name,
		Viewport:     DefaultViewport(),
		CircleRadius: DefaultCircleRadius,
		Bodies:       []CelestialObject{Sun, Earth, Mars},
		Export:       ExportSettings{Every: 1, Dir: "."},
	}
}

// SetDefaults registers the default scenario values on v.
func SetDefaults(v *viper.Viper) {
	def := DefaultScenario()
	v.SetDefault("simulation.name", def.Name)
	v.SetDefault("simulation.dt", def.Dt)
	v.SetDefault("simulation.fps", def.FPS)
	v.SetDefault("simulation.ticks", 0)
	v.SetDefault("simulation.trail_limit", 0)
	v.SetDefault("simulation.reference", false)
	v.SetDefault("simulation.observer", def.Observer)
	v.SetDefault("simulation.target", def.Target)
	v.SetDefault("viewport.width", DefaultWidth)
	v.SetDefault("viewport.height", DefaultHeight)
	v.SetDefault("viewport.scale_px_per_au", DefaultScale)
	v.SetDefault("circle.radius", def.CircleRadius)
	v.SetDefault("export.every", def.Export.Every)
	v.SetDefault("export.dir", def.Export.Dir)
}

// LoadScenario reads the scenario file at path (any format supported by viper, e.g. TOML).
func LoadScenario(path string) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return ScenarioFromViper(v)
}

// ScenarioFromViper builds and validates a scenario from a viper instance.
// Missing values are taken from DefaultScenario.
func ScenarioFromViper(v *viper.Viper) (Scenario, error) {
	SetDefaults(v)
	s := DefaultScenario()
	s.Name = v.GetString("simulation.name")
	s.Dt = v.GetFloat64("simulation.dt")
	if v.IsSet("simulation.epoch") {
		s.Epoch = confReadJDEorTime(v, "simulation.epoch")
	}
	s.FPS = v.GetFloat64("simulation.fps")
	s.Ticks = v.GetUint64("simulation.ticks")
	s.TrailLimit = v.GetInt("simulation.trail_limit")
	s.Reference = v.GetBool("simulation.reference")
	s.Observer = v.GetString("simulation.observer")
	s.Target = v.GetString("simulation.target")
	s.Viewport = NewViewport(v.GetInt("viewport.width"), v.GetInt("viewport.height"), v.GetFloat64("viewport.scale_px_per_au"))
	s.CircleRadius = v.GetFloat64("circle.radius")
	s.Export = ExportSettings{
		GIF:   v.GetString("export.gif"),
		Every: v.GetInt("export.every"),
		CSV:   v.GetString("export.csv"),
		Cosmo: v.GetBool("export.cosmo"),
		Dir:   v.GetString("export.dir"),
	}
	s.Server = ServerSettings{Listen: v.GetString("server.listen"), Metrics: v.GetString("server.metrics")}

	if v.IsSet("bodies") {
		var confs []BodyConfig
		if err := v.UnmarshalKey("bodies", &confs); err != nil {
			return s, &ConfigError{Field: "bodies", Reason: err.Error()}
		}
		s.Bodies = make([]CelestialObject, 0, len(confs))
		for _, conf := range confs {
			obj, err := conf.Object()
			if err != nil {
				return s, err
			}
			s.Bodies = append(s.Bodies, obj)
		}
	}
	return s, s.Validate()
}

// Validate checks the settings which are not checked when building the system.
func (s Scenario) Validate() error {
	if s.Dt <= 0 {
		return &ConfigError{Field: "simulation.dt", Reason: fmt.Sprintf("time step must be positive (got %g s)", s.Dt)}
	}
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return &ConfigError{Field: "viewport", Reason: fmt.Sprintf("invalid canvas %dx%d", s.Viewport.Width, s.Viewport.Height)}
	}
	if s.Viewport.Scale <= 0 {
		return &ConfigError{Field: "viewport.scale_px_per_au", Reason: "scale must be positive"}
	}
	if s.CircleRadius <= 0 {
		return &ConfigError{Field: "circle.radius", Reason: "radius must be positive"}
	}
	if s.Export.Every <= 0 {
		return &ConfigError{Field: "export.every", Reason: "must be at least 1"}
	}
	found := map[string]bool{}
	for _, obj := range s.Bodies {
		found[obj.Name] = true
	}
	for _, id := range []struct{ field, name string }{{"simulation.observer", s.Observer}, {"simulation.target", s.Target}} {
		if !found[id.name] {
			return &ConfigError{Field: id.field, Reason: fmt.Sprintf("unknown body '%s'", id.name)}
		}
	}
	if s.Observer == s.Target {
		return &ConfigError{Field: "simulation.target", Reason: fmt.Sprintf("'%s' is also the observer, the line of sight is undefined", s.Target)}
	}
	return nil
}

// System returns a new system with all the bodies of this scenario.
func (s Scenario) System() (*System, error) {
	sys, err := NewSystem(s.Dt, s.Epoch)
	if err != nil {
		return nil, err
	}
	for _, obj := range s.Bodies {
		b, err := obj.Body()
		if err != nil {
			return nil, err
		}
		if err := sys.Add(b); err != nil {
			return nil, err
		}
	}
	return sys, sys.Validate()
}

// confReadJDEorTime reads the key either as a Julian date or as a date.
func confReadJDEorTime(v *viper.Viper, key string) (dt time.Time) {
	jde := v.GetFloat64(key)
	if jde == 0 {
		dt = v.GetTime(key)
	} else {
		dt = julian.JDToTime(jde)
	}
	return dt.UTC()
}
