package retrograde

import (
	"fmt"
	"time"
)

// System holds the bodies of a simulation around a single fixed central body.
type System struct {
	Dt      float64 // time step in seconds
	Epoch   time.Time
	bodies  map[string]*Body
	order   []string
	central string
	ticks   uint64
	elapsed float64 // seconds
}

// NewSystem returns an empty system which advances by dt seconds per tick, starting at epoch.
func NewSystem(dt float64, epoch time.Time) (*System, error) {
	if dt <= 0 {
		return nil, &ConfigError{Field: "dt", Reason: fmt.Sprintf("time step must be positive (got %g s)", dt)}
	}
	// All ephemeris data is in UTC.
	return &System{Dt: dt, Epoch: epoch.UTC(), bodies: make(map[string]*Body)}, nil
}

// Add adds a body to the system. Bodies are advanced in the order they were added.
func (s *System) Add(b *Body) error {
	if _, dup := s.bodies[b.name]; dup {
		return &ConfigError{Field: b.name, Reason: "duplicate body"}
	}
	if b.central {
		if s.central != "" {
			return &ConfigError{Field: b.name, Reason: fmt.Sprintf("%s is already the central body", s.central)}
		}
		for _, name := range s.order {
			if s.bodies[name].R == b.R {
				return &ConfigError{Field: name, Reason: "body coincides with the central body"}
			}
		}
		s.central = b.name
	} else if c, ok := s.bodies[s.central]; ok && c.R == b.R {
		return &ConfigError{Field: b.name, Reason: "body coincides with the central body"}
	}
	s.bodies[b.name] = b
	s.order = append(s.order, b.name)
	return nil
}

// Validate returns an error if the system cannot be advanced.
func (s *System) Validate() error {
	if s.central == "" {
		return &ConfigError{Field: "bodies", Reason: "no central body"}
	}
	return nil
}

// Body returns the body of that name.
func (s *System) Body(name string) (*Body, bool) {
	b, ok := s.bodies[name]
	return b, ok
}

// Central returns the central body, or nil if none was added.
func (s *System) Central() *Body {
	return s.bodies[s.central]
}

// Bodies returns all the bodies in the order they were added.
func (s *System) Bodies() []*Body {
	bodies := make([]*Body, len(s.order))
	for i, name := range s.order {
		bodies[i] = s.bodies[name]
	}
	return bodies
}

// Ticks returns the number of ticks performed so far.
func (s *System) Ticks() uint64 {
	return s.ticks
}

// CurrentDT returns the simulated date.
func (s *System) CurrentDT() time.Time {
	return s.Epoch.Add(time.Duration(s.elapsed * float64(time.Second)))
}

// Advance advances every non central body by dt seconds against the central body.
// It panics if there is no central body (cf. Validate).
func (s *System) Advance(dt float64) {
	central := s.Central()
	if central == nil {
		panic("cannot advance a system without a central body")
	}
	for _, name := range s.order {
		if name == s.central {
			continue
		}
		s.bodies[name].Step(central, dt)
	}
	s.ticks++
	s.elapsed += dt
}

// Tick advances the system by its configured time step.
func (s *System) Tick() {
	s.Advance(s.Dt)
}
