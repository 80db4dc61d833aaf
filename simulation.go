package retrograde

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	kitlog "github.com/go-kit/log"
	"gonum.org/v1/gonum/spatial/r2"
	"golang.org/x/time/rate"
)

// FrameSink consumes the frames of a simulation, e.g. a renderer or an exporter.
type FrameSink interface {
	Consume(f Frame) error
	Close() error
}

// NewLogger returns a logfmt logger writing to w (stdout if nil).
func NewLogger(w io.Writer) kitlog.Logger {
	if w == nil {
		w = os.Stdout
	}
	return kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
}

// Simulation sequences the ticks of a system: advance, snapshot and hand the frame to the sinks.
type Simulation struct {
	System     *System
	Viewport   Viewport
	Circle     Circle
	Observer   string
	Target     string
	FPS        float64 // ticks per second, zero or less to run as fast as possible
	MaxTicks   uint64  // zero for no limit
	TrailLimit int
	Metrics    *Metrics // may be nil
	sinks      []FrameSink
	references map[string]*ReferenceOrbit
	drift      map[string]float64 // meters, latest tick
	logger     kitlog.Logger
	stopChan   chan bool
}

// NewSimulation returns a new simulation of the provided scenario.
func NewSimulation(sc Scenario, logger kitlog.Logger, sinks ...FrameSink) (*Simulation, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sys, err := sc.System()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	s := &Simulation{
		System:     sys,
		Viewport:   sc.Viewport,
		Circle:     sc.Viewport.Circle(sc.CircleRadius),
		Observer:   sc.Observer,
		Target:     sc.Target,
		FPS:        sc.FPS,
		MaxTicks:   sc.Ticks,
		TrailLimit: sc.TrailLimit,
		sinks:      sinks,
		logger:     kitlog.With(logger, "subsys", "sim", "name", sc.Name),
		stopChan:   make(chan bool, 1),
	}
	if sc.Reference {
		s.EnableReference()
	}
	return s, nil
}

// EnableReference starts an RK4 reference propagation of every orbiting body from its current
// state. Each tick then advances the references too and records the drift of the Euler step.
func (s *Simulation) EnableReference() {
	central := s.System.Central()
	s.references = make(map[string]*ReferenceOrbit)
	s.drift = make(map[string]float64)
	for _, b := range s.System.Bodies() {
		if !b.central {
			s.references[b.name] = NewReferenceOrbit(b, central)
		}
	}
}

// Drift returns the latest distance, in meters, between each orbiting body and its reference.
// It is empty unless the reference is enabled.
func (s *Simulation) Drift() map[string]float64 {
	drift := make(map[string]float64, len(s.drift))
	for name, d := range s.drift {
		drift[name] = d
	}
	return drift
}

// AddSink adds a sink. It must not be called while the simulation runs.
func (s *Simulation) AddSink(sink FrameSink) {
	s.sinks = append(s.sinks, sink)
}

// Stop requests the simulation to stop. It is checked once per tick.
func (s *Simulation) Stop() {
	select {
	case s.stopChan <- true:
	default:
		// Already requested.
	}
}

// Frame returns the frame of the current state.
func (s *Simulation) Frame() (Frame, error) {
	return Snapshot(s.System, s.Viewport, s.Circle, s.Observer, s.Target, s.TrailLimit)
}

// Run runs the simulation until the maximum number of ticks is reached, Stop is called or
// the context is done. The sinks are closed before returning.
// Returns the number of ticks performed.
func (s *Simulation) Run(ctx context.Context) (ticks uint64, err error) {
	var limiter *rate.Limiter
	if s.FPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.FPS), 1)
	}
	s.logger.Log("level", "info", "status", "started", "dt", s.System.CurrentDT(), "step(s)", s.System.Dt, "fps", s.FPS, "max", s.MaxTicks)
	defer func() {
		for _, sink := range s.sinks {
			if cerr := sink.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing sink: %w", cerr)
			}
		}
		s.logger.Log("level", "notice", "status", "finished", "ticks", ticks, "dt", s.System.CurrentDT())
		for _, b := range s.System.Bodies() {
			if d, ok := s.drift[b.name]; ok {
				s.logger.Log("level", "info", "body", b.name, "drift(km)", d/1e3, "drift(AU)", d/AU)
			}
		}
	}()

	for s.MaxTicks == 0 || ticks < s.MaxTicks {
		select {
		case <-s.stopChan:
			s.logger.Log("level", "info", "status", "stopped")
			return ticks, nil
		case <-ctx.Done():
			return ticks, ctx.Err()
		default:
		}
		if limiter != nil {
			if werr := limiter.Wait(ctx); werr != nil {
				if ctx.Err() != nil {
					return ticks, ctx.Err()
				}
				return ticks, werr
			}
		}
		if err := s.step(); err != nil {
			return ticks, err
		}
		ticks++
	}
	return ticks, nil
}

// step performs one tick.
func (s *Simulation) step() error {
	start := time.Now()
	s.System.Tick()
	if err := s.advanceReferences(); err != nil {
		return err
	}
	f, err := s.Frame()
	switch {
	case err == nil:
	case errors.Is(err, ErrNoIntersection), errors.Is(err, ErrDegenerateLine):
		s.logger.Log("level", "warning", "tick", f.Tick, "dt", f.DT, "intersection", err)
	default:
		return err
	}
	if s.Metrics != nil {
		s.Metrics.RecordTick(time.Since(start), f.HasIntersection)
		central := s.System.Central()
		for _, b := range s.System.Bodies() {
			if !b.central {
				s.Metrics.RecordDistance(b.name, r2.Norm(r2.Sub(b.R, central.R)))
			}
			if d, ok := s.drift[b.name]; ok {
				s.Metrics.RecordDrift(b.name, d)
			}
		}
	}
	for _, sink := range s.sinks {
		if err := sink.Consume(f); err != nil {
			return fmt.Errorf("tick %d: %w", f.Tick, err)
		}
	}
	return nil
}

// advanceReferences moves every reference by one step and updates the drift.
func (s *Simulation) advanceReferences() error {
	for name, ref := range s.references {
		if err := ref.Advance(s.System.Dt, 1); err != nil {
			return err
		}
		b, _ := s.System.Body(name)
		s.drift[name] = r2.Norm(r2.Sub(b.R, ref.R))
	}
	return nil
}
