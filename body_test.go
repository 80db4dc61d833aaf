package retrograde

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestNewBodyValidation(t *testing.T) {
	for _, tc := range []struct {
		name         string
		mass, radius float64
		field        string
	}{
		{"", 1, 1, "name"},
		{"rock", 0, 1, "rock.mass"},
		{"rock", -1, 1, "rock.mass"},
		{"rock", 1, 0, "rock.radius"},
		{"rock", 1, -3, "rock.radius"},
	} {
		_, err := NewBody(tc.name, tc.mass, tc.radius, r2.Vec{}, r2.Vec{}, false)
		var cerr *ConfigError
		if !errors.As(err, &cerr) {
			t.Fatalf("expected a ConfigError for %+v, got %v", tc, err)
		}
		if cerr.Field != tc.field {
			t.Fatalf("expected field %s, got %s", tc.field, cerr.Field)
		}
	}
}

func TestNewBodyAU(t *testing.T) {
	b, err := NewBodyAU("Mars", Mars.Mass, Mars.Radius, r2.Vec{X: -1.5}, r2.Vec{Y: 24.07e3}, false)
	if err != nil {
		t.Fatal(err)
	}
	if b.R != (r2.Vec{X: -1.5 * AU}) {
		t.Fatalf("R=%+v", b.R)
	}
	if b.Name() != "Mars" || b.Mass() != Mars.Mass || b.Radius() != Mars.Radius || b.Central() {
		t.Fatalf("invalid body %s", b)
	}
	// A central body never moves.
	sun, err := NewBodyAU("Sun", Sun.Mass, Sun.Radius, r2.Vec{}, r2.Vec{X: 10}, true)
	if err != nil {
		t.Fatal(err)
	}
	if sun.V != (r2.Vec{}) {
		t.Fatalf("central body has a velocity: %+v", sun.V)
	}
}

func TestTrailCopy(t *testing.T) {
	b := &Body{trail: []r2.Vec{{X: 1}, {X: 2}, {X: 3}}}
	for _, tc := range []struct {
		n    int
		want []r2.Vec
	}{
		{0, []r2.Vec{{X: 1}, {X: 2}, {X: 3}}},
		{-1, []r2.Vec{{X: 1}, {X: 2}, {X: 3}}},
		{2, []r2.Vec{{X: 2}, {X: 3}}},
		{10, []r2.Vec{{X: 1}, {X: 2}, {X: 3}}},
	} {
		got := b.TrailCopy(tc.n)
		if len(got) != len(tc.want) {
			t.Fatalf("n=%d: got %v", tc.n, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("n=%d: got %v", tc.n, got)
			}
		}
	}
	cpy := b.TrailCopy(0)
	cpy[0] = r2.Vec{X: 42}
	if b.trail[0].X != 1 {
		t.Fatal("TrailCopy shares the trail")
	}
}
