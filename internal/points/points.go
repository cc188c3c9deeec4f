// Package points holds the scatter-plot dataset and its mutators.
//
// Every point synthesized here gets a fresh UUID; a point's ID never changes
// once assigned, so the render engine keeps one shape per point for its
// whole life.
package points

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/google/uuid"
)

const (
	// Min and Max bound both axes of a synthesized point.
	Min = 0
	Max = 100

	// JitterStep is the largest move Jitter applies per axis.
	JitterStep = 5

	// DefaultColor is the fill of points created by Add.
	DefaultColor = "red"
)

// Point is one scatter datum.
type Point struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// Key is the identity used by the render engine.
func (p Point) Key() string { return p.ID }

type document struct {
	Points []Point `json:"points"`
}

// LoadJSON reads a points document from path.
func LoadJSON(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads {"points":[...]}. Points without an id are assigned one.
func Decode(r io.Reader) ([]Point, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode points: %w", err)
	}
	if doc.Points == nil {
		return nil, errors.New("decode points: missing \"points\" array")
	}
	for i := range doc.Points {
		if doc.Points[i].ID == "" {
			doc.Points[i].ID = uuid.NewString()
		}
	}
	return doc.Points, nil
}

// Encode writes ds as a points document.
func Encode(w io.Writer, ds []Point) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document{Points: ds})
}

// Add returns ds with one new random point appended.
func Add(ds []Point, rng *rand.Rand) []Point {
	out := make([]Point, len(ds), len(ds)+1)
	copy(out, ds)
	return append(out, Point{
		ID:    uuid.NewString(),
		X:     float64(Min + rng.IntN(Max-Min+1)),
		Y:     float64(Min + rng.IntN(Max-Min+1)),
		Color: DefaultColor,
	})
}

// RemoveLast returns ds without its last point. An empty ds is returned
// unchanged.
func RemoveLast(ds []Point) []Point {
	if len(ds) == 0 {
		return ds
	}
	out := make([]Point, len(ds)-1)
	copy(out, ds)
	return out
}

// Jitter returns a copy of ds with every point moved by a whole number in
// [-JitterStep, JitterStep] on each axis. IDs are kept.
func Jitter(ds []Point, rng *rand.Rand) []Point {
	out := make([]Point, len(ds))
	for i, p := range ds {
		p.X += float64(rng.IntN(2*JitterStep+1) - JitterStep)
		p.Y += float64(rng.IntN(2*JitterStep+1) - JitterStep)
		out[i] = p
	}
	return out
}
