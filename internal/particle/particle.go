// Package particle implements the magic-pen particle simulation.
//
// An Engine spawns petals or stars at a moving emission point, integrates
// them once per frame and removes them when they fade out or fall below
// the surface. The engine subscribes to a frame clock only while it is
// emitting or still has particles in flight.
package particle

import (
	"fmt"
	"image/color"
	"strings"
)

// Simulation tuning, in surface units per frame.
const (
	// SpawnPerTick is the number of particles spawned per frame while emitting.
	SpawnPerTick = 3
	// Gravity is added to the vertical velocity every frame.
	Gravity = 0.15
	// DriftEasing is the per-frame factor easing horizontal velocity toward its target.
	DriftEasing = 0.05
	// OpacityDecay is subtracted from opacity every frame.
	OpacityDecay = 0.012
	// RemovalMargin is how far below the surface a particle may fall before removal.
	RemovalMargin = 50.0
)

// Spawn ranges. Each random draw r is uniform in [0, 1).
const (
	// PetalMinSize and PetalSizeRange give petal sizes in [5, 13).
	PetalMinSize   = 5.0
	PetalSizeRange = 8.0
	// PetalAspect is the petal ellipse height relative to its width.
	PetalAspect = 1.5
	// StarMinSize and StarSizeRange give star sizes in [10, 20).
	StarMinSize   = 10.0
	StarSizeRange = 10.0

	// DriftRange scales the target horizontal drift: (r-0.5)*DriftRange.
	DriftRange = 4.0
	// BurstFactor multiplies the target drift into the initial horizontal velocity.
	BurstFactor = 2.0
	// LiftMin and LiftRange give the initial upward velocity: -(r*LiftRange+LiftMin).
	LiftMin   = 1.0
	LiftRange = 4.0

	// RotationSpeedRange scales rotation speed: (r-0.5)*RotationSpeedRange degrees per frame.
	RotationSpeedRange = 8.0
	// SwayMinSpeed and SwaySpeedRange give sway frequencies in [0.05, 0.15).
	SwayMinSpeed   = 0.05
	SwaySpeedRange = 0.1
	// SwayMaxAmount bounds the sway amplitude.
	SwayMaxAmount = 2.5
)

// PetalPalette holds the petal colours, picked uniformly per particle.
var PetalPalette = [...]color.RGBA{
	{255, 182, 193, 255},
	{255, 105, 180, 255},
	{255, 220, 220, 255},
	{255, 165, 0, 255},
	{255, 240, 150, 255},
}

// StarColor is the colour of every star.
var StarColor = color.RGBA{255, 215, 0, 255}

// Kind selects the particle shape.
type Kind int

const (
	// Petal is a rotated ellipse in a palette colour.
	Petal Kind = iota
	// Star is a rotated gold five-pointed star.
	Star
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Petal:
		return "petal"
	case Star:
		return "star"
	default:
		return "unknown"
	}
}

// ParseKind converts a name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "petal", "petals", "flower":
		return Petal, nil
	case "star", "stars":
		return Star, nil
	default:
		return Petal, fmt.Errorf("unknown particle kind: %q", s)
	}
}

// Particle is one simulated particle.
type Particle struct {
	Kind Kind
	// X and Y locate the top-left corner of the particle box.
	X, Y float64
	// Vx and Vy are the current velocity.
	Vx, Vy float64
	// TargetVx is the horizontal drift Vx eases toward.
	TargetVx float64
	// Size is the particle width.
	Size float64
	// Rotation and RotationSpeed are in degrees.
	Rotation      float64
	RotationSpeed float64
	SwaySpeed     float64
	SwayAmount    float64
	Opacity       float64
	// Life counts simulated frames.
	Life  int
	Color color.RGBA
	// PaletteIndex is the palette entry drawn at spawn time.
	PaletteIndex int
}

// Height returns the particle box height.
func (p Particle) Height() float64 {
	if p.Kind == Petal {
		return p.Size * PetalAspect
	}
	return p.Size
}
