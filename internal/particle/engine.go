package particle

import (
	"math"
	"math/rand/v2"
	"time"
)

// Ticker is advanced once per frame while subscribed to a FrameClock.
type Ticker interface {
	Tick()
}

// FrameClock delivers per-frame ticks to subscribed tickers.
type FrameClock interface {
	Subscribe(t Ticker)
	Unsubscribe(t Ticker)
}

// BoundsFunc returns the current surface size.
type BoundsFunc func() (width, height float64)

// Engine runs the particle simulation.
//
// The engine is driven by two flags: emitting, set by pointer activity,
// and active, which records whether the engine is subscribed to its frame
// clock. The engine subscribes when emission starts and unsubscribes from
// inside Tick once emission has stopped and every particle has expired.
//
// Engine is not safe for concurrent use.
type Engine struct {
	clock  FrameClock
	bounds BoundsFunc
	rng    *rand.Rand

	particles []Particle
	kind      Kind
	emitX     float64
	emitY     float64
	emitting  bool
	active    bool
	spawned   uint64
	ticks     uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the engine's random source.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand uses r as the engine's random source.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithBounds sets the surface size provider used for bottom removal.
func WithBounds(b BoundsFunc) Option {
	return func(e *Engine) {
		e.bounds = b
	}
}

// WithKind sets the initial particle kind.
func WithKind(k Kind) Option {
	return func(e *Engine) {
		e.kind = k
	}
}

// NewEngine creates an idle engine ticked by clock. A nil clock leaves the
// caller responsible for calling Tick while Active reports true.
func NewEngine(clock FrameClock, opts ...Option) *Engine {
	e := &Engine{clock: clock}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		WithSeed(uint64(time.Now().UnixNano()))(e)
	}
	return e
}

// SetEmitPosition moves the emission point.
func (e *Engine) SetEmitPosition(x, y float64) {
	e.emitX = x
	e.emitY = y
}

// EmitPosition returns the emission point.
func (e *Engine) EmitPosition() (x, y float64) {
	return e.emitX, e.emitY
}

// SetKind selects the kind of particles spawned from now on.
func (e *Engine) SetKind(k Kind) {
	e.kind = k
}

// Kind returns the selected particle kind.
func (e *Engine) Kind() Kind {
	return e.kind
}

// StartEmitting begins spawning and subscribes to the frame clock.
func (e *Engine) StartEmitting() {
	e.emitting = true
	e.subscribe()
}

// StopEmitting stops spawning. Particles in flight keep simulating.
func (e *Engine) StopEmitting() {
	e.emitting = false
}

// Emitting reports whether the engine is spawning.
func (e *Engine) Emitting() bool {
	return e.emitting
}

// Active reports whether the engine is subscribed to the frame clock.
func (e *Engine) Active() bool {
	return e.active
}

// Clear removes every particle. Emission is unaffected.
func (e *Engine) Clear() {
	clear(e.particles)
	e.particles = e.particles[:0]
}

// Count returns the number of live particles.
func (e *Engine) Count() int {
	return len(e.particles)
}

// Spawned returns the number of particles spawned since creation.
func (e *Engine) Spawned() uint64 {
	return e.spawned
}

// Ticks returns the number of simulated frames since creation.
func (e *Engine) Ticks() uint64 {
	return e.ticks
}

// Particles returns a copy of the live particles.
func (e *Engine) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}

// AppendParticles appends the live particles to dst and returns it.
func (e *Engine) AppendParticles(dst []Particle) []Particle {
	return append(dst, e.particles...)
}

// Tick advances the simulation by one frame.
func (e *Engine) Tick() {
	e.ticks++
	if e.emitting {
		for i := 0; i < SpawnPerTick; i++ {
			e.particles = append(e.particles, e.spawn())
		}
	}

	floor := math.Inf(1)
	if e.bounds != nil {
		_, h := e.bounds()
		floor = h + RemovalMargin
	}

	kept := e.particles[:0]
	for _, p := range e.particles {
		p.integrate()
		if p.Opacity <= 0 || p.Y > floor {
			continue
		}
		kept = append(kept, p)
	}
	clear(e.particles[len(kept):])
	e.particles = kept

	if !e.emitting && len(e.particles) == 0 {
		e.unsubscribe()
	}
}

func (p *Particle) integrate() {
	p.Life++
	p.Vy += Gravity
	p.Vx += (p.TargetVx - p.Vx) * DriftEasing
	sway := math.Sin(float64(p.Life)*p.SwaySpeed) * p.SwayAmount
	p.X += p.Vx + sway
	p.Y += p.Vy
	p.Rotation += p.RotationSpeed
	p.Opacity -= OpacityDecay
}

func (e *Engine) spawn() Particle {
	r := e.rng
	p := Particle{Kind: e.kind, Opacity: 1}

	p.PaletteIndex = r.IntN(len(PetalPalette))
	if e.kind == Star {
		p.Size = StarMinSize + r.Float64()*StarSizeRange
		p.Color = StarColor
	} else {
		p.Size = PetalMinSize + r.Float64()*PetalSizeRange
		p.Color = PetalPalette[p.PaletteIndex]
	}

	p.TargetVx = (r.Float64() - 0.5) * DriftRange
	p.Vx = p.TargetVx * BurstFactor
	p.Vy = -(r.Float64()*LiftRange + LiftMin)
	p.X = e.emitX - p.Size/2
	p.Y = e.emitY - p.Size/2
	p.Rotation = r.Float64() * 360
	p.RotationSpeed = (r.Float64() - 0.5) * RotationSpeedRange
	p.SwaySpeed = SwayMinSpeed + r.Float64()*SwaySpeedRange
	p.SwayAmount = r.Float64() * SwayMaxAmount

	e.spawned++
	return p
}

func (e *Engine) subscribe() {
	if e.active {
		return
	}
	e.active = true
	if e.clock != nil {
		e.clock.Subscribe(e)
	}
}

func (e *Engine) unsubscribe() {
	if !e.active {
		return
	}
	e.active = false
	if e.clock != nil {
		e.clock.Unsubscribe(e)
	}
}
