// Package scene holds the shapes of a frame and keeps followers standing on
// the ground shape.
package scene

import (
	"errors"

	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-terrain/internal/engine/model"
	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Config contains scene configuration options.
type Config struct {
	// StepRate is the fixed follower simulation rate in steps per second.
	StepRate int
	// Frequency and Damping tune the follower height spring.
	Frequency float64
	Damping   float64
}

// DefaultConfig returns a critically damped spring stepped at 60 Hz.
func DefaultConfig() Config {
	return Config{
		StepRate:  60,
		Frequency: 6.0,
		Damping:   1.0,
	}
}

// Follower keeps a shape resting on the scene's ground.
type Follower struct {
	Shape model.Shape
	// Offset is added to the ground height.
	Offset float32
	// Tilt aligns the shape's up axis with the ground normal.
	Tilt bool

	// Normal is the last queried world-space ground normal.
	Normal math.Vec3
	// OnGround is false while the shape is outside the ground's field.
	OnGround bool

	spring   harmonica.Spring
	y        float64
	velocity float64
	placed   bool
}

// Target returns the height the follower is moving toward.
func (f *Follower) Target(ground model.Shape) float32 {
	t := f.Shape.Transform()
	return ground.HeightAt(t.Position.X, t.Position.Z) + f.Offset
}

// Scene owns the shapes drawn each frame.
type Scene struct {
	config    Config
	ground    model.Shape
	shapes    []model.Shape
	followers []*Follower

	step        float64
	accumulator float64
}

// New creates an empty scene.
func New(cfg Config) *Scene {
	if cfg.StepRate <= 0 {
		cfg.StepRate = DefaultConfig().StepRate
	}
	return &Scene{
		config: cfg,
		step:   harmonica.FPS(cfg.StepRate),
	}
}

// SetGround sets the shape followers stand on. It is also drawn.
func (s *Scene) SetGround(ground model.Shape) {
	s.ground = ground
}

// Ground returns the ground shape, or nil.
func (s *Scene) Ground() model.Shape {
	return s.ground
}

// Add adds a shape to draw.
func (s *Scene) Add(shape model.Shape) {
	s.shapes = append(s.shapes, shape)
}

// Follow adds shape to the scene and keeps it on the ground.
func (s *Scene) Follow(shape model.Shape, offset float32) *Follower {
	f := &Follower{
		Shape:  shape,
		Offset: offset,
		spring: harmonica.NewSpring(s.step, s.config.Frequency, s.config.Damping),
	}
	s.Add(shape)
	s.followers = append(s.followers, f)
	return f
}

// Followers returns the scene's followers.
func (s *Scene) Followers() []*Follower {
	return s.followers
}

// Update advances followers by dt seconds in fixed steps. A follower's first
// step snaps it onto the ground.
func (s *Scene) Update(dt float64) {
	if s.ground == nil {
		return
	}
	s.accumulator += dt
	for s.accumulator >= s.step {
		s.accumulator -= s.step
		for _, f := range s.followers {
			s.stepFollower(f)
		}
	}
}

func (s *Scene) stepFollower(f *Follower) {
	t := f.Shape.Transform()
	f.Normal = s.ground.NormalAt(t.Position.X, t.Position.Z)
	f.OnGround = f.Normal != (math.Vec3{})
	target := float64(f.Target(s.ground))

	if !f.placed {
		f.y, f.velocity, f.placed = target, 0, true
	} else {
		f.y, f.velocity = f.spring.Update(f.y, f.velocity, target)
	}
	t.Position.Y = float32(f.y)

	if f.Tilt && f.OnGround {
		n := f.Normal.Normalize()
		t.Rotation.X = math32.Atan2(n.Z, math32.Hypot(n.X, n.Y))
		t.Rotation.Z = math32.Atan2(-n.X, n.Y)
	}
}

// Draw draws the ground and every shape.
func (s *Scene) Draw(b renderer.Backend) error {
	var errs []error
	if s.ground != nil {
		errs = append(errs, s.ground.Draw(b))
	}
	for _, shape := range s.shapes {
		errs = append(errs, shape.Draw(b))
	}
	return errors.Join(errs...)
}
