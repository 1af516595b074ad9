// Package viewer implements the interactive terrain viewer: a ground model,
// an object that follows it, and an orbit camera.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/assets"
	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/input"
	"github.com/Faultbox/midgard-terrain/internal/engine/model"
	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/internal/engine/scene"
	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
	"github.com/Faultbox/midgard-terrain/internal/engine/window"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Viewer is the main viewer instance.
type Viewer struct {
	config  *config.Config
	running bool

	window      *window.Window
	renderer    *renderer.GLBackend
	input       *input.Input
	camera      *camera.OrbitCamera
	screenshots *debug.ScreenshotCapture

	assets   *assets.Manager
	scene    *scene.Scene
	ground   *model.ObjModel
	cube     *model.FlatShape
	follower *scene.Follower
}

// New opens the window and loads the configured terrain.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("terrain", cfg.Terrain.Model),
	)

	v := &Viewer{
		config:      cfg,
		input:       input.New(),
		camera:      camera.NewOrbitCamera(),
		screenshots: debug.NewScreenshotCapture(cfg.Graphics.Screenshot, "terrain"),
	}

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      statusTitle(cfg.Terrain.Model, 0, 0, false),
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		HighDPI:    cfg.Graphics.HighDPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Graphics.ClearColor,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	l := cfg.Graphics.LightDir
	v.renderer.SetLightDirection(math.Vec3{X: l[0], Y: l[1], Z: l[2]})

	if err := v.loadScene(); err != nil {
		v.Close()
		return nil, err
	}

	logger.Info("viewer initialized successfully")
	return v, nil
}

func (v *Viewer) loadScene() error {
	var err error
	v.assets, err = assets.FromConfig(v.config.Assets)
	if err != nil {
		return err
	}

	t := v.config.Terrain
	opts := model.DefaultOptions(t.Model, t.Texture)
	opts.SampleFactor = t.SampleFactor
	opts.MaxDenseCells = t.MaxDenseCells
	opts.SmoothNormals = t.SmoothNormals
	opts.ShowBounds = v.config.Graphics.ShowBounds

	v.ground, err = model.Load(v.assets, texture.NewLoader(v.assets, v.renderer), v.renderer, opts)
	if err != nil {
		return fmt.Errorf("loading terrain: %w", err)
	}

	sc := v.config.Scene
	v.cube, err = model.NewCube(v.renderer, sc.FollowerSize, [4]float32{0.9, 0.25, 0.2, 1})
	if err != nil {
		return fmt.Errorf("creating follower: %w", err)
	}

	v.scene = scene.New(scene.Config{
		StepRate:  sc.StepRate,
		Frequency: sc.SpringFreq,
		Damping:   sc.SpringDamping,
	})
	v.scene.SetGround(v.ground)
	v.follower = v.scene.Follow(v.cube, sc.FollowerOffset)
	v.follower.Tilt = true

	min, max := v.ground.Bounds()
	center := min.Add(max).Scale(0.5)
	v.cube.Transform().Position.X = center.X
	v.cube.Transform().Position.Z = center.Z
	v.camera.FitToBounds(min, max)
	return nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		// Calculate delta time
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		screenshot := v.handleEvents()

		// 2. Update scene
		v.update(dt)

		// 3. Render
		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if screenshot {
			v.capture()
		}

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("dt_ms", dt*1000),
				zap.Bool("on_ground", v.follower.OnGround),
			)
			v.window.SetTitle(statusTitle(v.config.Terrain.Model, frameCount,
				v.cube.Transform().Position.Y, v.follower.OnGround))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// handleEvents applies this frame's discrete events and reports whether a
// screenshot was requested.
func (v *Viewer) handleEvents() bool {
	screenshot := false
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.DrawableSize())
		case input.EventMouseMove:
			if v.input.IsButtonHeld(sdl.BUTTON_LEFT) {
				v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(float32(event.DeltaY))
		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_RIGHT {
				v.placeAt(event.MouseX, event.MouseY)
			}
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F11:
				if err := v.window.ToggleFullscreen(); err != nil {
					logger.Warn("fullscreen toggle failed", zap.Error(err))
				}
				v.renderer.Resize(v.window.DrawableSize())
			case sdl.SCANCODE_F12:
				screenshot = true
			case sdl.SCANCODE_R:
				v.camera.FitToBounds(v.ground.Bounds())
			case sdl.SCANCODE_B:
				v.ground.ShowBounds = !v.ground.ShowBounds
			}
		}
	}
	return screenshot
}

// update moves the follower and camera from held keys, then steps the scene.
func (v *Viewer) update(dt float64) {
	move := Controls{
		Forward: v.input.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S),
		Right:   v.input.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A),
	}
	move.Apply(v.cube.Transform(), v.camera, v.config.Scene.MoveSpeed*float32(dt))

	v.camera.HandleMovement(
		v.input.Axis(sdl.SCANCODE_UP, sdl.SCANCODE_DOWN),
		v.input.Axis(sdl.SCANCODE_RIGHT, sdl.SCANCODE_LEFT),
		v.input.Axis(sdl.SCANCODE_E, sdl.SCANCODE_Q),
	)

	v.scene.Update(dt)
}

// render draws the current frame.
func (v *Viewer) render() error {
	width, height := v.renderer.Size()
	v.renderer.SetCamera(v.camera.ViewMatrix(), v.camera.ProjectionMatrix(width, height))
	v.renderer.Begin()
	return v.scene.Draw(v.renderer)
}

func (v *Viewer) capture() {
	pixels, width, height := v.renderer.ReadPixels()
	path, err := v.screenshots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.cube != nil {
		v.cube.Close()
	}
	if v.ground != nil {
		v.ground.Close()
	}
	if v.assets != nil {
		v.assets.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
