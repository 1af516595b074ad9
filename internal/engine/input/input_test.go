package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func key(typ uint32, code sdl.Scancode) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: typ, Keysym: sdl.Keysym{Scancode: code}}
}

func TestHeldKeys(t *testing.T) {
	in := New()
	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_W))
	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_D))

	if !in.IsKeyPressed(sdl.SCANCODE_W) || !in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Error("W should be pressed and held")
	}
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != 1 {
		t.Errorf("Axis(W, S) = %v, want 1", got)
	}

	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_S))
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != 0 {
		t.Errorf("Axis(W, S) with both held = %v, want 0", got)
	}

	in.handle(key(sdl.KEYUP, sdl.SCANCODE_W))
	if in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Error("W still held after key up")
	}
	if got := in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S); got != -1 {
		t.Errorf("Axis(W, S) = %v, want -1", got)
	}
}

func TestRepeatIgnored(t *testing.T) {
	in := New()
	ev := key(sdl.KEYDOWN, sdl.SCANCODE_F12)
	ev.Repeat = 1
	in.handle(ev)
	if len(in.Events()) != 0 {
		t.Errorf("repeat produced events: %+v", in.Events())
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, Event{Type: EventQuit}, true},
		{"resize", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 640, Data2: 480},
			Event{Type: EventWindowResize, Width: 640, Height: 480}, true},
		{"window focus", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_GAINED}, Event{}, false},
		{"motion", &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20, XRel: -3, YRel: 4},
			Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, DeltaX: -3, DeltaY: 4}, true},
		{"button", &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 1, Y: 2},
			Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT, MouseX: 1, MouseY: 2}, true},
		{"wheel", &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: -1},
			Event{Type: EventMouseWheel, DeltaY: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.event)
			if ok != tt.ok || got != tt.want {
				t.Errorf("translate() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestQuitStopsHandling(t *testing.T) {
	in := New()
	if !in.handle(&sdl.QuitEvent{Type: sdl.QUIT}) {
		t.Error("handle(quit) = false")
	}
	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_RIGHT})
	if !in.IsButtonHeld(sdl.BUTTON_RIGHT) {
		t.Error("right button not held")
	}
}
