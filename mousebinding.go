package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const doubleClickWindow = 300 * time.Millisecond

// Mouse input names usable in the mousebindings config map.
var validMouseInputs = map[string]bool{
	"WheelUp":     true,
	"WheelDown":   true,
	"DoubleClick": true,
	"RightClick":  true,
	"MiddleClick": true,
}

// GetDefaultMousebindings returns the default viewer mouse bindings.
func GetDefaultMousebindings() map[string][]string {
	return map[string][]string{
		"previous_image": {"WheelUp"},
		"next_image":     {"WheelDown"},
		"cycle_zoom":     {"DoubleClick"},
		"close":          {"RightClick"},
	}
}

// DoubleClickTracker reports when two clicks land within the window.
type DoubleClickTracker struct {
	window time.Duration
	lastAt time.Time
	now    func() time.Time
}

func NewDoubleClickTracker(window time.Duration) *DoubleClickTracker {
	return &DoubleClickTracker{window: window, now: time.Now}
}

// Click records a press and reports whether it completed a double
// click. A completed double click consumes the history, so a third
// click starts a fresh sequence.
func (t *DoubleClickTracker) Click() bool {
	now := t.now()
	if !t.lastAt.IsZero() && now.Sub(t.lastAt) < t.window {
		t.lastAt = time.Time{}
		return true
	}
	t.lastAt = now
	return false
}

// MousebindingManager resolves configurable mouse bindings, dispatching
// matched actions through the shared executor the same way the
// keyboard path does. Drag-to-pan is not an action and stays with the
// frame loop.
type MousebindingManager struct {
	mousebindings map[string][]string
	doubleClick   *DoubleClickTracker
}

func NewMousebindingManager(mousebindings map[string][]string) *MousebindingManager {
	return &MousebindingManager{
		mousebindings: mousebindings,
		doubleClick:   NewDoubleClickTracker(doubleClickWindow),
	}
}

// frameInputs polls ebiten for this frame's mouse input names.
func (mm *MousebindingManager) frameInputs() []string {
	var inputs []string

	if _, wy := ebiten.Wheel(); wy > 0 {
		inputs = append(inputs, "WheelUp")
	} else if wy < 0 {
		inputs = append(inputs, "WheelDown")
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && mm.doubleClick.Click() {
		inputs = append(inputs, "DoubleClick")
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		inputs = append(inputs, "RightClick")
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		inputs = append(inputs, "MiddleClick")
	}
	return inputs
}

// ExecuteActions dispatches every action bound to one of this frame's
// mouse inputs. Returns true when any action ran.
func (mm *MousebindingManager) ExecuteActions(inputActions InputActions, inputState InputState) bool {
	return mm.dispatch(mm.frameInputs(), inputActions, inputState)
}

func (mm *MousebindingManager) dispatch(inputs []string, inputActions InputActions, inputState InputState) bool {
	if len(inputs) == 0 {
		return false
	}
	active := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		active[in] = true
	}

	executed := false
	for action, bindings := range mm.mousebindings {
		for _, b := range bindings {
			if !active[b] {
				continue
			}
			if globalActionExecutor.ExecuteAction(action, inputActions, inputState) {
				executed = true
			}
			break
		}
	}
	return executed
}
