// Package input resolves named signals ("Left", "Quit", ...) from keyboard
// and gamepad state. Signals are polled once per tick.
package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/adventuretycoon/prefabs"
)

// Reader exposes raw device state.
type Reader interface {
	KeyPressed(k ebiten.Key) bool
	GamepadButtonPressed(b ebiten.StandardGamepadButton) bool
}

// EbitenReader reads devices through ebiten. Any connected gamepad with a
// standard layout counts.
type EbitenReader struct {
	ids []ebiten.GamepadID
}

func (r *EbitenReader) KeyPressed(k ebiten.Key) bool {
	return ebiten.IsKeyPressed(k)
}

func (r *EbitenReader) GamepadButtonPressed(b ebiten.StandardGamepadButton) bool {
	r.ids = ebiten.AppendGamepadIDs(r.ids[:0])
	for _, id := range r.ids {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		if ebiten.IsStandardGamepadButtonPressed(id, b) {
			return true
		}
	}
	return false
}

var gamepadButtons = map[string]ebiten.StandardGamepadButton{
	"right_bottom":       ebiten.StandardGamepadButtonRightBottom,
	"right_right":        ebiten.StandardGamepadButtonRightRight,
	"right_left":         ebiten.StandardGamepadButtonRightLeft,
	"right_top":          ebiten.StandardGamepadButtonRightTop,
	"front_top_left":     ebiten.StandardGamepadButtonFrontTopLeft,
	"front_top_right":    ebiten.StandardGamepadButtonFrontTopRight,
	"front_bottom_left":  ebiten.StandardGamepadButtonFrontBottomLeft,
	"front_bottom_right": ebiten.StandardGamepadButtonFrontBottomRight,
	"center_left":        ebiten.StandardGamepadButtonCenterLeft,
	"center_right":       ebiten.StandardGamepadButtonCenterRight,
	"left_stick":         ebiten.StandardGamepadButtonLeftStick,
	"right_stick":        ebiten.StandardGamepadButtonRightStick,
	"left_top":           ebiten.StandardGamepadButtonLeftTop,
	"left_bottom":        ebiten.StandardGamepadButtonLeftBottom,
	"left_left":          ebiten.StandardGamepadButtonLeftLeft,
	"left_right":         ebiten.StandardGamepadButtonLeftRight,
	"center_center":      ebiten.StandardGamepadButtonCenterCenter,
}

type binding struct {
	keys    []ebiten.Key
	buttons []ebiten.StandardGamepadButton
}

type signalState struct {
	active bool
	prev   bool
}

// Manager tracks bound signals across polls.
type Manager struct {
	bindings map[string]binding
	states   map[string]*signalState
}

func NewManager() *Manager {
	return &Manager{
		bindings: make(map[string]binding),
		states:   make(map[string]*signalState),
	}
}

// SetBindings replaces all bindings. On error the previous bindings stay.
// Signals that keep their name keep their state, so a held key does not
// fire a second activation after a reload.
func (m *Manager) SetBindings(specs map[string]prefabs.InputBindingSpec) error {
	next := make(map[string]binding, len(specs))
	for name, spec := range specs {
		b, err := parseBinding(spec)
		if err != nil {
			return fmt.Errorf("input: signal %q: %w", name, err)
		}
		next[name] = b
	}

	states := make(map[string]*signalState, len(next))
	for name := range next {
		if st, ok := m.states[name]; ok {
			states[name] = st
			continue
		}
		states[name] = &signalState{}
	}

	m.bindings = next
	m.states = states
	return nil
}

func parseBinding(spec prefabs.InputBindingSpec) (binding, error) {
	var b binding
	for _, name := range spec.Keys {
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(name)); err != nil {
			return binding{}, fmt.Errorf("unknown key %q", name)
		}
		b.keys = append(b.keys, k)
	}
	for _, name := range spec.GamepadButtons {
		btn, ok := gamepadButtons[strings.ToLower(name)]
		if !ok {
			return binding{}, fmt.Errorf("unknown gamepad button %q", name)
		}
		b.buttons = append(b.buttons, btn)
	}
	return b, nil
}

// Update polls r once and advances every signal.
func (m *Manager) Update(r Reader) {
	if m == nil || r == nil {
		return
	}
	for name, b := range m.bindings {
		st := m.states[name]
		st.prev = st.active
		st.active = b.pressed(r)
	}
}

func (b binding) pressed(r Reader) bool {
	for _, k := range b.keys {
		if r.KeyPressed(k) {
			return true
		}
	}
	for _, btn := range b.buttons {
		if r.GamepadButtonPressed(btn) {
			return true
		}
	}
	return false
}

// IsActive reports whether the signal is held this tick.
func (m *Manager) IsActive(name string) bool {
	st, ok := m.state(name)
	return ok && st.active
}

// HasBeenActivated reports a rising edge on the latest poll.
func (m *Manager) HasBeenActivated(name string) bool {
	st, ok := m.state(name)
	return ok && st.active && !st.prev
}

// HasBeenDeactivated reports a falling edge on the latest poll.
func (m *Manager) HasBeenDeactivated(name string) bool {
	st, ok := m.state(name)
	return ok && !st.active && st.prev
}

func (m *Manager) state(name string) (*signalState, bool) {
	if m == nil {
		return nil, false
	}
	st, ok := m.states[name]
	return st, ok
}

// Signals returns the bound signal names, sorted.
func (m *Manager) Signals() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.bindings))
	for name := range m.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
