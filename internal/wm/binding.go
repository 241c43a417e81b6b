package wm

import (
	"github.com/pinpox/river-pwm/internal/config"
	"github.com/pinpox/river-pwm/internal/keysym"
)

// Action is one of the fixed tags a key or pointer binding dispatches to.
// Workspace switch/move actions carry their target in Binding.WorkspaceIndex
// rather than as a distinct tag per number.
type Action string

const (
	ActionSpawnTerminal      Action = "spawn-terminal"
	ActionSpawnLauncher      Action = "spawn-launcher"
	ActionCloseWindow        Action = "close-window"
	ActionQuit               Action = "quit"
	ActionFocusNext          Action = "focus-next"
	ActionFocusPrev          Action = "focus-prev"
	ActionSwapNext           Action = "swap-next"
	ActionSwapPrev           Action = "swap-prev"
	ActionPromoteMaster      Action = "promote-master"
	ActionCycleLayoutNext    Action = "cycle-layout-next"
	ActionCycleLayoutPrev    Action = "cycle-layout-prev"
	ActionToggleFullscreen   Action = "toggle-fullscreen"
	ActionSwitchWorkspace    Action = "switch-workspace"
	ActionMoveToWorkspace    Action = "move-window-to-workspace"

	// Pointer-only gestures: not key bindings; Seat.onPointerButton maps
	// them to the interactive move/resize operations.
	ActionPointerMove   Action = "pointer-move"
	ActionPointerResize Action = "pointer-resize"
)

// Binding is one (modifier, keysym) -> action mapping. WorkspaceIndex is
// only meaningful for ActionSwitchWorkspace/ActionMoveToWorkspace.
type Binding struct {
	Mods           config.Modifier
	Keysym         uint32
	Action         Action
	WorkspaceIndex int
}

// PointerBinding maps a (modifier, button) pair to a gesture start action.
type PointerBinding struct {
	Mods   config.Modifier
	Button uint32
	Action Action
}

// Mouse button codes as reported by wl_pointer.button (Linux input-event
// codes BTN_LEFT/BTN_RIGHT).
const (
	BtnLeft  uint32 = 0x110
	BtnRight uint32 = 0x111
)

// bindingKey identifies a binding independent of which seat it is
// registered on: at most one binding may occupy a given (mod mask, keysym)
// pair on any one seat.
type bindingKey struct {
	mods   config.Modifier
	keysym uint32
}

// BindingManager tracks the bindings registered per seat so they survive
// seat re-registration and can be enumerated for diagnostics.
type BindingManager struct {
	bySeat map[uint32]map[bindingKey]Binding
}

func newBindingManager() *BindingManager {
	return &BindingManager{bySeat: make(map[uint32]map[bindingKey]Binding)}
}

// Register adds or replaces the binding for (mods, key) on seatID.
func (bm *BindingManager) Register(seatID uint32, b Binding) {
	m, ok := bm.bySeat[seatID]
	if !ok {
		m = make(map[bindingKey]Binding)
		bm.bySeat[seatID] = m
	}
	m[bindingKey{b.Mods, b.Keysym}] = b
}

// Lookup finds the action bound to (mods, key) on seatID, if any.
func (bm *BindingManager) Lookup(seatID uint32, mods config.Modifier, key uint32) (Binding, bool) {
	m, ok := bm.bySeat[seatID]
	if !ok {
		return Binding{}, false
	}
	b, ok := m[bindingKey{mods, key}]
	return b, ok
}

// Forget drops every binding registered for seatID, e.g. on seat removal.
func (bm *BindingManager) Forget(seatID uint32) {
	delete(bm.bySeat, seatID)
}

// DefaultBindings returns the standard binding table for modifier mod,
// mirroring the original prototype's setup_default_bindings: window
// management, spawn, focus/swap/promote, layout cycling, fullscreen, and
// per-workspace switch/move for all nine workspaces.
func DefaultBindings(mod config.Modifier) []Binding {
	b := []Binding{
		{Mods: mod | config.ModShift, Keysym: keysym.Q, Action: ActionQuit},
		{Mods: mod, Keysym: keysym.Q, Action: ActionCloseWindow},
		{Mods: mod, Keysym: keysym.Return, Action: ActionSpawnTerminal},
		{Mods: mod, Keysym: keysym.D, Action: ActionSpawnLauncher},

		{Mods: mod, Keysym: keysym.J, Action: ActionFocusNext},
		{Mods: mod, Keysym: keysym.K, Action: ActionFocusPrev},
		{Mods: mod, Keysym: keysym.Down, Action: ActionFocusNext},
		{Mods: mod, Keysym: keysym.Up, Action: ActionFocusPrev},

		{Mods: mod | config.ModShift, Keysym: keysym.J, Action: ActionSwapNext},
		{Mods: mod | config.ModShift, Keysym: keysym.K, Action: ActionSwapPrev},

		{Mods: mod | config.ModShift, Keysym: keysym.Return, Action: ActionPromoteMaster},

		{Mods: mod, Keysym: keysym.Space, Action: ActionCycleLayoutNext},
		{Mods: mod | config.ModShift, Keysym: keysym.Space, Action: ActionCycleLayoutPrev},

		{Mods: mod, Keysym: keysym.F, Action: ActionToggleFullscreen},
	}

	for n := 1; n <= config.WorkspaceCount; n++ {
		key := keysym.Digit(n)
		b = append(b,
			Binding{Mods: mod, Keysym: key, Action: ActionSwitchWorkspace, WorkspaceIndex: n},
			Binding{Mods: mod | config.ModShift, Keysym: key, Action: ActionMoveToWorkspace, WorkspaceIndex: n},
		)
	}
	return b
}

// DefaultPointerBindings mirrors the original's pointer gesture bindings:
// Mod+LeftButton moves, Mod+RightButton resizes.
func DefaultPointerBindings(mod config.Modifier) []PointerBinding {
	return []PointerBinding{
		{Mods: mod, Button: BtnLeft, Action: ActionPointerMove},
		{Mods: mod, Button: BtnRight, Action: ActionPointerResize},
	}
}
