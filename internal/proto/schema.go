package proto

import "github.com/pinpox/river-pwm/internal/wire"

// Signature names one request or event and lists its argument kinds in
// wire order. Position in an InterfaceDesc's Requests/Events slice is the
// opcode.
type Signature struct {
	Name string
	Args []wire.Kind
}

// InterfaceDesc is the static description of a bound interface: its name,
// the version the client negotiates, and the ordered request/event
// schemas. This is the "Protocol Bindings" component of the design — a
// table, not per-message hand code.
type InterfaceDesc struct {
	Name     string
	Version  uint32
	Requests []Signature
	Events   []Signature
}

var interfaces = map[string]*InterfaceDesc{}

func register(d *InterfaceDesc) *InterfaceDesc {
	interfaces[d.Name] = d
	return d
}

// Describe returns the static schema for a named interface, or nil if the
// client does not bind it.
func Describe(name string) *InterfaceDesc {
	return interfaces[name]
}

var (
	kU  = wire.KindUint
	kI  = wire.KindInt
	kO  = wire.KindObject
	kN  = wire.KindNewID
	kF  = wire.KindFixed
	kS  = wire.KindString
	kA  = wire.KindArray
	kFD = wire.KindFD
)

var displayDesc = register(&InterfaceDesc{
	Name:    "wl_display",
	Version: 1,
	Requests: []Signature{
		{"sync", []wire.Kind{kN}},
		{"get_registry", []wire.Kind{kN}},
	},
	Events: []Signature{
		{"error", []wire.Kind{kO, kU, kS}},
		{"delete_id", []wire.Kind{kU}},
	},
})

var registryDesc = register(&InterfaceDesc{
	Name:    "wl_registry",
	Version: 1,
	Requests: []Signature{
		{"bind", []wire.Kind{kU, kS, kU, kN}},
	},
	Events: []Signature{
		{"global", []wire.Kind{kU, kS, kU}},
		{"global_remove", []wire.Kind{kU}},
	},
})

var callbackDesc = register(&InterfaceDesc{
	Name:    "wl_callback",
	Version: 1,
	Events: []Signature{
		{"done", []wire.Kind{kU}},
	},
})

var compositorDesc = register(&InterfaceDesc{
	Name:    "wl_compositor",
	Version: 5,
	Requests: []Signature{
		{"create_surface", []wire.Kind{kN}},
		{"create_region", []wire.Kind{kN}},
	},
})

var shmDesc = register(&InterfaceDesc{
	Name:    "wl_shm",
	Version: 1,
	Requests: []Signature{
		{"create_pool", []wire.Kind{kN, kFD, kI}},
	},
	Events: []Signature{
		{"format", []wire.Kind{kU}},
	},
})

var shmPoolDesc = register(&InterfaceDesc{
	Name:    "wl_shm_pool",
	Version: 1,
	Requests: []Signature{
		{"create_buffer", []wire.Kind{kN, kI, kI, kI, kI, kU}},
		{"destroy", nil},
		{"resize", []wire.Kind{kI}},
	},
})

var bufferDesc = register(&InterfaceDesc{
	Name:    "wl_buffer",
	Version: 1,
	Requests: []Signature{
		{"destroy", nil},
	},
	Events: []Signature{
		{"release", nil},
	},
})

var surfaceDesc = register(&InterfaceDesc{
	Name:    "wl_surface",
	Version: 5,
	Requests: []Signature{
		{"destroy", nil},
		{"attach", []wire.Kind{kO, kI, kI}},
		{"damage", []wire.Kind{kI, kI, kI, kI}},
		{"frame", []wire.Kind{kN}},
		{"commit", nil},
	},
	Events: []Signature{
		{"enter", []wire.Kind{kO}},
		{"leave", []wire.Kind{kO}},
	},
})

var outputDesc = register(&InterfaceDesc{
	Name:    "wl_output",
	Version: 4,
	Events: []Signature{
		{"geometry", []wire.Kind{kI, kI, kI, kI, kI, kS, kS, kI}},
		{"mode", []wire.Kind{kU, kI, kI, kI}},
		{"done", nil},
		{"scale", []wire.Kind{kI}},
		{"name", []wire.Kind{kS}},
	},
})

var seatDesc = register(&InterfaceDesc{
	Name:    "wl_seat",
	Version: 8,
	Requests: []Signature{
		{"get_pointer", []wire.Kind{kN}},
		{"get_keyboard", []wire.Kind{kN}},
	},
	Events: []Signature{
		{"capabilities", []wire.Kind{kU}},
		{"name", []wire.Kind{kS}},
	},
})

var keyboardDesc = register(&InterfaceDesc{
	Name:    "wl_keyboard",
	Version: 8,
	Events: []Signature{
		{"keymap", []wire.Kind{kU, kFD, kU}},
		{"enter", []wire.Kind{kU, kO, kA}},
		{"leave", []wire.Kind{kU, kO}},
		{"key", []wire.Kind{kU, kU, kU, kU}},
		{"modifiers", []wire.Kind{kU, kU, kU, kU, kU}},
	},
})

var pointerDesc = register(&InterfaceDesc{
	Name:    "wl_pointer",
	Version: 8,
	Events: []Signature{
		{"enter", []wire.Kind{kU, kO, kF, kF}},
		{"leave", []wire.Kind{kU, kO}},
		{"motion", []wire.Kind{kU, kF, kF}},
		{"button", []wire.Kind{kU, kU, kU, kU}},
		{"axis", []wire.Kind{kU, kU, kF}},
	},
})

// zriver_window_management_v1: the unstable layout and window state
// channel, named with River's conventional leading z for vendor
// extensions still subject to change. The global announces new windows;
// each window object carries its own title/app_id/state events and
// accepts the geometry commit request the layout engine's output feeds
// the commit phase.
var riverWindowManagerDesc = register(&InterfaceDesc{
	Name:    "zriver_window_management_v1",
	Version: 1,
	Requests: []Signature{
		{"destroy", nil},
	},
	Events: []Signature{
		{"window", []wire.Kind{kN}},
	},
})

var riverWindowDesc = register(&InterfaceDesc{
	Name:    "river_window_v1",
	Version: 1,
	Requests: []Signature{
		{"set_geometry", []wire.Kind{kI, kI, kI, kI, kU, kU}},
		{"set_fullscreen", []wire.Kind{kU}},
		{"close", nil},
		{"destroy", nil},
	},
	Events: []Signature{
		{"title", []wire.Kind{kS}},
		{"app_id", []wire.Kind{kS}},
		{"state", []wire.Kind{kU}},
		{"output_enter", []wire.Kind{kO}},
		{"closed", nil},
	},
})

// river_xkb_bindings_v1: keyboard shortcut registration keyed by
// (modifier mask, keysym) per seat.
var riverXkbBindingManagerDesc = register(&InterfaceDesc{
	Name:    "river_xkb_bindings_v1",
	Version: 1,
	Requests: []Signature{
		{"get_binding", []wire.Kind{kN, kO, kU, kU}},
		{"destroy", nil},
	},
})

var riverXkbBindingDesc = register(&InterfaceDesc{
	Name:    "river_xkb_binding_v1",
	Version: 1,
	Requests: []Signature{
		{"destroy", nil},
	},
	Events: []Signature{
		{"pressed", []wire.Kind{kU}},
		{"released", []wire.Kind{kU}},
	},
})

// river_layer_shell_v1: reserved surface regions, mirroring wlr-layer-shell
// closely enough to compute per-output usable area.
var riverLayerShellDesc = register(&InterfaceDesc{
	Name:    "river_layer_shell_v1",
	Version: 1,
	Requests: []Signature{
		{"get_layer_surface", []wire.Kind{kN, kO, kO, kU}},
		{"destroy", nil},
	},
})

var riverLayerSurfaceDesc = register(&InterfaceDesc{
	Name:    "river_layer_surface_v1",
	Version: 1,
	Requests: []Signature{
		{"set_size", []wire.Kind{kI, kI}},
		{"set_anchor", []wire.Kind{kU}},
		{"set_exclusive_zone", []wire.Kind{kI}},
		{"ack_configure", []wire.Kind{kU}},
		{"destroy", nil},
	},
	Events: []Signature{
		{"configure", []wire.Kind{kU, kI, kI}},
		{"closed", nil},
	},
})
