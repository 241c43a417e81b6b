// Package config holds the plain data the manager core is parameterized
// by. Populating a Config from flags, a file, or anything else is an
// external collaborator's job, not this package's.
package config

// Modifier is a bitmask of the modifier keys a binding requires held.
type Modifier uint32

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Color is a packed 0xAARRGGBB value, matching the uint32 the
// window-management extension's set_geometry request expects.
type Color uint32

// WorkspaceCount is fixed by the data model: nine workspaces per output.
const WorkspaceCount = 9

// Config is the full set of knobs the manager core reads. cmd/riverwm
// populates one from command-line flags before calling Manager.Run.
type Config struct {
	TerminalCmd string
	LauncherCmd string

	OuterGap    int
	InnerGap    int
	BorderWidth int

	Modifier Modifier

	FocusedBorderColor Color
	BorderColor        Color
	UrgentBorderColor  Color

	TabHeight int
}

// Default returns the configuration a fresh install runs with absent any
// flags, mirroring the original prototype's out-of-the-box values.
func Default() Config {
	return Config{
		TerminalCmd: "foot",
		LauncherCmd: "bemenu-run",
		OuterGap:    8,
		InnerGap:    8,
		BorderWidth: 2,
		Modifier:    ModSuper,

		FocusedBorderColor: 0xFF4C7899,
		BorderColor:        0xFF333333,
		UrgentBorderColor:  0xFFCC3333,

		TabHeight: 24,
	}
}
