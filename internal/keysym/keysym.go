// Package keysym names the X11/XKB keysym constants the default binding
// table references. No pure-Go library in the retrieval pack exposes these
// without pulling in cgo against libxkbcommon, so the small subset this
// client actually binds is hand-declared here from the standard
// keysymdef.h values (see DESIGN.md).
package keysym

const (
	Return = 0xff0d
	Tab     = 0xff09
	Space   = 0x0020
	Up      = 0xff52
	Down    = 0xff54

	Num1 = 0x0031
	Num2 = 0x0032
	Num3 = 0x0033
	Num4 = 0x0034
	Num5 = 0x0035
	Num6 = 0x0036
	Num7 = 0x0037
	Num8 = 0x0038
	Num9 = 0x0039

	Q = 0x0071
	D = 0x0064
	J = 0x006a
	K = 0x006b
	F = 0x0066
)

// Digit returns the keysym for the workspace digit n (1..9).
func Digit(n int) uint32 {
	return uint32(Num1 + n - 1)
}
