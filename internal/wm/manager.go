// Package wm is the window manager core: the object graph (outputs,
// workspaces, windows, seats) built on top of internal/proto, the layout
// engine that turns that graph into geometry, and the run loop that drives
// both from a single internal/transport.Connection.
package wm

import (
	stderrors "errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pinpox/river-pwm/internal/config"
	"github.com/pinpox/river-pwm/internal/layout"
	"github.com/pinpox/river-pwm/internal/proto"
	"github.com/pinpox/river-pwm/internal/transport"
	"github.com/pinpox/river-pwm/internal/wire"
	"github.com/pinpox/river-pwm/internal/wmerr"
)

// pollInterval bounds how long a single RunOnce blocks, so the run loop can
// notice a delivered signal or a running=false request promptly.
const pollInterval = 100 * time.Millisecond

// defaultLayouts is the cyclable layout set a freshly created workspace
// starts with.
var defaultLayouts = []layout.Kind{
	layout.TileRight, layout.TileBottom, layout.Monocle,
	layout.Grid, layout.CenteredMaster, layout.Floating, layout.Tabbed,
}

// Manager owns the live connection to the compositor and the whole
// output/workspace/window/seat object graph built from it.
type Manager struct {
	cfg config.Config
	log *logrus.Logger

	conn *transport.Connection
	ctx  *proto.Context

	compositor *proto.Compositor
	shm        *proto.Shm
	winMgr     *proto.WindowManager
	xkbMgr     *proto.XkbBindingManager
	layerShell *proto.LayerShell

	outputs             []*Output
	outputsByID         map[uint32]*Output
	outputsByGlobalName map[uint32]*Output
	windows             map[uint32]*Window
	windowWS            map[*Window]*Workspace
	windowOutput        map[*Window]*Output

	seats     []*Seat
	seatsByID map[uint32]*Seat

	focusedOutput *Output

	bindings   *BindingManager
	operations *OperationManager

	running  bool
	exitCode int
}

// New builds an unconnected Manager; call Connect and Bootstrap before Run.
func New(cfg config.Config, log *logrus.Logger) *Manager {
	return &Manager{
		cfg:                 cfg,
		log:                 log,
		outputsByID:         make(map[uint32]*Output),
		outputsByGlobalName: make(map[uint32]*Output),
		windows:             make(map[uint32]*Window),
		windowWS:            make(map[*Window]*Workspace),
		windowOutput:        make(map[*Window]*Output),
		seatsByID:           make(map[uint32]*Seat),
		bindings:            newBindingManager(),
		operations:          newOperationManager(),
	}
}

// Connect dials the compositor socket named sockName (empty for the
// environment-driven default) and wires a fresh Context to it.
func (m *Manager) Connect(sockName string) error {
	conn, err := transport.Connect(sockName)
	if err != nil {
		return &wmerr.TransportError{Cause: err}
	}
	m.conn = conn
	m.ctx = proto.NewContext(conn)
	m.ctx.OnStateError = func(objectID uint32, opcode uint16) {
		m.log.WithFields(logrus.Fields{"object": objectID, "opcode": opcode}).
			Debug("event for an object no longer in the table, dropping")
	}
	m.ctx.OnGlobalRemove = m.onGlobalRemove
	return nil
}

// roundtrip blocks until every request sent before it has been processed by
// the compositor: a single-threaded wl_display.sync, polled via RunOnce
// rather than signaled off a separate reader goroutine.
func (m *Manager) roundtrip() error {
	done := false
	if _, err := m.ctx.Sync(func(uint32) { done = true }); err != nil {
		return &wmerr.TransportError{Cause: err}
	}
	for !done {
		ok, err := m.conn.RunOnce(m.ctx, -1)
		if err != nil {
			return m.classifyRunErr(err)
		}
		if !ok {
			return &wmerr.TransportError{Cause: stderrors.New("connection closed during roundtrip")}
		}
		if m.ctx.FatalErr != nil {
			return &wmerr.ServerError{Message: m.ctx.FatalErr.Error()}
		}
	}
	return nil
}

// Bootstrap performs the initial registry sync, binds every required
// global, and builds the output/seat object graph. It fails with
// wmerr.MissingGlobalError if a required global was never advertised.
func (m *Manager) Bootstrap() error {
	var outputNames []uint32
	onGlobal := func(name uint32, iface string, _ uint32) {
		if iface == "wl_output" {
			outputNames = append(outputNames, name)
		}
	}
	if err := m.ctx.GetRegistry(onGlobal); err != nil {
		return &wmerr.TransportError{Cause: err}
	}
	if err := m.roundtrip(); err != nil {
		return err
	}

	var err error
	if m.compositor, err = proto.BindCompositor(m.ctx); err != nil {
		return wrapBindErr(err)
	}
	if m.shm, err = proto.BindShm(m.ctx); err != nil {
		return wrapBindErr(err)
	}
	if m.winMgr, err = proto.BindWindowManager(m.ctx); err != nil {
		return wrapBindErr(err)
	}
	if m.xkbMgr, err = proto.BindXkbBindingManager(m.ctx); err != nil {
		return wrapBindErr(err)
	}
	if m.layerShell, err = proto.BindLayerShell(m.ctx); err != nil {
		return wrapBindErr(err)
	}
	m.winMgr.OnWindow = m.onWindowCreated

	for i := 0; i < m.ctx.NumGlobals("wl_output") && i < len(outputNames); i++ {
		if err := m.addOutput(i, outputNames[i]); err != nil {
			return wrapBindErr(err)
		}
	}
	for i := 0; i < m.ctx.NumGlobals("wl_seat"); i++ {
		if err := m.addSeat(i); err != nil {
			return wrapBindErr(err)
		}
	}
	if len(m.outputs) > 0 {
		m.focusedOutput = m.outputs[0]
	}
	return m.roundtrip()
}

func wrapBindErr(err error) error {
	if mg, ok := err.(*proto.ErrMissingGlobal); ok {
		return &wmerr.MissingGlobalError{Interface: mg.Interface}
	}
	return &wmerr.TransportError{Cause: err}
}

func (m *Manager) addOutput(index int, globalName uint32) error {
	p, err := proto.BindOutputIndex(m.ctx, index)
	if err != nil {
		return err
	}
	out := newOutput(p, defaultLayouts)
	p.OnGeometry = func(x, y, _, _, _ int32, _, _ string, _ int32) {
		out.X, out.Y = x, y
	}
	p.OnMode = func(_ uint32, w, h, _ int32) {
		out.W, out.H = w, h
	}
	p.OnScale = func(factor int32) { out.Scale = factor }
	p.OnName = func(name string) { out.Name = name }
	p.OnDone = func() { m.dirtyOutput(out) }

	m.outputs = append(m.outputs, out)
	m.outputsByID[out.ID()] = out
	m.outputsByGlobalName[globalName] = out
	return nil
}

func (m *Manager) addSeat(index int) error {
	p, err := proto.BindSeatIndex(m.ctx, index)
	if err != nil {
		return err
	}
	s := newSeat(m, p)
	m.seats = append(m.seats, s)
	m.seatsByID[s.ID()] = s
	s.registerBindings(m.xkbMgr, m.bindings, DefaultPointerBindings(m.cfg.Modifier))
	return nil
}

// onGlobalRemove handles an output's departure: its windows migrate to the
// next remaining output's active workspace, or are simply dropped from the
// graph if none remains (the compositor will have already torn down their
// river_window_v1 objects).
func (m *Manager) onGlobalRemove(name uint32, iface string) {
	if iface != "wl_output" {
		return
	}
	out, ok := m.outputsByGlobalName[name]
	if !ok {
		return
	}
	delete(m.outputsByGlobalName, name)
	m.removeOutput(out)
}

func (m *Manager) removeOutput(gone *Output) {
	kept := m.outputs[:0]
	for _, o := range m.outputs {
		if o != gone {
			kept = append(kept, o)
		}
	}
	m.outputs = kept
	delete(m.outputsByID, gone.ID())

	var target *Output
	if len(m.outputs) > 0 {
		target = m.outputs[0]
	}
	for i := 1; i <= WorkspaceCount; i++ {
		ws := gone.Workspaces[i]
		for _, w := range ws.Windows {
			delete(m.windowWS, w)
			delete(m.windowOutput, w)
			if target != nil {
				dst := target.Active()
				dst.Append(w)
				m.windowWS[w] = dst
				m.windowOutput[w] = target
			}
		}
	}
	if m.focusedOutput == gone {
		m.focusedOutput = target
	}
}

// onWindowCreated wires a freshly announced river_window_v1 into a wm.Window
// and appends it to the active workspace of the currently focused output.
func (m *Manager) onWindowCreated(p *proto.WindowProxy) {
	w := newWindow(p)
	m.windows[w.ID()] = w

	p.OnTitle = func(t string) { w.Title = t; m.markWorkspaceDirty(m.windowWS[w]) }
	p.OnAppID = func(a string) { w.AppID = a }
	p.OnOutputEnter = func(oid uint32) { w.outputID = oid }
	p.OnState = func(s uint32) { m.onWindowState(w, s) }
	p.OnClosed = func() { m.onWindowClosed(w) }

	out := m.focusedOutput
	if out == nil && len(m.outputs) > 0 {
		out = m.outputs[0]
	}
	if out == nil {
		return
	}
	ws := out.Active()
	ws.Append(w)
	m.windowWS[w] = ws
	m.windowOutput[w] = out
}

func (m *Manager) onWindowState(w *Window, newState uint32) {
	mapped := newState&proto.WindowStateMapped != 0
	fullscreen := newState&proto.WindowStateFullscreen != 0
	wasMapped := w.Mapped()

	w.Urgent = newState&proto.WindowStateUrgent != 0
	switch {
	case !mapped:
		w.State = StatePending
	case fullscreen:
		w.State = StateFullscreen
	default:
		w.State = StateMapped
	}

	ws := m.windowWS[w]
	m.markWorkspaceDirty(ws)
	if ws == nil {
		return
	}
	if mapped && !wasMapped {
		m.focusWindow(w)
	} else if !mapped && wasMapped {
		m.fixFocusAfterUnmap(w, ws)
	}
}

func (m *Manager) onWindowClosed(w *Window) {
	ws := m.windowWS[w]
	if ws != nil {
		ws.Remove(w)
	}
	delete(m.windowWS, w)
	delete(m.windowOutput, w)
	delete(m.windows, w.ID())
	w.State = StateClosed
	m.operations.EndFor(w)
}

// focusWindow moves the focus triad to w: its output becomes focused, its
// workspace becomes that output's active one, and it becomes the
// workspace's focused window.
func (m *Manager) focusWindow(w *Window) {
	ws := m.windowWS[w]
	if ws == nil {
		return
	}
	if idx := ws.indexOf(w); idx >= 0 {
		ws.FocusedIndex = idx
	}
	if out := m.windowOutput[w]; out != nil {
		m.focusedOutput = out
		out.ActiveWorkspace = ws.Index
	}
}

// fixFocusAfterUnmap transfers focus to the next mapped sibling in sequence
// order, wrapping, or clears it if none remain mapped.
func (m *Manager) fixFocusAfterUnmap(w *Window, ws *Workspace) {
	if ws.FocusedWindow() != w {
		return
	}
	n := len(ws.Windows)
	start := ws.indexOf(w)
	if start < 0 || n == 0 {
		ws.FocusedIndex = -1
		return
	}
	for i := 1; i <= n; i++ {
		idx := (start + i) % n
		if ws.Windows[idx].Mapped() {
			ws.FocusedIndex = idx
			return
		}
	}
	ws.FocusedIndex = -1
}

func (m *Manager) markWorkspaceDirty(ws *Workspace) {
	if ws != nil {
		ws.dirty = true
	}
}

func (m *Manager) dirtyOutput(o *Output) {
	for i := 1; i <= WorkspaceCount; i++ {
		o.Workspaces[i].dirty = true
	}
}

func (m *Manager) markFocusedWorkspaceDirty(s *Seat) {
	if m.focusedOutput != nil {
		m.focusedOutput.Active().dirty = true
	}
}

func (m *Manager) focusedWindowForSeat(s *Seat) *Window {
	if m.focusedOutput == nil {
		return nil
	}
	return m.focusedOutput.Active().FocusedWindow()
}

// dispatchAction applies one bound Action, reached through a key binding's
// OnPressed callback. The two pointer-gesture tags are not handled here;
// Seat.onPointerButton acts on them directly.
func (m *Manager) dispatchAction(s *Seat, action Action, wsIndex int) {
	if action == ActionQuit {
		m.running = false
		return
	}

	out := m.focusedOutput
	if out == nil {
		return
	}
	ws := out.Active()

	switch action {
	case ActionSpawnTerminal:
		m.spawn(m.cfg.TerminalCmd)
	case ActionSpawnLauncher:
		m.spawn(m.cfg.LauncherCmd)
	case ActionCloseWindow:
		if w := ws.FocusedWindow(); w != nil {
			if err := w.Close(); err != nil {
				m.log.WithError(err).Warn("close_window request failed")
			}
		}
	case ActionFocusNext:
		ws.focusNext()
	case ActionFocusPrev:
		ws.focusPrev()
	case ActionSwapNext:
		ws.swapWithNeighbor(1)
	case ActionSwapPrev:
		ws.swapWithNeighbor(-1)
	case ActionPromoteMaster:
		ws.promoteToMaster()
	case ActionCycleLayoutNext:
		ws.CycleLayout(1)
	case ActionCycleLayoutPrev:
		ws.CycleLayout(-1)
	case ActionToggleFullscreen:
		if w := ws.FocusedWindow(); w != nil {
			if err := w.SetFullscreen(w.State != StateFullscreen); err != nil {
				m.log.WithError(err).Warn("set_fullscreen request failed")
			}
			ws.dirty = true
		}
	case ActionSwitchWorkspace:
		m.switchWorkspace(out, wsIndex)
	case ActionMoveToWorkspace:
		m.moveFocusedToWorkspace(out, ws, wsIndex)
	}
}

func (m *Manager) spawn(cmd string) {
	if cmd == "" {
		return
	}
	c := exec.Command("/bin/sh", "-c", cmd)
	if err := c.Start(); err != nil {
		m.log.WithError(err).WithField("cmd", cmd).Warn("failed to spawn")
		return
	}
	go c.Wait() //nolint:errcheck // a detached child; we only need to reap it, not its status
}

func (m *Manager) switchWorkspace(out *Output, index int) {
	if index < 1 || index > WorkspaceCount {
		m.log.WithField("index", index).Warn("switch_workspace: index out of range")
		return
	}
	out.ActiveWorkspace = index
	out.Active().dirty = true
}

func (m *Manager) moveFocusedToWorkspace(out *Output, ws *Workspace, index int) {
	if index < 1 || index > WorkspaceCount {
		m.log.WithField("index", index).Warn("move_window_to_workspace: index out of range")
		return
	}
	w := ws.FocusedWindow()
	if w == nil {
		return
	}
	ws.Remove(w)
	dst := out.Workspaces[index]
	dst.Append(w)
	m.windowWS[w] = dst
	ws.dirty = true
}

// commit recomputes and re-issues geometry for every workspace the current
// batch of events or actions touched, then clears their dirty flags.
func (m *Manager) commit() {
	for _, out := range m.outputs {
		for i := 1; i <= WorkspaceCount; i++ {
			ws := out.Workspaces[i]
			if !ws.dirty || i != out.ActiveWorkspace {
				ws.dirty = false
				continue
			}
			m.commitWorkspace(out, ws)
			ws.dirty = false
		}
	}
}

func (m *Manager) commitWorkspace(out *Output, ws *Workspace) {
	mapped := ws.mappedForLayout()
	focused := ws.FocusedWindow()
	lws := make([]layout.Window, 0, len(mapped))
	byID := make(map[uint32]*Window, len(mapped))
	for _, w := range mapped {
		lws = append(lws, layout.Window{
			ID:       w.ID(),
			Focused:  w == focused,
			Urgent:   w.Urgent,
			Floating: w.FloatGeom,
		})
		byID[w.ID()] = w
	}

	area := out.Area(m.cfg.OuterGap)
	params := layout.Params{MasterCount: 1, MasterRatio: 0.5, InnerGap: m.cfg.InnerGap, TabHeight: m.cfg.TabHeight}
	geoms := layout.Calculate(ws.CurrentLayout(), lws, area, params)

	for id, g := range geoms {
		w, ok := byID[id]
		if !ok || !g.Visible {
			continue
		}
		border, color := m.borderFor(w, g.Border)
		if err := w.SetGeometry(int32(g.X), int32(g.Y), int32(g.W), int32(g.H), border, color); err != nil {
			m.log.WithError(err).WithField("window", id).Warn("set_geometry request failed")
		}
	}

	// Floating windows sit outside the tiling algorithm entirely; they are
	// placed at whatever FloatGeom an interactive move/resize last
	// recorded for them.
	for _, w := range ws.floatingForLayout() {
		if w.FloatGeom == nil {
			continue
		}
		b := layout.BorderNormal
		if w == focused {
			b = layout.BorderFocused
		}
		border, color := m.borderFor(w, b)
		g := w.FloatGeom
		if err := w.SetGeometry(int32(g.X), int32(g.Y), int32(g.W), int32(g.H), border, color); err != nil {
			m.log.WithError(err).WithField("window", w.ID()).Warn("set_geometry request failed")
		}
	}
}

func (m *Manager) borderFor(w *Window, b layout.Border) (uint32, uint32) {
	if w.Urgent {
		return proto.BorderUrgent, uint32(m.cfg.UrgentBorderColor)
	}
	switch b {
	case layout.BorderFocused:
		return proto.BorderFocused, uint32(m.cfg.FocusedBorderColor)
	case layout.BorderNone:
		return proto.BorderNone, uint32(m.cfg.BorderColor)
	default:
		return proto.BorderNormal, uint32(m.cfg.BorderColor)
	}
}

// Run drives the event loop until a quit action fires, a signal arrives, or
// a fatal error occurs. It returns the process exit code. The poll interval
// (100ms) is what lets the loop notice a delivered signal without blocking
// indefinitely inside RunOnce.
func (m *Manager) Run() int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	m.running = true
	for m.running {
		select {
		case <-sigCh:
			m.running = false
			continue
		default:
		}

		ok, err := m.conn.RunOnce(m.ctx, pollInterval)
		if err != nil {
			m.fail(m.classifyRunErr(err))
			break
		}
		if !ok {
			m.fail(&wmerr.TransportError{Cause: stderrors.New("compositor closed the connection")})
			break
		}
		if m.ctx.FatalErr != nil {
			m.fail(&wmerr.ServerError{Message: m.ctx.FatalErr.Error()})
			break
		}
		m.commit()
	}
	return m.exitCode
}

func (m *Manager) classifyRunErr(err error) error {
	if stderrors.Is(err, wire.ErrMalformedFrame) || stderrors.Is(err, wire.ErrNeedMore) {
		return &wmerr.ProtocolError{Cause: err}
	}
	return &wmerr.TransportError{Cause: err}
}

func (m *Manager) fail(err error) {
	if f, ok := err.(wmerr.Fatal); ok {
		m.log.WithError(f).Error("fatal error, shutting down")
		m.exitCode = f.ExitCode()
	} else {
		m.log.WithError(err).Error("fatal error, shutting down")
		m.exitCode = 1
	}
}

// Close releases the underlying socket.
func (m *Manager) Close() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}
