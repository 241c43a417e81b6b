package proto

import (
	"github.com/pkg/errors"

	"github.com/pinpox/river-pwm/internal/wire"
)

// Sender is the minimum a Context needs from the connection below it: the
// ability to hand a fully encoded message (plus any fds it carries) to the
// outgoing buffer.
type Sender interface {
	Send(objectID uint32, opcode uint16, args []wire.Arg) error
}

// Object is anything the object table tracks: a live protocol object with
// an id, an interface identity, and a way to receive dispatched events.
type Object interface {
	ID() uint32
	Interface() string
}

// dispatchFunc is design note #9's "fixed dispatch function per interface":
// given the decoded event opcode and its typed arguments, it applies the
// event to whatever local state or listener the object was constructed
// with.
type dispatchFunc func(opcode uint16, args []wire.Arg)

type entry struct {
	obj      Object
	desc     *InterfaceDesc
	dispatch dispatchFunc
}

type global struct {
	name      uint32
	iface     string
	version   uint32
}

// ErrMissingGlobal reports that a required interface was absent after the
// initial registry sync.
type ErrMissingGlobal struct {
	Interface string
}

func (e *ErrMissingGlobal) Error() string {
	return "proto: required global " + e.Interface + " was not advertised by the compositor"
}

// Context owns the object table and the registry's view of the
// compositor's globals. It allocates client-side ids monotonically from 2
// (id 1 is the display), reusing an id only once its delete_id event has
// been observed.
type Context struct {
	sender Sender

	objects map[uint32]*entry
	free    []uint32
	next    uint32

	globals       map[uint32]global
	globalsByIface map[string][]global

	displayID  uint32
	registryID uint32

	// FatalErr is set when the display reports an unrecoverable server
	// error; the manager checks it after every dispatch batch.
	FatalErr error

	// OnStateError is invoked when an event targets an object id the
	// table no longer knows about. Non-fatal: racing destructor events
	// are expected. May be nil.
	OnStateError func(objectID uint32, opcode uint16)

	// OnGlobalRemove is invoked when the registry retracts a global,
	// naming the interface that is going away. The manager core uses this
	// to notice an output's departure and migrate its windows.
	OnGlobalRemove func(name uint32, iface string)
}

// NewContext creates a Context bound to sender for outgoing traffic and
// registers the display object at id 1.
func NewContext(sender Sender) *Context {
	c := &Context{
		sender:         sender,
		objects:        make(map[uint32]*entry),
		globals:        make(map[uint32]global),
		globalsByIface: make(map[string][]global),
		next:           1,
	}
	c.displayID = 1
	c.objects[c.displayID] = &entry{
		obj:      objectBase{id: c.displayID, iface: "wl_display"},
		desc:     displayDesc,
		dispatch: c.dispatchDisplay,
	}
	return c
}

func (c *Context) allocID() uint32 {
	if n := len(c.free); n > 0 {
		id := c.free[n-1]
		c.free = c.free[:n-1]
		return id
	}
	c.next++
	return c.next
}

func (c *Context) send(objectID uint32, opcode uint16, args []wire.Arg) error {
	return c.sender.Send(objectID, opcode, args)
}

// register installs an object in the table under a freshly allocated id.
func (c *Context) register(iface string, desc *InterfaceDesc, dispatch dispatchFunc) uint32 {
	id := c.allocID()
	c.objects[id] = &entry{
		obj:      objectBase{id: id, iface: iface},
		desc:     desc,
		dispatch: dispatch,
	}
	return id
}

// deleteID frees a client-allocated object id for reuse, per the
// wl_display.delete_id event.
func (c *Context) deleteID(id uint32) {
	if _, ok := c.objects[id]; ok {
		delete(c.objects, id)
		c.free = append(c.free, id)
	}
}

type objectBase struct {
	id    uint32
	iface string
}

func (o objectBase) ID() uint32        { return o.id }
func (o objectBase) Interface() string { return o.iface }

// Dispatch decodes and applies exactly one message at the front of buf. It
// returns the number of bytes consumed. Malformed frames and decode
// overruns are returned as wire.ErrMalformedFrame/ErrNeedMore and are
// fatal for the connection above this layer.
func (c *Context) Dispatch(buf []byte, fdq wire.FDSource) (int, error) {
	objectID, opcode, length, ok := wire.DecodeHeader(buf)
	if !ok {
		if len(buf) < 8 {
			return 0, wire.ErrNeedMore
		}
		return 0, wire.ErrMalformedFrame
	}
	if len(buf) < length {
		return 0, wire.ErrNeedMore
	}

	e, known := c.objects[objectID]
	if !known {
		// StateError: an event referencing an unknown object id is
		// expected when destructor events race the server; skip it.
		if c.OnStateError != nil {
			c.OnStateError(objectID, opcode)
		}
		return length, nil
	}
	if int(opcode) >= len(e.desc.Events) {
		return 0, errors.Wrapf(wire.ErrMalformedFrame, "proto: unknown opcode %d on %s (object %d)", opcode, e.desc.Name, objectID)
	}

	sig := e.desc.Events[opcode]
	msg, consumed, err := wire.Decode(buf, sig.Args, fdq)
	if err != nil {
		return 0, errors.Wrapf(err, "proto: decoding %s.%s (object %d)", e.desc.Name, sig.Name, objectID)
	}

	e.dispatch(msg.Opcode, msg.Args)
	return consumed, nil
}

// --- wl_display / wl_registry bootstrap ---

// DisplayListener receives wl_display events.
type DisplayListener interface {
	Error(objectID uint32, code uint32, message string)
	DeleteID(id uint32)
}

func (c *Context) dispatchDisplay(opcode uint16, args []wire.Arg) {
	switch opcode {
	case 0: // error
		objectID, code, message := args[0].Uint, args[1].Uint, args[2].String
		c.FatalErr = errors.Errorf("server error on object %d: code %d: %s", objectID, code, message)
	case 1: // delete_id
		c.deleteID(args[0].Uint)
	}
}

// Sync sends wl_display.sync and returns the callback object that will
// fire once the server has processed every request issued before it.
func (c *Context) Sync(onDone func(data uint32)) (uint32, error) {
	id := c.register("wl_callback", callbackDesc, nil)
	c.objects[id].dispatch = func(opcode uint16, args []wire.Arg) {
		if opcode == 0 && onDone != nil {
			onDone(args[0].Uint)
		}
	}
	if err := c.send(c.displayID, 0, []wire.Arg{wire.NewID(id)}); err != nil {
		return 0, errors.Wrap(err, "wl_display.sync")
	}
	return id, nil
}

// GlobalHandler receives wl_registry.global/global_remove events as they
// stream in during the initial registry pass.
type GlobalHandler func(name uint32, iface string, version uint32)

// GetRegistry sends wl_display.get_registry and starts tracking
// advertised globals. onGlobal, if non-nil, is invoked for every global
// seen (including ones that arrive after the initial sync).
func (c *Context) GetRegistry(onGlobal GlobalHandler) error {
	id := c.register("wl_registry", registryDesc, nil)
	c.registryID = id
	c.objects[id].dispatch = func(opcode uint16, args []wire.Arg) {
		switch opcode {
		case 0: // global
			g := global{name: args[0].Uint, iface: args[1].String, version: args[2].Uint}
			c.globals[g.name] = g
			c.globalsByIface[g.iface] = append(c.globalsByIface[g.iface], g)
			if onGlobal != nil {
				onGlobal(g.name, g.iface, g.version)
			}
		case 1: // global_remove
			name := args[0].Uint
			g, ok := c.globals[name]
			if !ok {
				return
			}
			delete(c.globals, name)
			kept := c.globalsByIface[g.iface][:0]
			for _, x := range c.globalsByIface[g.iface] {
				if x.name != name {
					kept = append(kept, x)
				}
			}
			c.globalsByIface[g.iface] = kept
			if c.OnGlobalRemove != nil {
				c.OnGlobalRemove(name, g.iface)
			}
		}
	}
	return c.send(c.displayID, 1, []wire.Arg{wire.NewID(id)})
}

// NumGlobals reports how many instances of an interface the registry has
// advertised (a compositor may expose more than one wl_output, for
// instance).
func (c *Context) NumGlobals(iface string) int {
	return len(c.globalsByIface[iface])
}

// BindIndex binds the i'th advertised instance of iface, registering desc
// as its schema and dispatch as its event handler. The negotiated version
// is min(server version, desc.Version).
func (c *Context) BindIndex(iface string, desc *InterfaceDesc, i int, dispatch dispatchFunc) (uint32, error) {
	globals := c.globalsByIface[iface]
	if i >= len(globals) {
		return 0, errors.Errorf("proto: index %d out of range for interface %s", i, iface)
	}
	g := globals[i]
	version := g.version
	if desc.Version < version {
		version = desc.Version
	}
	id := c.register(iface, desc, dispatch)
	err := c.send(c.registryID, 0, []wire.Arg{
		wire.Uint(g.name),
		wire.String(iface),
		wire.Uint(version),
		wire.NewID(id),
	})
	if err != nil {
		return 0, errors.Wrapf(err, "wl_registry.bind(%s)", iface)
	}
	return id, nil
}

// Bind binds the sole advertised instance of iface, or fails with
// ErrMissingGlobal if none was advertised.
func (c *Context) Bind(iface string, desc *InterfaceDesc, dispatch dispatchFunc) (uint32, error) {
	if c.NumGlobals(iface) == 0 {
		return 0, &ErrMissingGlobal{Interface: iface}
	}
	return c.BindIndex(iface, desc, 0, dispatch)
}

// SetDispatch rebinds the event handler for an already-registered object;
// object wrappers use this once they have enough of themselves
// constructed to serve as their own listener target.
func (c *Context) SetDispatch(id uint32, dispatch dispatchFunc) {
	if e, ok := c.objects[id]; ok {
		e.dispatch = dispatch
	}
}

// Send marshals and transmits a request on behalf of an object wrapper.
func (c *Context) Send(objectID uint32, opcode uint16, args ...wire.Arg) error {
	return c.send(objectID, opcode, args)
}

// NewObjectID allocates and registers an object id without sending
// anything; used for requests whose new_id argument names a fresh
// object the caller then wires up.
func (c *Context) NewObjectID(iface string, desc *InterfaceDesc, dispatch dispatchFunc) uint32 {
	return c.register(iface, desc, dispatch)
}

// Destroy removes id from the table immediately, ahead of the server's own
// delete_id acknowledgement. A subsequent delete_id event is idempotent
// since deleteID no-ops on a missing id.
func (c *Context) Destroy(id uint32) {
	delete(c.objects, id)
}
