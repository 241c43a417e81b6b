// Package wmerr defines the error taxonomy of the manager. The run loop
// treats every error it receives as fatal and exits with the ExitCode of
// the fatal type it was mapped to. StateError and UserError are not
// constructed by the manager; unknown-object events are logged and
// dropped through proto.Context.OnStateError instead.
package wmerr

import "fmt"

// TransportError reports a failure of the underlying socket connection
// itself (dial failure, read/write failure, unexpected EOF). Fatal.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return "transport: " + e.Cause.Error() }
func (e *TransportError) Unwrap() error { return e.Cause }
func (e *TransportError) ExitCode() int { return 2 }

// ProtocolError reports a wire-format violation: a malformed frame, an
// argument that failed to decode, or an opcode outside an interface's
// known schema. Fatal, since the object table can no longer be trusted.
type ProtocolError struct {
	Cause error
}

func (e *ProtocolError) Error() string { return "protocol: " + e.Cause.Error() }
func (e *ProtocolError) Unwrap() error { return e.Cause }
func (e *ProtocolError) ExitCode() int { return 3 }

// ServerError reports a wl_display.error event: the compositor rejected a
// request the client issued. Fatal. ExitCode falls back to 1 since most
// server error categories have no dedicated exit code of their own.
type ServerError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error on object %d: code %d: %s", e.ObjectID, e.Code, e.Message)
}
func (e *ServerError) ExitCode() int { return 1 }

// MissingGlobalError reports that a global this client requires was not
// advertised by the compositor after the initial registry sync. Fatal.
type MissingGlobalError struct {
	Interface string
}

func (e *MissingGlobalError) Error() string {
	return "missing required global: " + e.Interface
}
func (e *MissingGlobalError) ExitCode() int { return 1 }

// StateError reports an internal inconsistency that does not corrupt the
// connection: an event referencing an object id the table no longer
// knows, or a user action targeting a window that has already closed.
// Non-fatal; logged and dropped.
type StateError struct {
	Detail string
}

func (e *StateError) Error() string { return "state: " + e.Detail }

// UserError reports a rejected user action that is the user's own fault:
// binding a key twice, requesting a workspace index out of range. Non-fatal.
type UserError struct {
	Detail string
}

func (e *UserError) Error() string { return "user: " + e.Detail }

// Fatal is implemented by every taxonomy member that should terminate the
// process, giving the exit code to use.
type Fatal interface {
	error
	ExitCode() int
}
