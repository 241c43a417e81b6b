// Package transport owns the Unix domain socket to the compositor: socket
// resolution, ancillary-fd transport, partial-message buffering, and the
// blocking/non-blocking read cycles the manager's run loop drives.
package transport

import (
	"net"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/pinpox/river-pwm/internal/wire"
)

// Connection is a single Unix-domain-socket connection to a Wayland
// compositor. It is not safe for concurrent use from multiple goroutines;
// the manager core drives it from a single run loop.
type Connection struct {
	conn   *net.UnixConn
	rawFD  int

	inbuf      []byte
	inlen      int
	pendingFDs []*os.File

	outbuf []byte
	outfds []*os.File
}

// socketPath resolves the path Connect dials, mirroring the compositor's
// own resolution rule: an explicit name wins, then $WAYLAND_DISPLAY, then
// the "wayland-0" default, joined against $XDG_RUNTIME_DIR unless already
// absolute.
func socketPath(name string) (string, error) {
	if name == "" {
		name = os.Getenv("WAYLAND_DISPLAY")
	}
	if name == "" {
		name = "wayland-0"
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return "", errors.New("transport: XDG_RUNTIME_DIR is not set and socket name is not absolute")
	}
	return filepath.Join(runtimeDir, name), nil
}

// Connect dials the compositor's Unix socket. name may be empty to use the
// environment-driven default.
func Connect(name string) (*Connection, error) {
	path, err := socketPath(name)
	if err != nil {
		return nil, err
	}
	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: resolving socket address %s", path)
	}
	conn, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: connecting to compositor at %s", path)
	}

	sc, err := conn.SyscallConn()
	if err != nil {
		return nil, errors.Wrap(err, "transport: obtaining raw socket handle")
	}
	var rawFD int
	err = sc.Control(func(fd uintptr) { rawFD = int(fd) })
	if err != nil {
		return nil, errors.Wrap(err, "transport: reading raw socket descriptor")
	}

	return &Connection{
		conn:  conn,
		rawFD: rawFD,
		inbuf: make([]byte, 65536),
	}, nil
}

// Send marshals a single request and queues it for the next flush. Requests
// that carry FD arguments attach them as SCM_RIGHTS ancillary data on the
// same write.
func (c *Connection) Send(objectID uint32, opcode uint16, args []wire.Arg) error {
	frame, fds, err := wire.Encode(wire.Message{ObjectID: objectID, Opcode: opcode, Args: args})
	if err != nil {
		return errors.Wrap(err, "transport: encoding request")
	}
	c.outbuf = append(c.outbuf, frame...)
	c.outfds = append(c.outfds, fds...)
	return c.flush()
}

func (c *Connection) flush() error {
	if len(c.outbuf) == 0 {
		return nil
	}
	var oob []byte
	if len(c.outfds) > 0 {
		rights := make([]int, len(c.outfds))
		for i, f := range c.outfds {
			rights[i] = int(f.Fd())
		}
		oob = syscall.UnixRights(rights...)
	}
	_, _, err := c.conn.WriteMsgUnix(c.outbuf, oob, nil)
	if err != nil {
		return errors.Wrap(err, "transport: writing to compositor socket")
	}
	c.outbuf = c.outbuf[:0]
	c.outfds = c.outfds[:0]
	return nil
}

// Dispatcher is what a Connection feeds complete messages to. Implemented by
// *proto.Context; kept as an interface here so transport has no dependency
// on proto.
type Dispatcher interface {
	Dispatch(buf []byte, fdq wire.FDSource) (int, error)
}

// RunOnce waits up to timeout for data on the socket via unix.Poll, then
// reads at most one socket fill and dispatches every complete message it
// yields. A timeout of zero polls without blocking; a negative timeout
// blocks indefinitely. It returns (false, nil) on a clean EOF from the
// compositor, and (true, nil) on a timeout with nothing to read.
func (c *Connection) RunOnce(d Dispatcher, timeout time.Duration) (bool, error) {
	pollMS := -1
	if timeout >= 0 {
		pollMS = int(timeout / time.Millisecond)
	}
	fds := []unix.PollFd{{Fd: int32(c.rawFD), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, pollMS)
	if err != nil {
		if err == unix.EINTR {
			return true, nil
		}
		return false, errors.Wrap(err, "transport: polling compositor socket")
	}
	if n == 0 {
		return true, nil
	}

	oobBuf := make([]byte, os.Getpagesize())
	n, oobn, _, _, err := c.conn.ReadMsgUnix(c.inbuf[c.inlen:], oobBuf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return true, nil
		}
		return false, errors.Wrap(err, "transport: reading from compositor socket")
	}
	if n == 0 && oobn == 0 {
		return false, nil
	}
	if oobn > 0 {
		fds, err := decodeFDs(oobBuf[:oobn])
		if err != nil {
			return false, errors.Wrap(err, "transport: decoding ancillary file descriptors")
		}
		c.pendingFDs = append(c.pendingFDs, fds...)
	}

	c.inlen += n
	consumed := 0
	fdq := wire.NewFDQueue(c.pendingFDs)
	c.pendingFDs = nil
	for {
		buf := c.inbuf[consumed:c.inlen]
		if len(buf) < 8 {
			break
		}
		_, _, length, ok := wire.DecodeHeader(buf)
		if !ok {
			return false, wire.ErrMalformedFrame
		}
		if len(buf) < length {
			break
		}
		n, err := d.Dispatch(buf, fdq)
		if err != nil {
			return false, err
		}
		consumed += n
	}
	// Descriptors not yet claimed belong to messages still incomplete in
	// the buffer; keep them for the next read.
	for f, ok := fdq.Next(); ok; f, ok = fdq.Next() {
		c.pendingFDs = append(c.pendingFDs, f)
	}

	remaining := c.inlen - consumed
	if consumed > 0 {
		copy(c.inbuf, c.inbuf[consumed:c.inlen])
		c.inlen = remaining
	}
	if remaining == len(c.inbuf) {
		grown := make([]byte, len(c.inbuf)*2)
		copy(grown, c.inbuf[:remaining])
		c.inbuf = grown
	}
	return true, nil
}

// Run blocks, calling RunOnce in a loop, until the compositor closes the
// connection or RunOnce returns an error.
func (c *Connection) Run(d Dispatcher) error {
	for {
		ok, err := c.RunOnce(d, -1)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

func decodeFDs(oob []byte) ([]*os.File, error) {
	scms, err := syscall.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, errors.Wrap(err, "parsing socket control message")
	}
	var fds []*os.File
	for _, scm := range scms {
		rights, err := syscall.ParseUnixRights(&scm)
		if err != nil {
			return nil, errors.Wrap(err, "parsing unix rights")
		}
		for _, fd := range rights {
			fds = append(fds, os.NewFile(uintptr(fd), "wayland-fd"))
		}
	}
	return fds, nil
}

// Close shuts down the underlying socket.
func (c *Connection) Close() error {
	return c.conn.Close()
}
