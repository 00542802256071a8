//go:build linux

package discovery

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// receiverControl sets reuse and broadcast before bind. IP_MULTICAST_ALL is
// turned off so a socket only gets groups joined on its own interface.
func receiverControl(network, address string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		for _, opt := range []struct{ level, name int }{
			{unix.SOL_SOCKET, unix.SO_REUSEADDR},
			{unix.SOL_SOCKET, unix.SO_REUSEPORT},
			{unix.SOL_SOCKET, unix.SO_BROADCAST},
		} {
			if opErr = unix.SetsockoptInt(int(fd), opt.level, opt.name, 1); opErr != nil {
				return
			}
		}
		opErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_MULTICAST_ALL, 0)
	})
	if err != nil {
		return err
	}
	return opErr
}

// receiverBindIP returns the local address a receiver binds to. Linux only
// delivers multicast to sockets bound to the group or the wildcard address.
func receiverBindIP(_ net.IP, group net.IP) net.IP {
	return group
}
