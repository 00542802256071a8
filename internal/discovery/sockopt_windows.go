//go:build windows

package discovery

import (
	"net"
	"syscall"

	"golang.org/x/sys/windows"
)

func receiverControl(network, address string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		for _, name := range []int{windows.SO_REUSEADDR, windows.SO_BROADCAST} {
			if opErr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, name, 1); opErr != nil {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return opErr
}

// receiverBindIP on Windows binds the interface address itself, the stack
// delivers joined groups to sockets bound to a unicast interface address.
func receiverBindIP(iface net.IP, _ net.IP) net.IP {
	return iface
}
