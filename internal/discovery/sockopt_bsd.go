//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package discovery

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

func receiverControl(network, address string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		for _, name := range []int{unix.SO_REUSEADDR, unix.SO_REUSEPORT, unix.SO_BROADCAST} {
			if opErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, name, 1); opErr != nil {
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return opErr
}

func receiverBindIP(_ net.IP, group net.IP) net.IP {
	return group
}
