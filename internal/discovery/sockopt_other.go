//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package discovery

import (
	"net"
	"syscall"
)

// receiverControl is a no-op where x/sys/unix socket options are unavailable.
func receiverControl(network, address string, c syscall.RawConn) error {
	return nil
}

func receiverBindIP(iface net.IP, _ net.IP) net.IP {
	return iface
}
