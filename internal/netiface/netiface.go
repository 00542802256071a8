// Package netiface enumerates local IPv4 addresses usable for multicast discovery.
package netiface

import (
	"errors"
	"fmt"
	"net"
	"slices"
)

var ErrInterfaceNotFound = errors.New("no interface owns address")

// Addr is one IPv4 address of a local interface.
type Addr struct {
	Name string
	IP   net.IP
}

func (a Addr) String() string {
	return fmt.Sprintf("%s(%s)", a.Name, a.IP)
}

// Filter selects which interfaces take part in discovery.
type Filter struct {
	// Names restricts discovery to the listed interface names, empty means all.
	Names []string
	// IncludeLoopback keeps loopback interfaces, mostly useful in tests.
	IncludeLoopback bool
}

// Discover lists IPv4 addresses of up interfaces with link-local addresses removed.
func Discover(filter Filter) ([]Addr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("netiface.Discover: %w", err)
	}

	var candidates []Addr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 && !filter.IncludeLoopback {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			return nil, fmt.Errorf("netiface.Discover: %s: %w", iface.Name, err)
		}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok {
				candidates = append(candidates, Addr{Name: iface.Name, IP: ipnet.IP})
			}
		}
	}

	return FilterAddrs(candidates, filter), nil
}

// FilterAddrs keeps IPv4, non link-local addresses whose interface passes the filter.
func FilterAddrs(addrs []Addr, filter Filter) []Addr {
	out := make([]Addr, 0, len(addrs))
	for _, a := range addrs {
		ip4 := a.IP.To4()
		if ip4 == nil {
			continue
		}
		if ip4.IsLinkLocalUnicast() || ip4.IsUnspecified() {
			continue
		}
		if ip4.IsLoopback() && !filter.IncludeLoopback {
			continue
		}
		if len(filter.Names) > 0 && !slices.Contains(filter.Names, a.Name) {
			continue
		}
		out = append(out, Addr{Name: a.Name, IP: ip4})
	}
	return out
}

// IPs strips interface names.
func IPs(addrs []Addr) []net.IP {
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.IP)
	}
	return ips
}

// InterfaceByAddr returns the interface that owns ip.
// A nil interface and no error is returned for the unspecified address.
func InterfaceByAddr(ip net.IP) (*net.Interface, error) {
	if ip == nil || ip.IsUnspecified() {
		return nil, nil
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.Equal(ip) {
				return &ifaces[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInterfaceNotFound, ip)
}
