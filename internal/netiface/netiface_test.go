package netiface

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterAddrs(t *testing.T) {
	addrs := []Addr{
		{Name: "eth0", IP: net.ParseIP("192.168.1.10")},
		{Name: "eth0", IP: net.ParseIP("fe80::1")},
		{Name: "eth1", IP: net.ParseIP("169.254.3.4")},
		{Name: "tun0", IP: net.ParseIP("10.8.0.2")},
		{Name: "lo", IP: net.ParseIP("127.0.0.1")},
		{Name: "eth2", IP: net.ParseIP("2001:db8::1")},
		{Name: "any", IP: net.IPv4zero},
	}

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{
			name:     "Default filter",
			filter:   Filter{},
			expected: []string{"192.168.1.10", "10.8.0.2"},
		},
		{
			name:     "Only tun0",
			filter:   Filter{Names: []string{"tun0"}},
			expected: []string{"10.8.0.2"},
		},
		{
			name:     "With loopback",
			filter:   Filter{IncludeLoopback: true},
			expected: []string{"192.168.1.10", "10.8.0.2", "127.0.0.1"},
		},
		{
			name:     "Unknown name",
			filter:   Filter{Names: []string{"wlan9"}},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterAddrs(addrs, tt.filter)
			got := make([]string, 0, len(result))
			for _, a := range result {
				assert.Len(t, a.IP, net.IPv4len)
				got = append(got, a.IP.String())
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFilterAddrsEmpty(t *testing.T) {
	assert.Empty(t, FilterAddrs(nil, Filter{}))
}

func TestIPs(t *testing.T) {
	ips := IPs([]Addr{{Name: "a", IP: net.IPv4(10, 0, 0, 1)}, {Name: "b", IP: net.IPv4(10, 0, 0, 2)}})
	require.Len(t, ips, 2)
	assert.True(t, ips[1].Equal(net.IPv4(10, 0, 0, 2)))
}

func TestInterfaceByAddr(t *testing.T) {
	iface, err := InterfaceByAddr(net.IPv4zero)
	assert.NoError(t, err)
	assert.Nil(t, iface)

	iface, err = InterfaceByAddr(net.IPv4(127, 0, 0, 1))
	require.NoError(t, err)
	assert.NotZero(t, iface.Flags&net.FlagLoopback)

	_, err = InterfaceByAddr(net.IPv4(203, 0, 113, 77))
	assert.ErrorIs(t, err, ErrInterfaceNotFound)
}

func TestDiscoverSkipsLinkLocal(t *testing.T) {
	addrs, err := Discover(Filter{IncludeLoopback: true})
	require.NoError(t, err)
	for _, a := range addrs {
		assert.NotNil(t, a.IP.To4())
		assert.False(t, a.IP.IsLinkLocalUnicast())
	}
}
