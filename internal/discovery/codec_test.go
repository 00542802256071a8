package discovery

import (
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		info ConnectionInfo
	}{
		{
			name: "Service host name",
			info: ConnectionInfo{Sender: netip.MustParseAddr("10.0.0.5"), Host: "svc.local", Port: 1234},
		},
		{
			name: "Empty host and zero port",
			info: ConnectionInfo{Sender: netip.MustParseAddr("192.168.1.20"), Host: "", Port: 0},
		},
		{
			name: "Max port",
			info: ConnectionInfo{Sender: netip.MustParseAddr("0.0.0.0"), Host: "пример.рф", Port: 65535},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.info)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.info, decoded)
		})
	}
}

func TestEncodeWireFormat(t *testing.T) {
	data, err := Encode(ConnectionInfo{Sender: netip.MustParseAddr("10.0.0.5"), Host: "svc.local", Port: 1234})
	require.NoError(t, err)
	assert.JSONEq(t, `{"sender":"10.0.0.5","host":"svc.local","port":1234}`, string(data))
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(ConnectionInfo{Sender: netip.MustParseAddr("::1"), Host: "h", Port: 1})
	assert.ErrorIs(t, err, ErrNotIPv4)

	_, err = Encode(ConnectionInfo{})
	assert.ErrorIs(t, err, ErrNotIPv4)

	_, err = Encode(ConnectionInfo{
		Sender: netip.MustParseAddr("10.0.0.1"),
		Host:   strings.Repeat("a", MaxDatagramSize),
		Port:   1,
	})
	assert.ErrorIs(t, err, ErrRecordTooLarge)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{name: "Invalid utf-8", input: []byte{0xff, 0xfe, '{', '}'}},
		{name: "Not json", input: []byte("hello")},
		{name: "Truncated", input: []byte(`{"sender":"10.0.0.5","host":"svc`)},
		{name: "Missing sender", input: []byte(`{"host":"svc.local","port":1234}`)},
		{name: "Missing host", input: []byte(`{"sender":"10.0.0.5","port":1234}`)},
		{name: "Missing port", input: []byte(`{"sender":"10.0.0.5","host":"svc.local"}`)},
		{name: "Port out of range", input: []byte(`{"sender":"10.0.0.5","host":"svc.local","port":70000}`)},
		{name: "IPv6 sender", input: []byte(`{"sender":"::1","host":"svc.local","port":1234}`)},
		{name: "Garbage sender", input: []byte(`{"sender":"nope","host":"svc.local","port":1234}`)},
		{name: "Trailing value", input: []byte(`{"sender":"10.0.0.5","host":"a","port":1} {}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
