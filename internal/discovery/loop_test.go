package discovery

import (
	"context"
	"net"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticBinding(t *testing.T, iface string) *Binding {
	t.Helper()
	b, err := NewBinding(net.ParseIP(iface), DefaultParams(), NewCoordinator(), discardLogger())
	require.NoError(t, err)
	b.lookup = func(net.IP) (*net.Interface, error) { return nil, nil }
	return b
}

type collector struct {
	mu  sync.Mutex
	got []Announcement
}

func (c *collector) handle(_ context.Context, a Announcement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, a)
}

func TestAnnouncerPayloadDecodesOnListener(t *testing.T) {
	metrics := NewMetrics()
	announcer := NewAnnouncer(syntheticBinding(t, "10.0.0.5"), "svc.local", 1234, 0, metrics, discardLogger())

	payload, err := announcer.Payload()
	require.NoError(t, err)

	c := &collector{}
	listener := NewListener(syntheticBinding(t, "10.0.0.7"), c.handle, metrics, discardLogger())
	listener.handle(context.Background(), payload, &net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 40000})

	require.Len(t, c.got, 1)
	got := c.got[0]
	assert.Equal(t, ConnectionInfo{
		Sender: netip.MustParseAddr("10.0.0.5"),
		Host:   "svc.local",
		Port:   1234,
	}, got.Info)
	assert.Equal(t, "10.0.0.5:40000", got.Source)
	assert.Equal(t, "10.0.0.7", got.Interface)
	assert.False(t, got.ReceivedAt.IsZero())
	assert.Equal(t, int64(1), metrics.GetStats()["received"])
}

func TestListenerSkipsMalformed(t *testing.T) {
	metrics := NewMetrics()
	c := &collector{}
	listener := NewListener(syntheticBinding(t, "10.0.0.7"), c.handle, metrics, discardLogger())

	listener.handle(context.Background(), []byte("M-SEARCH * HTTP/1.1"), nil)
	listener.handle(context.Background(), []byte(`{"host":"a","port":1}`), nil)
	listener.handle(context.Background(), []byte(`{"sender":"10.0.0.1","host":"a","port":1}`), nil)

	require.Len(t, c.got, 1)
	assert.Equal(t, "", c.got[0].Source)
	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats["malformed"])
	assert.Equal(t, int64(1), stats["received"])
}

func TestAnnouncerDefaultInterval(t *testing.T) {
	a := NewAnnouncer(syntheticBinding(t, "10.0.0.5"), "h", 1, 0, nil, nil)
	assert.Equal(t, DefaultInterval, a.interval)
	assert.Equal(t, netip.MustParseAddr("10.0.0.5"), a.Info().Sender)
}

func TestAnnouncerToListenerOverLoopback(t *testing.T) {
	params := testParams(t)
	coordinator := NewCoordinator()
	metrics := NewMetrics()

	lb, err := NewBinding(loopback, params, coordinator, discardLogger())
	require.NoError(t, err)
	probe, err := lb.OpenReceiver(context.Background())
	if err != nil {
		t.Skipf("multicast is not available on loopback: %v", err)
	}
	probe.Close()

	received := make(chan Announcement, 16)
	listener := NewListener(lb, func(_ context.Context, a Announcement) {
		select {
		case received <- a:
		default:
		}
	}, metrics, discardLogger())

	ab, err := NewBinding(loopback, params, nil, discardLogger())
	require.NoError(t, err)
	announcer := NewAnnouncer(ab, "svc.local", 1234, params.Interval, metrics, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunAll(ctx, []Task{{Name: "listen", Run: listener.Run}, {Name: "announce", Run: announcer.Run}})
	}()

	select {
	case a := <-received:
		assert.Equal(t, "svc.local", a.Info.Host)
		assert.Equal(t, uint16(1234), a.Info.Port)
		assert.Equal(t, netip.MustParseAddr("127.0.0.1"), a.Info.Sender)
	case err := <-done:
		cancel()
		t.Skipf("discovery run ended before delivery: %v", err)
	case <-time.After(3 * time.Second):
		cancel()
		<-done
		t.Skip("no multicast delivery on loopback in this environment")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not stop after cancel")
	}
	assert.GreaterOrEqual(t, metrics.GetStats()["sent"].(int64), int64(1))
}
