package discovery

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockJournal implements Journal for testing
type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Save(ctx context.Context, a Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func TestManagerEmptyInterfaceList(t *testing.T) {
	m := NewManager(DefaultParams(), discardLogger())

	assert.NoError(t, m.RunClient(context.Background(), nil))
	assert.NoError(t, m.RunServer(context.Background(), []net.IP{}, "svc.local", 1234))
	assert.Equal(t, int64(0), m.Metrics().GetStats()["bindings"])
}

func TestManagerRejectsBadGroup(t *testing.T) {
	params := DefaultParams()
	params.Group = net.IPv4(192, 168, 0, 1)
	m := NewManager(params, discardLogger())

	err := m.RunServer(context.Background(), []net.IP{loopback}, "svc.local", 1234)
	assert.ErrorIs(t, err, ErrInvalidGroup)

	err = m.RunClient(context.Background(), []net.IP{loopback})
	assert.ErrorIs(t, err, ErrInvalidGroup)
}

func TestManagerDispatch(t *testing.T) {
	a := Announcement{
		Info:   ConnectionInfo{Sender: netip.MustParseAddr("10.0.0.5"), Host: "svc.local", Port: 1234},
		Source: "10.0.0.5:40000",
	}

	journal := new(MockJournal)
	journal.On("Save", mock.Anything, a).Return(errors.New("disk full")).Once()

	var handled []Announcement
	m := NewManager(DefaultParams(), discardLogger(),
		WithJournal(journal),
		WithHandler(func(_ context.Context, got Announcement) { handled = append(handled, got) }),
	)

	m.dispatch(context.Background(), a)

	journal.AssertExpectations(t)
	require.Len(t, handled, 1)
	assert.Equal(t, a, handled[0])
}

func TestManagerWithMetrics(t *testing.T) {
	metrics := NewMetrics()
	m := NewManager(DefaultParams(), nil, WithMetrics(metrics))
	assert.Same(t, metrics, m.Metrics())
}
