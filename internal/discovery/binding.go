package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"multicaster/internal/netiface"

	"golang.org/x/net/ipv4"
)

// Binding один multicast-сокет, привязанный к одному локальному интерфейсу.
// Сокет принадлежит только этой привязке и закрывается вместе с задачей.
type Binding struct {
	Interface   net.IP
	Group       net.IP
	Port        int
	TTL         int
	Coordinator *Coordinator

	log *slog.Logger
	// lookup находит net.Interface по адресу, подменяется в тестах
	lookup func(net.IP) (*net.Interface, error)
}

// NewBinding создает привязку для адреса iface
func NewBinding(iface net.IP, params Params, coordinator *Coordinator, log *slog.Logger) (*Binding, error) {
	const op = "discovery.NewBinding"

	ip4 := iface.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("%s: interface %s: %w", op, iface, ErrNotIPv4)
	}
	group := params.Group.To4()
	if group == nil || !group.IsMulticast() {
		return nil, fmt.Errorf("%s: group %s: %w", op, params.Group, ErrInvalidGroup)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Binding{
		Interface:   ip4,
		Group:       group,
		Port:        params.Port,
		TTL:         params.TTL,
		Coordinator: coordinator,
		log:         log.With(slog.String("interface", ip4.String())),
		lookup:      netiface.InterfaceByAddr,
	}, nil
}

// GroupAddr адрес назначения анонсов
func (b *Binding) GroupAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: b.Group, Port: b.Port}
}

// OpenSender привязывает сокет к interface:0, выбирает исходящий интерфейс,
// вступает в группу и поднимает TTL.
func (b *Binding) OpenSender(ctx context.Context) (*net.UDPConn, error) {
	const op = "discovery.Binding.OpenSender"
	log := b.log.With(slog.String("op", op))

	ifi, err := b.lookup(b.Interface)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var lc net.ListenConfig
	pc, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort(b.Interface.String(), "0"))
	if err != nil {
		return nil, fmt.Errorf("%s: bind: %w", op, err)
	}
	conn := pc.(*net.UDPConn)
	log.Info("Bound sender socket", slog.String("local", conn.LocalAddr().String()))

	p := ipv4.NewPacketConn(conn)
	if err := b.configure(p, ifi); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := p.SetMulticastTTL(b.TTL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: set ttl %d: %w", op, b.TTL, err)
	}
	log.Debug("Multicast TTL set", slog.Int("ttl", b.TTL))

	return conn, nil
}

// OpenReceiver под разрешением координатора привязывает сокет к общему
// порту рандеву с SO_REUSEADDR, выбирает интерфейс и вступает в группу.
func (b *Binding) OpenReceiver(ctx context.Context) (*net.UDPConn, error) {
	const op = "discovery.Binding.OpenReceiver"
	log := b.log.With(slog.String("op", op))

	if b.Coordinator == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoCoordinator)
	}
	release, err := b.Coordinator.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: acquire: %w", op, err)
	}
	defer release()

	ifi, err := b.lookup(b.Interface)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lc := net.ListenConfig{Control: receiverControl}
	bindIP := receiverBindIP(b.Interface, b.Group)
	pc, err := lc.ListenPacket(ctx, "udp4", net.JoinHostPort(bindIP.String(), strconv.Itoa(b.Port)))
	if err != nil {
		return nil, fmt.Errorf("%s: bind: %w", op, err)
	}
	conn := pc.(*net.UDPConn)
	log.Info("Bound receiver socket", slog.String("local", conn.LocalAddr().String()))

	if err := b.configure(ipv4.NewPacketConn(conn), ifi); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return conn, nil
}

// configure выбирает исходящий интерфейс и вступает в группу на нем.
// Для wildcard-адреса ifi равен nil и используется интерфейс по умолчанию.
func (b *Binding) configure(p *ipv4.PacketConn, ifi *net.Interface) error {
	if ifi != nil {
		if err := p.SetMulticastInterface(ifi); err != nil {
			return fmt.Errorf("set multicast interface %s: %w", ifi.Name, err)
		}
	}
	if err := p.JoinGroup(ifi, &net.UDPAddr{IP: b.Group}); err != nil {
		return fmt.Errorf("join group %s: %w", b.Group, err)
	}
	b.log.Info("Joined multicast group", slog.String("group", b.Group.String()))
	return nil
}
