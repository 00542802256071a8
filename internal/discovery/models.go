package discovery

import (
	"context"
	"net"
	"net/netip"
	"time"
)

const (
	DefaultGroup    = "239.0.0.123"
	DefaultPort     = 6772
	DefaultTTL      = 32
	DefaultInterval = 5 * time.Second

	// MaxDatagramSize размер буфера чтения, записи длиннее обрезаются
	MaxDatagramSize = 1024
)

// Role определяет, анонсирует узел себя или слушает анонсы
type Role string

const (
	RoleServer Role = "server"
	RoleClient Role = "client"
)

// ConnectionInfo запись, которую сервер рассылает в multicast-группу
type ConnectionInfo struct {
	// Sender адрес интерфейса, с которого ушел анонс
	Sender netip.Addr `json:"sender"`
	// Host и Port адрес анонсируемого сервиса, а не discovery-сокета
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

// Announcement полученный анонс вместе с транспортными подробностями
type Announcement struct {
	Info       ConnectionInfo `json:"info"`
	Source     string         `json:"source"`
	Interface  string         `json:"interface"`
	ReceivedAt time.Time      `json:"received_at"`
}

// Handler получает каждый успешно разобранный анонс
type Handler func(ctx context.Context, a Announcement)

// Task одна задача discovery, привязанная к одному интерфейсу
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Params параметры рандеву, общие для всех задач одного запуска
type Params struct {
	Group    net.IP
	Port     int
	TTL      int
	Interval time.Duration
}

// DefaultParams возвращает параметры по умолчанию
func DefaultParams() Params {
	return Params{
		Group:    net.ParseIP(DefaultGroup).To4(),
		Port:     DefaultPort,
		TTL:      DefaultTTL,
		Interval: DefaultInterval,
	}
}
