package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"multicaster/internal/util/logger/sl"
)

// Journal сохраняет полученные анонсы
type Journal interface {
	Save(ctx context.Context, a Announcement) error
}

// Manager собирает задачи одного запуска: привязки, координатор, метрики
type Manager struct {
	params   Params
	log      *slog.Logger
	metrics  *Metrics
	journal  Journal
	handlers []Handler
}

type Option func(*Manager)

// WithJournal сохраняет каждый полученный анонс в журнал
func WithJournal(j Journal) Option {
	return func(m *Manager) {
		m.journal = j
	}
}

// WithHandler добавляет обработчик полученных анонсов
func WithHandler(h Handler) Option {
	return func(m *Manager) {
		m.handlers = append(m.handlers, h)
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager создает менеджер обнаружения
func NewManager(params Params, log *slog.Logger, opts ...Option) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		params:  params,
		log:     log.With(slog.String("component", "discovery")),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Metrics счетчики менеджера
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// RunServer анонсирует host:port на каждом интерфейсе до первой ошибки
func (m *Manager) RunServer(ctx context.Context, ifaces []net.IP, host string, port uint16) error {
	const op = "discovery.Manager.RunServer"
	log := m.log.With(slog.String("op", op))

	tasks, err := Plan(ifaces, func(iface net.IP) (Task, error) {
		b, err := NewBinding(iface, m.params, nil, m.log)
		if err != nil {
			return Task{}, err
		}
		a := NewAnnouncer(b, host, port, m.params.Interval, m.metrics, m.log)
		return Task{Name: "announce@" + iface.String(), Run: a.Run}, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("Starting announcers",
		slog.Int("tasks", len(tasks)),
		slog.String("service", net.JoinHostPort(host, fmt.Sprint(port))),
	)
	return m.finish(log, RunAll(ctx, tasks))
}

// RunClient слушает группу на каждом интерфейсе. Координатор создается
// на каждый запуск и общий только для его слушателей.
func (m *Manager) RunClient(ctx context.Context, ifaces []net.IP) error {
	const op = "discovery.Manager.RunClient"
	log := m.log.With(slog.String("op", op))

	coordinator := NewCoordinator()
	tasks, err := Plan(ifaces, func(iface net.IP) (Task, error) {
		b, err := NewBinding(iface, m.params, coordinator, m.log)
		if err != nil {
			return Task{}, err
		}
		l := NewListener(b, m.dispatch, m.metrics, m.log)
		return Task{Name: "listen@" + iface.String(), Run: l.Run}, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("Starting listeners", slog.Int("tasks", len(tasks)))
	return m.finish(log, RunAll(ctx, tasks))
}

func (m *Manager) dispatch(ctx context.Context, a Announcement) {
	if m.journal != nil {
		if err := m.journal.Save(ctx, a); err != nil {
			m.log.Error("Failed to save announcement", sl.Err(err))
		}
	}
	for _, h := range m.handlers {
		h(ctx, a)
	}
}

func (m *Manager) finish(log *slog.Logger, err error) error {
	stats := m.metrics.GetStats()
	attrs := []any{
		slog.Any("bindings", stats["bindings"]),
		slog.Any("sent", stats["sent"]),
		slog.Any("received", stats["received"]),
		slog.Any("malformed", stats["malformed"]),
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Discovery run failed", append(attrs, sl.Err(err))...)
		return err
	}
	log.Info("Discovery run finished", attrs...)
	return err
}
