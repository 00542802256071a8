package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"multicaster/internal/util/logger/sl"
)

// Listener принимает анонсы на одной привязке и передает их обработчику.
// Неразобранные датаграммы логируются и пропускаются.
type Listener struct {
	binding *Binding
	handler Handler
	metrics *Metrics
	log     *slog.Logger
}

func NewListener(b *Binding, handler Handler, metrics *Metrics, log *slog.Logger) *Listener {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Listener{
		binding: b,
		handler: handler,
		metrics: metrics,
		log:     log.With(slog.String("role", string(RoleClient)), slog.String("interface", b.Interface.String())),
	}
}

// Run настраивает сокет через координатор и читает датаграммы до ошибки
// приема или отмены ctx.
func (l *Listener) Run(ctx context.Context) error {
	const op = "discovery.Listener.Run"
	log := l.log.With(slog.String("op", op))

	conn, err := l.binding.OpenReceiver(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	l.metrics.RecordBinding()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	log.Info("Listening for announcements", slog.String("group", l.binding.GroupAddr().String()))

	buf := make([]byte, MaxDatagramSize)
	for {
		n, raddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("Failed to receive datagram", sl.Err(err))
			return fmt.Errorf("%s: receive: %w", op, err)
		}
		l.handle(ctx, buf[:n], raddr)
	}
}

func (l *Listener) handle(ctx context.Context, data []byte, raddr *net.UDPAddr) {
	source := ""
	if raddr != nil {
		source = raddr.String()
	}

	info, err := Decode(data)
	if err != nil {
		l.metrics.RecordMalformed()
		l.log.Warn("Discarding malformed announcement",
			slog.String("from", source),
			slog.Int("bytes", len(data)),
			sl.Err(err),
		)
		return
	}
	l.metrics.RecordReceived()
	l.log.Debug("Received announcement",
		slog.String("from", source),
		slog.String("sender", info.Sender.String()),
		slog.String("host", info.Host),
		slog.Int("port", int(info.Port)),
	)

	if l.handler != nil {
		l.handler(ctx, Announcement{
			Info:       info,
			Source:     source,
			Interface:  l.binding.Interface.String(),
			ReceivedAt: time.Now(),
		})
	}
}
