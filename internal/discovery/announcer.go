package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"time"

	"multicaster/internal/util/logger/sl"
)

// Announcer периодически рассылает ConnectionInfo в группу через одну привязку
type Announcer struct {
	binding  *Binding
	host     string
	port     uint16
	interval time.Duration
	metrics  *Metrics
	log      *slog.Logger
}

// NewAnnouncer создает рассыльщика; host и port адрес анонсируемого сервиса
func NewAnnouncer(b *Binding, host string, port uint16, interval time.Duration, metrics *Metrics, log *slog.Logger) *Announcer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Announcer{
		binding:  b,
		host:     host,
		port:     port,
		interval: interval,
		metrics:  metrics,
		log:      log.With(slog.String("role", string(RoleServer)), slog.String("interface", b.Interface.String())),
	}
}

// Info запись, которую рассылает этот рассыльщик
func (a *Announcer) Info() ConnectionInfo {
	sender, _ := netip.AddrFromSlice(a.binding.Interface.To4())
	return ConnectionInfo{
		Sender: sender,
		Host:   a.host,
		Port:   a.port,
	}
}

// Payload сериализованная запись; она не меняется в течение запуска
func (a *Announcer) Payload() ([]byte, error) {
	return Encode(a.Info())
}

// Run настраивает сокет и отправляет анонс раз в interval до ошибки или отмены ctx.
// Ошибка отправки фатальна, повторов нет.
func (a *Announcer) Run(ctx context.Context) error {
	const op = "discovery.Announcer.Run"
	log := a.log.With(slog.String("op", op))

	conn, err := a.binding.OpenSender(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	a.metrics.RecordBinding()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	payload, err := a.Payload()
	if err != nil {
		return err
	}

	dst := a.binding.GroupAddr()
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		if _, err := conn.WriteToUDP(payload, dst); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("Failed to send announcement", sl.Err(err))
			return fmt.Errorf("%s: send to %s: %w", op, dst, err)
		}
		a.metrics.RecordSent()
		log.Debug("Broadcasting connection info",
			slog.String("group", dst.String()),
			slog.String("host", a.host),
			slog.Int("port", int(a.port)),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
