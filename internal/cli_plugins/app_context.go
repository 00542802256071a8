package cliplugins

import (
	"fmt"
	"log/slog"
	"net"

	"multicaster/internal/config"
	"multicaster/internal/discovery"
	"multicaster/internal/netiface"
	"multicaster/internal/util/logger/sl"

	"github.com/spf13/cobra"
)

// AppContext хранит зависимости, которые используются в командах CLI.
// Заполняется в PersistentPreRunE корневой команды.
type AppContext struct {
	Config *config.Config
	Log    *slog.Logger
	// Discover перечисляет интерфейсы, подменяется в тестах
	Discover func(netiface.Filter) ([]netiface.Addr, error)
}

func NewAppContext(cfg *config.Config, log *slog.Logger) *AppContext {
	return &AppContext{
		Config:   cfg,
		Log:      log,
		Discover: netiface.Discover,
	}
}

func addDiscoveryFlags(cmd *cobra.Command) {
	cmd.Flags().String("group", discovery.DefaultGroup, "multicast group address")
	cmd.Flags().Int("discovery-port", discovery.DefaultPort, "multicast port shared by servers and clients")
	cmd.Flags().StringSlice("iface", nil, "interface names to use, all by default")
}

// applyDiscoveryFlags переносит явно заданные флаги поверх конфигурации
func applyDiscoveryFlags(cmd *cobra.Command, d *config.Discovery) error {
	flags := cmd.Flags()
	if flags.Changed("group") {
		v, err := flags.GetString("group")
		if err != nil {
			return err
		}
		d.Group = v
	}
	if flags.Changed("discovery-port") {
		v, err := flags.GetInt("discovery-port")
		if err != nil {
			return err
		}
		d.Port = v
	}
	if flags.Changed("iface") {
		v, err := flags.GetStringSlice("iface")
		if err != nil {
			return err
		}
		d.Interfaces = v
	}
	if flags.Lookup("ttl") != nil && flags.Changed("ttl") {
		v, err := flags.GetInt("ttl")
		if err != nil {
			return err
		}
		d.TTL = v
	}
	if flags.Lookup("interval") != nil && flags.Changed("interval") {
		v, err := flags.GetDuration("interval")
		if err != nil {
			return err
		}
		d.Interval = v
	}
	return nil
}

func discoveryParams(d config.Discovery) (discovery.Params, error) {
	group := net.ParseIP(d.Group).To4()
	if group == nil || !group.IsMulticast() {
		return discovery.Params{}, fmt.Errorf("%w: %q", discovery.ErrInvalidGroup, d.Group)
	}
	if d.Port <= 0 || d.Port > 65535 {
		return discovery.Params{}, fmt.Errorf("%w: discovery port %d out of range", config.ErrInvalidConfig, d.Port)
	}
	if d.TTL < 1 || d.TTL > 255 {
		return discovery.Params{}, fmt.Errorf("%w: ttl %d out of range", config.ErrInvalidConfig, d.TTL)
	}
	return discovery.Params{
		Group:    group,
		Port:     d.Port,
		TTL:      d.TTL,
		Interval: d.Interval,
	}, nil
}

// interfaces перечисляет адреса для discovery. Если подходящих нет и
// разрешен fallback, используется wildcard-адрес.
func (a *AppContext) interfaces(d config.Discovery) ([]net.IP, error) {
	const op = "cliplugins.interfaces"
	log := a.Log.With(slog.String("op", op))

	addrs, err := a.Discover(netiface.Filter{Names: d.Interfaces})
	if err != nil {
		log.Error("Failed to enumerate interfaces", sl.Err(err))
		return nil, err
	}
	for _, addr := range addrs {
		log.Info("Using interface", slog.String("name", addr.Name), slog.String("ip", addr.IP.String()))
	}

	if len(addrs) == 0 && d.FallbackAny {
		log.Warn("No usable interfaces found, falling back to any")
		return []net.IP{net.IPv4zero}, nil
	}
	return netiface.IPs(addrs), nil
}
