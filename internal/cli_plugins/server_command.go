package cliplugins

import (
	"context"
	"fmt"

	"multicaster/internal/discovery"

	"github.com/spf13/cobra"
)

type ServerCommand struct {
	cmd *cobra.Command
	app *AppContext
}

func NewServerCommand(app *AppContext) *ServerCommand {
	return &ServerCommand{app: app}
}

func (s *ServerCommand) Meta() *cobra.Command {
	if s.cmd != nil {
		return s.cmd
	}
	s.cmd = &cobra.Command{
		Use:   "server",
		Short: "Announce a service address on the multicast group",
		Long:  "Periodically sends {sender, host, port} on every usable interface until interrupted.",
		Args:  cobra.NoArgs,
	}
	s.cmd.Flags().String("host", "localhost", "advertised service host")
	s.cmd.Flags().Uint16P("port", "p", 1234, "advertised service port")
	s.cmd.Flags().Int("ttl", discovery.DefaultTTL, "multicast TTL of announcements")
	s.cmd.Flags().Duration("interval", discovery.DefaultInterval, "delay between announcements")
	addDiscoveryFlags(s.cmd)
	return s.cmd
}

func (s *ServerCommand) Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	cfg := *s.app.Config
	if err := applyDiscoveryFlags(cmd, &cfg.Discovery); err != nil {
		return err
	}

	host := cfg.Server.Host
	if cmd.Flags().Changed("host") {
		host, _ = cmd.Flags().GetString("host")
	}
	if host == "" {
		return fmt.Errorf("flag --host is required")
	}
	port := uint16(cfg.Server.Port)
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetUint16("port")
	}

	params, err := discoveryParams(cfg.Discovery)
	if err != nil {
		return err
	}
	ifaces, err := s.app.interfaces(cfg.Discovery)
	if err != nil {
		return err
	}

	manager := discovery.NewManager(params, s.app.Log)
	return manager.RunServer(ctx, ifaces, host, port)
}
