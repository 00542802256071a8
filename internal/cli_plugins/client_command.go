package cliplugins

import (
	"context"
	"fmt"
	"io"
	"sync"

	"multicaster/internal/db"
	"multicaster/internal/discovery"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type ClientCommand struct {
	cmd *cobra.Command
	app *AppContext
}

func NewClientCommand(app *AppContext) *ClientCommand {
	return &ClientCommand{app: app}
}

func (c *ClientCommand) Meta() *cobra.Command {
	if c.cmd != nil {
		return c.cmd
	}
	c.cmd = &cobra.Command{
		Use:   "client",
		Short: "Listen for service announcements",
		Long:  "Joins the multicast group on every usable interface and prints each announcement received.",
		Args:  cobra.NoArgs,
	}
	c.cmd.Flags().String("journal", "", "bbolt file to record announcements into")
	addDiscoveryFlags(c.cmd)
	return c.cmd
}

func (c *ClientCommand) Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	cfg := *c.app.Config
	if err := applyDiscoveryFlags(cmd, &cfg.Discovery); err != nil {
		return err
	}
	if cmd.Flags().Changed("journal") {
		cfg.Storage.Path, _ = cmd.Flags().GetString("journal")
	}

	params, err := discoveryParams(cfg.Discovery)
	if err != nil {
		return err
	}
	ifaces, err := c.app.interfaces(cfg.Discovery)
	if err != nil {
		return err
	}

	opts := []discovery.Option{discovery.WithHandler(printer(cmd.OutOrStdout()))}
	if cfg.Storage.Path != "" {
		journal, err := db.NewAnnounceDB(db.Config{Path: cfg.Storage.Path})
		if err != nil {
			return fmt.Errorf("open journal %s: %w", cfg.Storage.Path, err)
		}
		defer journal.Close()
		opts = append(opts, discovery.WithJournal(journal))
	}

	manager := discovery.NewManager(params, c.app.Log, opts...)
	return manager.RunClient(ctx, ifaces)
}

// printer печатает анонсы; обработчик вызывается из нескольких слушателей
func printer(out io.Writer) discovery.Handler {
	var mu sync.Mutex
	addr := color.New(color.FgGreen, color.Bold)
	dim := color.New(color.FgHiBlack)

	return func(_ context.Context, a discovery.Announcement) {
		mu.Lock()
		defer mu.Unlock()
		addr.Fprintf(out, "%s:%d", a.Info.Host, a.Info.Port)
		dim.Fprintf(out, "  sender=%s from=%s via=%s\n", a.Info.Sender, a.Source, a.Interface)
	}
}
