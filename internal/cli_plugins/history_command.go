package cliplugins

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"multicaster/internal/db"

	"github.com/spf13/cobra"
)

type HistoryCommand struct {
	cmd *cobra.Command
	app *AppContext
}

func NewHistoryCommand(app *AppContext) *HistoryCommand {
	return &HistoryCommand{app: app}
}

func (h *HistoryCommand) Meta() *cobra.Command {
	if h.cmd != nil {
		return h.cmd
	}
	h.cmd = &cobra.Command{
		Use:   "history",
		Short: "Show announcements recorded by the client",
		Args:  cobra.NoArgs,
	}
	h.cmd.Flags().String("journal", "", "bbolt file with recorded announcements")
	h.cmd.Flags().IntP("limit", "n", 20, "number of newest records to show, 0 for all")
	return h.cmd
}

func (h *HistoryCommand) Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	path := h.app.Config.Storage.Path
	if cmd.Flags().Changed("journal") {
		path, _ = cmd.Flags().GetString("journal")
	}
	if path == "" {
		return fmt.Errorf("flag --journal or storage.path is required")
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	journal, err := db.NewAnnounceDB(db.Config{Path: path})
	if err != nil {
		return fmt.Errorf("open journal %s: %w", path, err)
	}
	defer journal.Close()

	records, err := journal.List(ctx, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECEIVED\tSERVICE\tSENDER\tFROM\tVIA")
	for _, r := range records {
		a := r.Announcement
		fmt.Fprintf(w, "%s\t%s:%d\t%s\t%s\t%s\n",
			a.ReceivedAt.Format(time.RFC3339),
			a.Info.Host, a.Info.Port,
			a.Info.Sender,
			a.Source,
			a.Interface,
		)
	}
	return w.Flush()
}
