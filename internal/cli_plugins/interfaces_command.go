package cliplugins

import (
	"context"
	"fmt"

	"multicaster/internal/netiface"

	"github.com/spf13/cobra"
)

type InterfacesCommand struct {
	cmd *cobra.Command
	app *AppContext
}

func NewInterfacesCommand(app *AppContext) *InterfacesCommand {
	return &InterfacesCommand{app: app}
}

func (i *InterfacesCommand) Meta() *cobra.Command {
	if i.cmd != nil {
		return i.cmd
	}
	i.cmd = &cobra.Command{
		Use:   "interfaces",
		Short: "List interfaces that discovery would use",
		Args:  cobra.NoArgs,
	}
	i.cmd.Flags().StringSlice("iface", nil, "interface names to use, all by default")
	i.cmd.Flags().Bool("loopback", false, "include loopback interfaces")
	return i.cmd
}

func (i *InterfacesCommand) Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	filter := netiface.Filter{Names: i.app.Config.Discovery.Interfaces}
	if cmd.Flags().Changed("iface") {
		filter.Names, _ = cmd.Flags().GetStringSlice("iface")
	}
	filter.IncludeLoopback, _ = cmd.Flags().GetBool("loopback")

	addrs, err := i.app.Discover(filter)
	if err != nil {
		return err
	}
	for _, a := range addrs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a.Name, a.IP)
	}
	return nil
}
