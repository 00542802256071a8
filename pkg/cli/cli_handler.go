package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// CompletionCommand генерирует скрипт автодополнения для оболочки
type CompletionCommand struct {
	cmd  *cobra.Command
	root *cobra.Command
}

func NewCompletionCommand(root *cobra.Command) *CompletionCommand {
	return &CompletionCommand{root: root}
}

func (c *CompletionCommand) Meta() *cobra.Command {
	if c.cmd == nil {
		c.cmd = &cobra.Command{
			Use:       "completion [bash|zsh|fish|powershell]",
			Short:     "Generate completion script",
			Long:      "Generate completion script for bash, zsh, fish, powershell",
			ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
			Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		}
	}
	return c.cmd
}

func (c *CompletionCommand) Execute(_ context.Context, cmd *cobra.Command, args []string) error {
	shell := "bash"
	if len(args) > 0 {
		shell = args[0]
	}
	// source <(./multicaster completion zsh)
	switch shell {
	case "bash":
		return c.root.GenBashCompletion(cmd.OutOrStdout())
	case "zsh":
		return c.root.GenZshCompletion(cmd.OutOrStdout())
	case "fish":
		return c.root.GenFishCompletion(cmd.OutOrStdout(), true)
	case "powershell":
		return c.root.GenPowerShellCompletion(cmd.OutOrStdout())
	default:
		return fmt.Errorf("unsupported shell: %s", shell)
	}
}
