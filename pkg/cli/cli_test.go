package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

type echoCommand struct {
	cmd    *cobra.Command
	gotCtx context.Context
	err    error
}

func (e *echoCommand) Meta() *cobra.Command {
	if e.cmd == nil {
		e.cmd = &cobra.Command{Use: "echo"}
		e.cmd.Flags().StringP("text", "t", "", "text to print")
	}
	return e.cmd
}

func (e *echoCommand) Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	e.gotCtx = ctx
	text, _ := cmd.Flags().GetString("text")
	cmd.Print(text)
	return e.err
}

func TestRunPassesContext(t *testing.T) {
	c := NewCLI("test", "test cli")
	echo := &echoCommand{}
	c.RegisterPlugin(echo)

	var out bytes.Buffer
	c.Root().SetOut(&out)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	require.NoError(t, c.Run(ctx, []string{"echo", "--text", "hello"}))

	assert.Equal(t, "hello", out.String())
	require.NotNil(t, echo.gotCtx)
	assert.Equal(t, "value", echo.gotCtx.Value(ctxKey{}))
}

func TestRunReturnsPluginError(t *testing.T) {
	c := NewCLI("test", "test cli")
	boom := errors.New("boom")
	c.RegisterPlugin(&echoCommand{err: boom})

	err := c.Run(context.Background(), []string{"echo"})
	assert.ErrorIs(t, err, boom)
}

func TestCompletion(t *testing.T) {
	c := NewCLI("test", "test cli")
	c.RegisterPlugin(&echoCommand{})

	var out bytes.Buffer
	c.Root().SetOut(&out)
	require.NoError(t, c.Run(context.Background(), []string{"completion", "zsh"}))
	assert.Contains(t, out.String(), "#compdef test")

	err := NewCLI("test", "").Run(context.Background(), []string{"completion", "tcsh"})
	assert.Error(t, err)
}
