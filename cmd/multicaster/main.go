package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	cliplugins "multicaster/internal/cli_plugins"
	"multicaster/internal/config"
	"multicaster/internal/util/logger/handlers/slogpretty"
	"multicaster/pkg/cli"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	// Контекст отменяется по сигналу ОС
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cliplugins.NewAppContext(nil, nil)

	CLI := cli.NewCLI("multicaster", "Peer discovery over IPv4 multicast")
	root := CLI.Root()
	root.PersistentFlags().String("config", "", "path to config file (or CONFIG_PATH)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		flagValue, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(config.FetchConfigPath(flagValue))
		if err != nil {
			return err
		}
		app.Config = cfg
		app.Log = setupLogger(cfg.Env, os.Stderr)
		app.Log.Debug("config loaded", slog.String("env", cfg.Env), slog.String("command", cmd.Name()))
		return nil
	}

	CLI.RegisterPlugin(cliplugins.NewServerCommand(app))
	CLI.RegisterPlugin(cliplugins.NewClientCommand(app))
	CLI.RegisterPlugin(cliplugins.NewHistoryCommand(app))
	CLI.RegisterPlugin(cliplugins.NewInterfacesCommand(app))

	err := CLI.Run(ctx, os.Args[1:])
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func setupLogger(env string, writer io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(writer)
	case envDev:
		log = slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return log
}

func setupPrettySlog(writer io.Writer) *slog.Logger {
	noColor := true
	if f, ok := writer.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}

	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
		NoColor: noColor,
	}

	handler := opts.NewPrettyHandler(writer)

	return slog.New(handler)
}
