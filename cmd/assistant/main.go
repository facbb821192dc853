package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/health-assistant/config"
	"github.com/angeloszaimis/health-assistant/internal/client"
	"github.com/angeloszaimis/health-assistant/internal/environment"
	"github.com/angeloszaimis/health-assistant/internal/platform"
	"github.com/angeloszaimis/health-assistant/pkg/logger"
)

type app struct {
	cfg      *config.Config
	log      *slog.Logger
	platform string
	lang     string
	debug    bool
	in       io.Reader
	out      io.Writer
}

func main() {
	a := &app{in: os.Stdin, out: os.Stdout}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "assistant",
		Short:         "Talk to the first-aid assistant backend",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg == nil {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				a.cfg = cfg
			}

			level := a.cfg.Logging.Level
			if a.debug {
				level = config.LogLevelDebug
			}
			a.log = logger.NewWithWriter(os.Stderr, level, false, a.cfg.Server.Environment)

			if a.platform == "" {
				a.platform = a.cfg.Client.Platform
			}
			return nil
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)

	root.PersistentFlags().StringVar(&a.platform, "platform", "", "Platform to resolve the backend for (android, ios, web); detected when empty")
	root.PersistentFlags().StringVar(&a.lang, "lang", "en", "Conversation language")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(urlCmd(a))
	root.AddCommand(statusCmd(a))
	root.AddCommand(chatCmd(a))

	return root
}

func (a *app) baseURL() environment.BaseURL {
	return resolveBaseURL(a.platform)
}

// resolveBaseURL answers the process-wide address unless a platform is
// forced, in which case it resolves as if running there.
func resolveBaseURL(name string) environment.BaseURL {
	if name == "" {
		return environment.APIBaseURL()
	}
	return environment.NewResolver(platform.Parse(name)).BaseURL()
}

func (a *app) newClient() *client.Client {
	return client.New(a.baseURL(),
		client.WithTimeout(config.Duration(a.cfg.Client.Timeout)),
		client.WithBreaker(a.cfg.Client.BreakerThreshold, config.Duration(a.cfg.Client.BreakerTimeout)),
		client.WithLogger(a.log),
	)
}
