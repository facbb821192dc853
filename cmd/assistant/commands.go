package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/health-assistant/config"
	"github.com/angeloszaimis/health-assistant/internal/healthcheck"
)

func urlCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the backend base URL for this platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.baseURL().String())
			return err
		},
	}
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.newClient()

			start := time.Now()
			err := c.Health(cmd.Context())
			elapsed := time.Since(start)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend:  %s\n", c.Endpoint().BaseURL())
			if err != nil {
				fmt.Fprintln(out, "healthy:  no")
				return err
			}
			fmt.Fprintln(out, "healthy:  yes")
			fmt.Fprintf(out, "latency:  %s\n", elapsed.Round(time.Millisecond))
			return nil
		},
	}
}

func chatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long:  "Start an interactive conversation. Type \"next\" for the next step and \"quit\" to leave.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.newClient()

			if err := c.Health(ctx); err != nil {
				a.log.Warn("Backend not reachable yet",
					slog.String("server", c.Endpoint().BaseURL().String()),
					slog.Any("err", err))
			}
			go healthcheck.HealthCheck(ctx, c.Endpoint(), config.Duration(a.cfg.Client.HealthInterval), a.log)

			return runChat(ctx, c, cmd.InOrStdin(), cmd.OutOrStdout(), a.lang)
		},
	}
}
