package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/triquad/triquad/server"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		address   string
		port      int
		staticDir string
	)

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web front-end and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Server
			flags := cmd.Flags()
			if flags.Changed("address") {
				cfg.Address = address
			}
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("static") {
				cfg.StaticDir = staticDir
			}

			fmt.Fprintf(cmd.ErrOrStderr(), banner, version())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(cfg, a.loader(), a.log).Run(ctx)
		},
	}

	c.Flags().StringVar(&address, "address", "", "listen address (overrides server.address)")
	c.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port and PORT)")
	c.Flags().StringVar(&staticDir, "static", "", "serve the front-end from this directory")
	return c
}
