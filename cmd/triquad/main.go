package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/triquad/triquad/catalog"
	"github.com/triquad/triquad/internal/config"
	"github.com/triquad/triquad/internal/httpclient"
	"github.com/triquad/triquad/internal/logger"
)

const banner = `
┌┬┐┬─┐┬┌─┐ ┬ ┬┌─┐┌┬┐
 │ ├┬┘││─┼┐│ │├─┤ ││
 ┴ ┴└─┴└─┘└└─┘┴ ┴─┴┘

Quadrature rules on triangles.
    Version: %s

`

// pipeName is the file name that indicates stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

func version() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand shares once flags are parsed.
type app struct {
	configPath string
	debug      bool

	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "triquad",
		Short:        "Integrate functions over triangles with tabulated quadrature rules",
		Long:         fmt.Sprintf(banner, version()),
		Version:      version(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		a.serveCmd(),
		a.renderCmd(),
		a.calcCmd(),
		a.catalogCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Log.Debug = true
	}
	log, err := logger.New(cmd.ErrOrStderr(), logger.Config{
		Format: cfg.Log.Format,
		Debug:  cfg.Log.Debug,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) loader() *catalog.Loader {
	c := a.cfg.Catalog
	client := httpclient.New(httpclient.WithTimeout(c.Timeout))
	return catalog.NewLoader(c.RemoteURL, c.LocalPath, c.Timeout, client, a.log)
}
