package main

import (
	"io"

	"github.com/danmuck/wsjtxmon/internal/config"
	"github.com/danmuck/wsjtxmon/internal/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose    bool
	configPath string
	out        io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out}
	mon := &monitorOptions{}

	root := &cobra.Command{
		Use:   "wsjtxmon",
		Short: "Monitor and drive a WSJT-X instance over its UDP protocol",
		Long: `wsjtxmon listens for the datagrams WSJT-X sends to its UDP server port,
prints every decoded message and can send highlight, reply and control
commands back to the instance it heard from.

Running wsjtxmon without a subcommand is the same as "wsjtxmon monitor".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.ConfigureRuntime()
			logging.SetVerbose(opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd, opts, mon)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	mon.bind(root)

	root.AddCommand(
		newMonitorCmd(opts),
		newHighlightCmd(opts),
		newSendCmd(opts),
		newDecodeCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// loadConfig reads the config file, or the defaults when none was given.
func (o *rootOptions) loadConfig() (config.MonitorConfig, error) {
	return config.Load(o.configPath)
}
