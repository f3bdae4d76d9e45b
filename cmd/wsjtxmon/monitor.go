package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/wsjtxmon/internal/admin"
	"github.com/danmuck/wsjtxmon/internal/config"
	"github.com/danmuck/wsjtxmon/internal/decodes"
	"github.com/danmuck/wsjtxmon/internal/logging"
	"github.com/danmuck/wsjtxmon/internal/monitor"
	"github.com/danmuck/wsjtxmon/internal/protocol"
	"github.com/spf13/cobra"
)

type monitorOptions struct {
	addr    string
	port    int
	timeout time.Duration
	json    bool
	admin   bool
}

func (o *monitorOptions) bind(cmd *cobra.Command) {
	o.bindUDP(cmd, false)
	cmd.Flags().BoolVar(&o.json, "json", false, "print one JSON object per message")
	cmd.Flags().BoolVar(&o.admin, "admin", false, "serve the admin API")
}

// bindUDP adds the socket flags, inherited by subcommands when persistent.
func (o *monitorOptions) bindUDP(cmd *cobra.Command, persistent bool) {
	fs := cmd.Flags()
	if persistent {
		fs = cmd.PersistentFlags()
	}
	fs.StringVarP(&o.addr, "addr", "a", "127.0.0.1", "UDP address to bind")
	fs.IntVarP(&o.port, "port", "p", 2237, "UDP port to bind")
	fs.DurationVarP(&o.timeout, "timeout", "t", 16*time.Second, "receive timeout")
}

// apply lays explicitly set flags over cfg.
func (o *monitorOptions) apply(cmd *cobra.Command, cfg *config.MonitorConfig) error {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.UDP.Addr = o.addr
	}
	if flags.Changed("port") {
		cfg.UDP.Port = o.port
	}
	if flags.Changed("timeout") {
		cfg.UDP.Timeout = o.timeout
	}
	if flags.Changed("admin") {
		cfg.Admin.Enabled = o.admin
	}
	return config.Validate(*cfg)
}

func newMonitorCmd(root *rootOptions) *cobra.Command {
	opts := &monitorOptions{}
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Print every message received from WSJT-X",
		Long: `Bind the UDP port and print each message as it arrives. The loop ends
when WSJT-X sends Close, on a socket error or on interrupt.

Examples:
  wsjtxmon monitor
  wsjtxmon monitor -a 0.0.0.0 -p 2237 -t 30s
  wsjtxmon monitor --json --admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd, root, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runMonitor(cmd *cobra.Command, root *rootOptions, opts *monitorOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if err := opts.apply(cmd, &cfg); err != nil {
		return err
	}

	logger := logging.New("wsjtxmon")
	m, err := monitor.Listen(cfg.UDP, protocol.NewCodec(cfg.ID), logging.New("monitor"))
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.UDP.Address(), err)
	}
	defer m.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *admin.Server
	var serveErr chan error
	if cfg.Admin.Enabled {
		board := decodes.NewBoard(cfg.Decodes.Capacity)
		srv = admin.New(cfg.ID, cfg.Admin, cfg.Highlight, board, m, logging.New("admin"))
		if err := srv.Listen(); err != nil {
			return err
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		serveErr = make(chan error, 1)
		go func() {
			err := srv.Serve(ctx)
			if err != nil {
				cancel()
			}
			serveErr <- err
		}()
	}

	logger.Info().Str("addr", m.LocalAddr().String()).Dur("timeout", cfg.UDP.Timeout).Bool("admin", cfg.Admin.Enabled).Msg("monitor_start")
	out := printer{out: cmd.OutOrStdout(), json: opts.json}
	err = m.Run(ctx, func(ev monitor.Event) error {
		if srv != nil {
			srv.Observe(ev)
		}
		return out.event(ev)
	})
	stop()
	if serveErr != nil {
		if serr := <-serveErr; serr != nil && err == nil {
			err = serr
		}
	}
	logger.Info().Err(err).Msg("monitor_stop")
	return err
}

// awaitPeer reads datagrams until one arrives from a WSJT-X instance.
func awaitPeer(ctx context.Context, m *monitor.Monitor) (monitor.Peer, error) {
	for {
		ev, err := m.Next(ctx)
		if err != nil {
			return monitor.Peer{}, err
		}
		if peer, ok := m.LastPeer(); ok {
			return peer, nil
		}
		if _, ok := ev.Message.(protocol.Timeout); ok {
			return monitor.Peer{}, fmt.Errorf("no datagram from WSJT-X: %w", monitor.ErrNoPeer)
		}
	}
}

// withPeer binds the configured port, waits for the peer and calls fn.
func withPeer(cmd *cobra.Command, root *rootOptions, udp *monitorOptions, fn func(cfg config.MonitorConfig, m *monitor.Monitor, peer monitor.Peer) error) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if err := udp.apply(cmd, &cfg); err != nil {
		return err
	}
	m, err := monitor.Listen(cfg.UDP, protocol.NewCodec(cfg.ID), logging.New("monitor"))
	if err != nil {
		return fmt.Errorf("bind %s: %w", cfg.UDP.Address(), err)
	}
	defer m.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	peer, err := awaitPeer(ctx, m)
	if err != nil {
		return err
	}
	return fn(cfg, m, peer)
}
