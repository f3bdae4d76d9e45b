package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/wsjtxmon/internal/config"
	"github.com/danmuck/wsjtxmon/internal/monitor"
	"github.com/danmuck/wsjtxmon/internal/protocol"
	"github.com/danmuck/wsjtxmon/internal/protocol/qcolor"
	"github.com/spf13/cobra"
)

type highlightOptions struct {
	bg, fg         string
	bgRGBA, fgRGBA string
	allPeriods     bool
	clear          bool
}

func newHighlightCmd(root *rootOptions) *cobra.Command {
	opts := &highlightOptions{}
	udp := &monitorOptions{}
	cmd := &cobra.Command{
		Use:   "highlight CALL",
		Short: "Highlight a callsign in the WSJT-X band activity window",
		Long: `Wait for one datagram to learn where WSJT-X is, then send a highlight
request for CALL. Colours are preset names (` + strings.Join(qcolor.Names(), ", ") + `)
or packed 0xRRGGBBAA values.

Examples:
  wsjtxmon highlight K1ABC
  wsjtxmon highlight K1ABC --bg red --fg white --all-periods
  wsjtxmon highlight K1ABC --bg-rgba 0xff800080
  wsjtxmon highlight K1ABC --clear`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPeer(cmd, root, udp, func(cfg config.MonitorConfig, m *monitor.Monitor, peer monitor.Peer) error {
				h, err := opts.build(cmd, args[0], cfg.Highlight)
				if err != nil {
					return err
				}
				if err := m.SendHighlight(peer, h); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "highlight %s bg=%s fg=%s -> %s\n", h.Call, h.Background, h.Foreground, peer)
				return nil
			})
		},
	}
	udp.bindUDP(cmd, false)
	opts.bind(cmd)
	return cmd
}

func (o *highlightOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.bg, "bg", "", "background colour name")
	cmd.Flags().StringVar(&o.fg, "fg", "", "foreground colour name")
	cmd.Flags().StringVar(&o.bgRGBA, "bg-rgba", "", "background as 0xRRGGBBAA, wins over --bg")
	cmd.Flags().StringVar(&o.fgRGBA, "fg-rgba", "", "foreground as 0xRRGGBBAA, wins over --fg")
	cmd.Flags().BoolVar(&o.allPeriods, "all-periods", false, "highlight in every period, not just the last")
	cmd.Flags().BoolVar(&o.clear, "clear", false, "remove the highlight")
}

// build resolves the flags over the configured highlight colours.
func (o *highlightOptions) build(cmd *cobra.Command, call string, hc config.HighlightConfig) (protocol.HighlightCall, error) {
	call = strings.ToUpper(strings.TrimSpace(call))
	if call == "" {
		return protocol.HighlightCall{}, protocol.ErrEmptyCall
	}
	if o.clear {
		return protocol.ClearHighlight(call), nil
	}

	flags := cmd.Flags()
	if flags.Changed("bg") {
		hc.Background = o.bg
	}
	if flags.Changed("fg") {
		hc.Foreground = o.fg
	}
	if flags.Changed("all-periods") {
		hc.AllPeriods = o.allPeriods
	}
	opts, err := hc.Options(call)
	if err != nil {
		return protocol.HighlightCall{}, err
	}
	if opts.BackgroundRGBA, err = parseRGBA("bg-rgba", o.bgRGBA); err != nil {
		return protocol.HighlightCall{}, err
	}
	if opts.ForegroundRGBA, err = parseRGBA("fg-rgba", o.fgRGBA); err != nil {
		return protocol.HighlightCall{}, err
	}
	return opts.Resolve(), nil
}

func parseRGBA(flag, raw string) (*uint32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 0, 32)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	packed := uint32(v)
	return &packed, nil
}
