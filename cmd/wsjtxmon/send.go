package main

import (
	"fmt"

	"github.com/danmuck/wsjtxmon/internal/config"
	"github.com/danmuck/wsjtxmon/internal/monitor"
	"github.com/danmuck/wsjtxmon/internal/protocol"
	"github.com/spf13/cobra"
)

func newSendCmd(root *rootOptions) *cobra.Command {
	udp := &monitorOptions{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a control command to WSJT-X",
		Long: `Wait for one datagram to learn where WSJT-X is, then send a single
control command to it.

Examples:
  wsjtxmon send replay
  wsjtxmon send free-text "CQ TEST K1ABC" --send
  wsjtxmon send configure --mode FT8 --rx-df 1500`,
	}
	udp.bindUDP(cmd, true)

	// leaf wraps a command builder into a cobra RunE.
	leaf := func(build func(cmd *cobra.Command, args []string) (protocol.Command, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			command, err := build(cmd, args)
			if err != nil {
				return err
			}
			return withPeer(cmd, root, udp, func(_ config.MonitorConfig, m *monitor.Monitor, peer monitor.Peer) error {
				if err := m.SendCommand(peer, command); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", command.Type(), peer)
				return nil
			})
		}
	}

	var window uint8
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear decode windows (0 band activity, 1 rx frequency, 2 both)",
		Args:  cobra.NoArgs,
		RunE: leaf(func(*cobra.Command, []string) (protocol.Command, error) {
			if window > 2 {
				return nil, fmt.Errorf("--window must be 0, 1 or 2")
			}
			w := window
			return protocol.Clear{Window: &w}, nil
		}),
	}
	clearCmd.Flags().Uint8Var(&window, "window", 0, "window to clear")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Ask WSJT-X to resend its band activity",
		Args:  cobra.NoArgs,
		RunE: leaf(func(*cobra.Command, []string) (protocol.Command, error) {
			return protocol.Replay{}, nil
		}),
	}

	var autoOnly bool
	haltCmd := &cobra.Command{
		Use:   "halt",
		Short: "Halt transmission",
		Args:  cobra.NoArgs,
		RunE: leaf(func(*cobra.Command, []string) (protocol.Command, error) {
			return protocol.HaltTx{AutoTxOnly: autoOnly}, nil
		}),
	}
	haltCmd.Flags().BoolVar(&autoOnly, "auto-only", false, "only disable auto tx")

	var sendNow bool
	freeTextCmd := &cobra.Command{
		Use:   "free-text TEXT",
		Short: "Set the free text message",
		Args:  cobra.ExactArgs(1),
		RunE: leaf(func(_ *cobra.Command, args []string) (protocol.Command, error) {
			return protocol.FreeText{Text: args[0], Send: sendNow}, nil
		}),
	}
	freeTextCmd.Flags().BoolVar(&sendNow, "send", false, "transmit it at the next opportunity")

	locationCmd := &cobra.Command{
		Use:   "location GRID",
		Short: "Set the station grid for this session",
		Args:  cobra.ExactArgs(1),
		RunE: leaf(func(_ *cobra.Command, args []string) (protocol.Command, error) {
			return protocol.Location{Grid: args[0]}, nil
		}),
	}

	switchCmd := &cobra.Command{
		Use:   "switch-config NAME",
		Short: "Switch to a named WSJT-X configuration",
		Args:  cobra.ExactArgs(1),
		RunE: leaf(func(_ *cobra.Command, args []string) (protocol.Command, error) {
			return protocol.SwitchConfig{Name: args[0]}, nil
		}),
	}

	cfgOpts := &configureOptions{}
	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Change mode, offsets or DX station; unset flags are left alone",
		Args:  cobra.NoArgs,
		RunE: leaf(func(cmd *cobra.Command, _ []string) (protocol.Command, error) {
			return cfgOpts.build(cmd), nil
		}),
	}
	cfgOpts.bind(configureCmd)

	cmd.AddCommand(clearCmd, replayCmd, haltCmd, freeTextCmd, locationCmd, switchCmd, configureCmd)
	return cmd
}

type configureOptions struct {
	mode, subMode    string
	freqTolerance    uint32
	trPeriod         uint32
	rxDF             uint32
	dxCall, dxGrid   string
	fastMode         bool
	generateMessages bool
}

func (o *configureOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.mode, "mode", "", "mode, e.g. FT8")
	cmd.Flags().StringVar(&o.subMode, "submode", "", "submode")
	cmd.Flags().Uint32Var(&o.freqTolerance, "freq-tolerance", 0, "frequency tolerance in Hz")
	cmd.Flags().Uint32Var(&o.trPeriod, "tr-period", 0, "T/R period in seconds")
	cmd.Flags().Uint32Var(&o.rxDF, "rx-df", 0, "rx audio offset in Hz")
	cmd.Flags().StringVar(&o.dxCall, "dx-call", "", "DX callsign")
	cmd.Flags().StringVar(&o.dxGrid, "dx-grid", "", "DX grid")
	cmd.Flags().BoolVar(&o.fastMode, "fast", false, "fast mode")
	cmd.Flags().BoolVar(&o.generateMessages, "generate", false, "regenerate standard messages")
}

func (o *configureOptions) build(cmd *cobra.Command) protocol.Configure {
	flags := cmd.Flags()
	c := protocol.Configure{
		Mode:             o.mode,
		SubMode:          o.subMode,
		DXCall:           o.dxCall,
		DXGrid:           o.dxGrid,
		FastMode:         o.fastMode,
		GenerateMessages: o.generateMessages,
	}
	if flags.Changed("freq-tolerance") {
		v := o.freqTolerance
		c.FreqTolerance = &v
	}
	if flags.Changed("tr-period") {
		v := o.trPeriod
		c.TRPeriod = &v
	}
	if flags.Changed("rx-df") {
		v := o.rxDF
		c.RxDF = &v
	}
	return c
}
