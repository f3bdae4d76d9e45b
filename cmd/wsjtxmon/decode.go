package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/wsjtxmon/internal/monitor"
	"github.com/danmuck/wsjtxmon/internal/protocol"
	"github.com/spf13/cobra"
)

func newDecodeCmd(root *rootOptions) *cobra.Command {
	var asJSON, showReply bool
	cmd := &cobra.Command{
		Use:   "decode [FILE|-]",
		Short: "Decode hex-encoded datagrams offline",
		Long: `Read hex-encoded datagrams, one per line, and print the decoded messages.
Blank lines and lines starting with # are skipped. Spaces and colons
inside a line are ignored. With no FILE, or when FILE is -, read stdin.

Examples:
  wsjtxmon decode capture.hex
  tcpdump ... | wsjtxmon decode -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			return decodeStream(in, cmd.OutOrStdout(), protocol.NewCodec(cfg.ID), asJSON, showReply)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per message")
	cmd.Flags().BoolVar(&showReply, "reply", false, "also print the reply datagram built for each decode")
	return cmd
}

// decodeStream decodes every hex line of in. Bad lines are reported and
// skipped; the first one is returned once the stream is done.
func decodeStream(in io.Reader, out io.Writer, codec protocol.Codec, asJSON, showReply bool) error {
	p := printer{out: out, json: asJSON}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var firstErr error
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(line)
		datagram, err := hex.DecodeString(line)
		if err != nil {
			err = fmt.Errorf("line %d: %w", lineNo, err)
			fmt.Fprintf(out, "%-14s %v\n", "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		res, err := codec.Decode(datagram)
		ev := monitor.Event{Result: res, Size: len(datagram), Err: err}
		if err := p.event(ev); err != nil {
			return err
		}
		if showReply && len(res.Reply) > 0 {
			fmt.Fprintf(out, "%-14s %s\n", "reply", hex.EncodeToString(res.Reply))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return firstErr
}
