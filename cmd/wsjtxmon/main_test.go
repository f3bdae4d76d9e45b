package main

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/wsjtxmon/internal/config"
	"github.com/danmuck/wsjtxmon/internal/monitor"
	"github.com/danmuck/wsjtxmon/internal/protocol"
	"github.com/danmuck/wsjtxmon/internal/protocol/frame"
	"github.com/danmuck/wsjtxmon/internal/protocol/qcolor"
	"github.com/danmuck/wsjtxmon/internal/protocol/wire"
	"github.com/danmuck/wsjtxmon/internal/testutil/testlog"
	"github.com/spf13/cobra"
)

func datagram(t *testing.T, typ protocol.MessageType, body func(w *wire.Writer)) string {
	t.Helper()
	w := wire.NewWriter(binary.BigEndian, 64)
	w.Raw(frame.EncodeHeader(frame.New(2, uint32(typ)))).Field("WSJT-X")
	if body != nil {
		body(w)
	}
	out, err := w.Bytes()
	if err != nil {
		t.Fatalf("build datagram: %v", err)
	}
	return hex.EncodeToString(out)
}

func decodeHex(t *testing.T) string {
	return datagram(t, protocol.TypeDecode, func(w *wire.Writer) {
		w.Bool(true).Uint32(45000000).Int32(-3).Float64(0.2).Uint32(1500).
			Field("~").Field("CQ K1ABC FN42").Bool(false).Bool(false)
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestFormatDecodeColumns(t *testing.T) {
	testlog.Start(t)
	got := formatMessage(protocol.Decode{
		ID: "WSJT-X", New: true, Time: 45000000, SNR: -3, DeltaTime: 0.2, DeltaFreq: 1500,
		Mode: "~", Text: "CQ K1ABC FN42",
	})
	want := fmt.Sprintf("%-14s * 123000 -03 +0.2 1500 ~ CQ K1ABC FN42", "decode")
	if got != want {
		t.Fatalf("decode line:\n got %q\nwant %q", got, want)
	}
}

func TestFormatOtherMessages(t *testing.T) {
	testlog.Start(t)
	window := uint8(2)
	cases := []struct {
		msg  protocol.Message
		want string
	}{
		{protocol.Close{ID: "WSJT-X"}, fmt.Sprintf("%-14s WSJT-X", "close")},
		{protocol.Clear{ID: "WSJT-X", Window: &window}, fmt.Sprintf("%-14s WSJT-X window=2", "clear")},
		{protocol.Unsupported{Code: 42}, fmt.Sprintf("%-14s code=42", "unsupported")},
		{protocol.Timeout{}, "timeout"},
	}
	for _, tc := range cases {
		if got := formatMessage(tc.msg); got != tc.want {
			t.Fatalf("format %T: got %q want %q", tc.msg, got, tc.want)
		}
	}
	if got := formatMessage(protocol.Heartbeat{ID: "WSJT-X", MaxSchema: 3, Version: "2.6.1", Revision: "abc"}); !strings.Contains(got, "max_schema=3 version=2.6.1") {
		t.Fatalf("heartbeat line: %q", got)
	}
}

func TestDecodeStreamTextAndErrors(t *testing.T) {
	testlog.Start(t)
	input := strings.Join([]string{
		"# capture",
		"",
		decodeHex(t),
		datagram(t, protocol.TypeClose, nil),
		"zz-not-hex",
	}, "\n")

	var out bytes.Buffer
	err := decodeStream(strings.NewReader(input), &out, protocol.NewCodec(""), false, true)
	if err == nil || !strings.Contains(err.Error(), "line 5") {
		t.Fatalf("expected line 5 error, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "CQ K1ABC FN42") {
		t.Fatalf("decode line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "reply") || !strings.HasPrefix(strings.Fields(lines[1])[1], "adbccbda0000000200000004") {
		t.Fatalf("reply line: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "close") {
		t.Fatalf("close line: %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "error") {
		t.Fatalf("error line: %q", lines[3])
	}
}

func TestDecodeStreamJSON(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	if err := decodeStream(strings.NewReader(decodeHex(t)), &out, protocol.NewCodec(""), true, false); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var line struct {
		Type    string          `json:"type"`
		Schema  uint32          `json:"schema"`
		Message protocol.Decode `json:"message"`
	}
	if err := json.Unmarshal(out.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal %q: %v", out.String(), err)
	}
	if line.Type != "decode" || line.Schema != 2 || line.Message.SNR != -3 || line.Message.Text != "CQ K1ABC FN42" {
		t.Fatalf("unexpected json line: %+v", line)
	}
}

func TestDecodeStreamJSONNonFiniteDeltaTime(t *testing.T) {
	testlog.Start(t)
	nan := datagram(t, protocol.TypeDecode, func(w *wire.Writer) {
		w.Bool(true).Uint32(45000000).Int32(-3).Float64(math.NaN()).Uint32(1500).
			Field("~").Field("CQ K1ABC FN42").Bool(false).Bool(false)
	})
	var out bytes.Buffer
	input := nan + "\n" + decodeHex(t)
	if err := decodeStream(strings.NewReader(input), &out, protocol.NewCodec(""), true, false); err != nil {
		t.Fatalf("decode: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], `"delta_time":"NaN"`) {
		t.Fatalf("nan line: %q", lines[0])
	}
	var line struct {
		Message protocol.Decode `json:"message"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &line); err != nil {
		t.Fatalf("unmarshal %q: %v", lines[0], err)
	}
	if !math.IsNaN(line.Message.DeltaTime) || line.Message.Text != "CQ K1ABC FN42" {
		t.Fatalf("unexpected decode: %+v", line.Message)
	}
	if !strings.Contains(lines[1], `"delta_time":0.2`) {
		t.Fatalf("second line: %q", lines[1])
	}
}

type unencodable struct {
	Value float64
}

func (unencodable) Type() protocol.MessageType { return protocol.TypeDecode }

func TestPrinterReportsEncodeFailurePerLine(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	p := printer{out: &out, json: true}
	bad := monitor.Event{Result: protocol.Result{Message: unencodable{Value: math.Inf(1)}, Schema: 2}}
	if err := p.event(bad); err != nil {
		t.Fatalf("encode failure must not end the stream: %v", err)
	}
	var line jsonLine
	if err := json.Unmarshal(out.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal %q: %v", out.String(), err)
	}
	if line.Type != "error" || line.Schema != 2 || !strings.Contains(line.Error, "encode decode") {
		t.Fatalf("unexpected line: %+v", line)
	}
}

func TestDecodeStreamReportsTruncatedBody(t *testing.T) {
	testlog.Start(t)
	full := decodeHex(t)
	var out bytes.Buffer
	if err := decodeStream(strings.NewReader(full[:len(full)-2]), &out, protocol.NewCodec(""), false, false); err != nil {
		t.Fatalf("decode errors are printed, not returned: %v", err)
	}
	if !strings.HasPrefix(out.String(), "error") || !strings.Contains(out.String(), "off_air") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestDecodeCommandReadsFile(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "capture.hex")
	if err := os.WriteFile(path, []byte(decodeHex(t)+"\n"), 0o600); err != nil {
		t.Fatalf("write capture: %v", err)
	}
	out, err := execute(t, "decode", path)
	if err != nil {
		t.Fatalf("decode command: %v", err)
	}
	if !strings.Contains(out, "CQ K1ABC FN42") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestConfigInitValidateShow(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "wsjtxmon.toml")
	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := execute(t, "config", "init", path); err == nil {
		t.Fatalf("expected init to refuse an existing file")
	}
	if _, err := execute(t, "config", "init", "--force", path); err != nil {
		t.Fatalf("config init --force: %v", err)
	}
	if out, err := execute(t, "config", "validate", path); err != nil || !strings.Contains(out, "validated") {
		t.Fatalf("config validate: %q %v", out, err)
	}
	out, err := execute(t, "-c", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "port = 2237") || !strings.Contains(out, "background = 'yellow'") {
		t.Fatalf("unexpected render:\n%s", out)
	}
}

func TestMonitorFailsFastOnBusyAdminPort(t *testing.T) {
	testlog.Start(t)
	held, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("hold admin port: %v", err)
	}
	defer held.Close()
	spare, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("pick udp port: %v", err)
	}
	udpPort := spare.LocalAddr().(*net.UDPAddr).Port
	spare.Close()

	path := filepath.Join(t.TempDir(), "wsjtxmon.toml")
	body := fmt.Sprintf("[udp]\nport = %d\n\n[admin]\nenabled = true\naddr = %q\n", udpPort, held.Addr().String())
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := execute(t, "-c", path, "monitor")
		done <- err
	}()
	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "admin listen") {
			t.Fatalf("expected admin listen error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("monitor kept running with the admin port taken")
	}
}

func TestHighlightOptionsBuild(t *testing.T) {
	testlog.Start(t)
	newCmd := func(args ...string) (*cobra.Command, *highlightOptions) {
		cmd := &cobra.Command{Use: "highlight"}
		opts := &highlightOptions{}
		opts.bind(cmd)
		if err := cmd.Flags().Parse(args); err != nil {
			t.Fatalf("parse flags: %v", err)
		}
		return cmd, opts
	}
	hc := config.DefaultMonitorConfig().Highlight

	cmd, opts := newCmd()
	h, err := opts.build(cmd, " k1abc ", hc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if h.Call != "K1ABC" || h.Background != qcolor.FromName(qcolor.Yellow) || h.Foreground != qcolor.FromName(qcolor.Black) || !h.LastPeriodOnly {
		t.Fatalf("unexpected defaults: %+v", h)
	}

	cmd, opts = newCmd("--bg", "red", "--fg-rgba", "0x00FF0080", "--all-periods")
	h, err = opts.build(cmd, "K1ABC", hc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if h.Background != qcolor.FromName(qcolor.Red) || h.LastPeriodOnly {
		t.Fatalf("unexpected overrides: %+v", h)
	}
	if got := h.Foreground.RGBA(); got != 0x00FF0080 {
		t.Fatalf("unexpected packed foreground: %#08x", got)
	}

	cmd, opts = newCmd("--clear")
	h, err = opts.build(cmd, "K1ABC", hc)
	if err != nil || !h.Background.IsInvalid() || !h.Foreground.IsInvalid() {
		t.Fatalf("unexpected clear: %+v %v", h, err)
	}

	cmd, opts = newCmd("--bg", "puce")
	if _, err := opts.build(cmd, "K1ABC", hc); err == nil {
		t.Fatalf("expected unknown colour error")
	}
	cmd, opts = newCmd("--bg-rgba", "nope")
	if _, err := opts.build(cmd, "K1ABC", hc); err == nil {
		t.Fatalf("expected bad rgba error")
	}
	cmd, opts = newCmd()
	if _, err := opts.build(cmd, "  ", hc); err == nil {
		t.Fatalf("expected empty call error")
	}
}

func TestConfigureOptionsOnlySetsChangedNumbers(t *testing.T) {
	testlog.Start(t)
	cmd := &cobra.Command{Use: "configure"}
	opts := &configureOptions{}
	opts.bind(cmd)
	if err := cmd.Flags().Parse([]string{"--mode", "FT8", "--rx-df", "1500"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	c := opts.build(cmd)
	if c.Mode != "FT8" || c.RxDF == nil || *c.RxDF != 1500 {
		t.Fatalf("unexpected configure: %+v", c)
	}
	if c.FreqTolerance != nil || c.TRPeriod != nil {
		t.Fatalf("unset numbers must stay nil: %+v", c)
	}
}
