package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/wsjtxmon/internal/decodes"
	"github.com/danmuck/wsjtxmon/internal/protocol"
	"github.com/danmuck/wsjtxmon/internal/protocol/qcolor"
)

// MonitorConfig is the resolved runtime configuration.
type MonitorConfig struct {
	ID        string
	UDP       UDPConfig
	Highlight HighlightConfig
	Admin     AdminConfig
	Decodes   DecodesConfig
}

type UDPConfig struct {
	Addr       string
	Port       int
	Timeout    time.Duration
	BufferSize int
}

// Address joins Addr and Port.
func (u UDPConfig) Address() string {
	return net.JoinHostPort(u.Addr, fmt.Sprint(u.Port))
}

type HighlightConfig struct {
	Background string
	Foreground string
	AllPeriods bool
}

type AdminConfig struct {
	Enabled      bool
	Addr         string
	CorsOrigins  []string
	MaxWSClients int
	// Token, when set, is required on POST routes.
	Token string
}

type DecodesConfig struct {
	Capacity int
}

func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		ID: protocol.DefaultClientID,
		UDP: UDPConfig{
			Addr:       "127.0.0.1",
			Port:       2237,
			Timeout:    16 * time.Second,
			BufferSize: 2048,
		},
		Highlight: HighlightConfig{
			Background: qcolor.Yellow.String(),
			Foreground: qcolor.Black.String(),
		},
		Admin: AdminConfig{
			Addr:         "127.0.0.1:8237",
			CorsOrigins:  []string{"http://localhost:3000"},
			MaxWSClients: 16,
		},
		Decodes: DecodesConfig{Capacity: decodes.DefaultCapacity},
	}
}

// fileConfig mirrors the TOML layout. Durations are strings.
type fileConfig struct {
	ID        string        `toml:"id"`
	UDP       fileUDP       `toml:"udp"`
	Highlight fileHighlight `toml:"highlight"`
	Admin     fileAdmin     `toml:"admin"`
	Decodes   fileDecodes   `toml:"decodes"`
}

type fileUDP struct {
	Addr       string `toml:"addr"`
	Port       int    `toml:"port"`
	Timeout    string `toml:"timeout"`
	BufferSize int    `toml:"buffer_size"`
}

type fileHighlight struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	AllPeriods bool   `toml:"all_periods"`
}

type fileAdmin struct {
	Enabled      bool     `toml:"enabled"`
	Addr         string   `toml:"addr"`
	CorsOrigins  []string `toml:"cors_origins"`
	MaxWSClients int      `toml:"max_ws_clients"`
	Token        string   `toml:"token"`
}

type fileDecodes struct {
	Capacity int `toml:"capacity"`
}

// Load reads path over the defaults and validates the result. An empty
// path returns the validated defaults.
func Load(path string) (MonitorConfig, error) {
	cfg := DefaultMonitorConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, Validate(cfg)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return MonitorConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return MonitorConfig{}, fmt.Errorf("config parse failed (%s): unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("id") {
		cfg.ID = strings.TrimSpace(raw.ID)
	}

	if meta.IsDefined("udp", "addr") {
		cfg.UDP.Addr = strings.TrimSpace(raw.UDP.Addr)
	}
	if meta.IsDefined("udp", "port") {
		cfg.UDP.Port = raw.UDP.Port
	}
	if meta.IsDefined("udp", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.UDP.Timeout))
		if err != nil {
			return MonitorConfig{}, fmt.Errorf("parse udp.timeout: %w", err)
		}
		cfg.UDP.Timeout = d
	}
	if meta.IsDefined("udp", "buffer_size") {
		cfg.UDP.BufferSize = raw.UDP.BufferSize
	}

	if meta.IsDefined("highlight", "background") {
		cfg.Highlight.Background = strings.TrimSpace(raw.Highlight.Background)
	}
	if meta.IsDefined("highlight", "foreground") {
		cfg.Highlight.Foreground = strings.TrimSpace(raw.Highlight.Foreground)
	}
	if meta.IsDefined("highlight", "all_periods") {
		cfg.Highlight.AllPeriods = raw.Highlight.AllPeriods
	}

	if meta.IsDefined("admin", "enabled") {
		cfg.Admin.Enabled = raw.Admin.Enabled
	}
	if meta.IsDefined("admin", "addr") {
		cfg.Admin.Addr = strings.TrimSpace(raw.Admin.Addr)
	}
	if meta.IsDefined("admin", "cors_origins") {
		cfg.Admin.CorsOrigins = normalizeList(raw.Admin.CorsOrigins)
	}
	if meta.IsDefined("admin", "max_ws_clients") {
		cfg.Admin.MaxWSClients = raw.Admin.MaxWSClients
	}
	if meta.IsDefined("admin", "token") {
		cfg.Admin.Token = strings.TrimSpace(raw.Admin.Token)
	}

	if meta.IsDefined("decodes", "capacity") {
		cfg.Decodes.Capacity = raw.Decodes.Capacity
	}

	if err := Validate(cfg); err != nil {
		return MonitorConfig{}, err
	}
	return cfg, nil
}

// ValidationError names the first invalid setting.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

var ErrInvalid = errors.New("config: invalid")

func (e ValidationError) Unwrap() error {
	return ErrInvalid
}

func Validate(cfg MonitorConfig) error {
	if strings.TrimSpace(cfg.ID) == "" {
		return ValidationError{Field: "id", Reason: "is required"}
	}
	if strings.TrimSpace(cfg.UDP.Addr) == "" {
		return ValidationError{Field: "udp.addr", Reason: "is required"}
	}
	if cfg.UDP.Port < 1 || cfg.UDP.Port > 65535 {
		return ValidationError{Field: "udp.port", Reason: fmt.Sprintf("out of range: %d", cfg.UDP.Port)}
	}
	if cfg.UDP.Timeout <= 0 {
		return ValidationError{Field: "udp.timeout", Reason: "must be positive"}
	}
	if cfg.UDP.BufferSize < 12 {
		return ValidationError{Field: "udp.buffer_size", Reason: "must hold at least a frame header"}
	}
	if _, err := qcolor.ParseName(cfg.Highlight.Background); err != nil {
		return ValidationError{Field: "highlight.background", Reason: err.Error()}
	}
	if _, err := qcolor.ParseName(cfg.Highlight.Foreground); err != nil {
		return ValidationError{Field: "highlight.foreground", Reason: err.Error()}
	}
	if cfg.Admin.Enabled && strings.TrimSpace(cfg.Admin.Addr) == "" {
		return ValidationError{Field: "admin.addr", Reason: "is required when admin is enabled"}
	}
	if cfg.Admin.MaxWSClients < 0 {
		return ValidationError{Field: "admin.max_ws_clients", Reason: "must not be negative"}
	}
	if cfg.Decodes.Capacity < 1 {
		return ValidationError{Field: "decodes.capacity", Reason: "must be at least 1"}
	}
	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
