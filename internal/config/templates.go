package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Render writes cfg in the layout Load reads.
func Render(cfg MonitorConfig) ([]byte, error) {
	out, err := toml.Marshal(toFile(cfg))
	if err != nil {
		return nil, fmt.Errorf("config render failed: %w", err)
	}
	return out, nil
}

// WriteTemplate writes the default configuration to path.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	data, err := Render(DefaultMonitorConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func toFile(cfg MonitorConfig) fileConfig {
	return fileConfig{
		ID: cfg.ID,
		UDP: fileUDP{
			Addr:       cfg.UDP.Addr,
			Port:       cfg.UDP.Port,
			Timeout:    cfg.UDP.Timeout.String(),
			BufferSize: cfg.UDP.BufferSize,
		},
		Highlight: fileHighlight{
			Background: cfg.Highlight.Background,
			Foreground: cfg.Highlight.Foreground,
			AllPeriods: cfg.Highlight.AllPeriods,
		},
		Admin: fileAdmin{
			Enabled:      cfg.Admin.Enabled,
			Addr:         cfg.Admin.Addr,
			CorsOrigins:  cfg.Admin.CorsOrigins,
			MaxWSClients: cfg.Admin.MaxWSClients,
			Token:        cfg.Admin.Token,
		},
		Decodes: fileDecodes{Capacity: cfg.Decodes.Capacity},
	}
}
