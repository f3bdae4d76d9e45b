package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

const (
	EnvLogLevel     = "WSJTXMON_LOG_LEVEL"
	EnvLogTimestamp = "WSJTXMON_LOG_TIMESTAMP"
	EnvLogNoColor   = "WSJTXMON_LOG_NOCOLOR"
	EnvLogBypass    = "WSJTXMON_LOG_BYPASS"
	EnvLogFormat    = "WSJTXMON_LOG_FORMAT"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Format selects the encoder. Console is for terminals, JSON for
// collectors reading a daemon's stderr.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config is the resolved logger setup for one process.
type Config struct {
	Level     zerolog.Level
	Format    Format
	Timestamp bool
	NoColor   bool
	// Bypass drops all output, used by quiet test runs.
	Bypass bool
	Out    io.Writer
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure installs the profile's logger once per process; later calls
// are no-ops.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		Apply(resolve(profile, os.Getenv))
	})
}

// Apply installs cfg as the global logger and returns it.
func Apply(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Bypass {
		out = io.Discard
	}
	if cfg.Format != FormatJSON {
		console := zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    cfg.NoColor,
			TimeFormat: time.RFC3339,
		}
		if !cfg.Timestamp {
			console.PartsExclude = []string{zerolog.TimestampFieldName}
		}
		out = console
	}

	zerolog.SetGlobalLevel(cfg.Level)
	ctx := zerolog.New(out).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	logger := ctx.Logger()
	log.Logger = logger
	return logger
}

// New returns a child of the global logger tagged with component.
func New(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// SetVerbose lowers the global level to debug.
func SetVerbose(verbose bool) {
	if verbose && zerolog.GlobalLevel() > zerolog.DebugLevel {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func resolve(profile Profile, getenv func(string) string) Config {
	cfg := Config{
		Format:  FormatConsole,
		NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
	}
	if profile == ProfileTest {
		cfg.Level = zerolog.DebugLevel
	} else {
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}

	if lvl, ok := parseLevel(getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if v, ok := parseBool(getenv(EnvLogBypass)); ok {
		cfg.Bypass = v
	}
	switch Format(strings.ToLower(strings.TrimSpace(getenv(EnvLogFormat)))) {
	case FormatJSON:
		cfg.Format = FormatJSON
	case FormatConsole:
		cfg.Format = FormatConsole
	}
	return cfg
}

func parseLevel(raw string) (zerolog.Level, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return zerolog.InfoLevel, false
	case "diagnostics":
		return zerolog.TraceLevel, true
	case "warning":
		return zerolog.WarnLevel, true
	case "off", "none", "disable", "inactive":
		return zerolog.Disabled, true
	}
	lvl, err := zerolog.ParseLevel(raw)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return lvl, true
}

func parseBool(raw string) (bool, bool) {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, false
	}
	return v, true
}
