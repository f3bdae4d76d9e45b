package config

import (
	"github.com/danmuck/wsjtxmon/internal/protocol"
	"github.com/danmuck/wsjtxmon/internal/protocol/qcolor"
)

// Options turns the configured colours into highlight options for call.
func (h HighlightConfig) Options(call string) (protocol.HighlightOptions, error) {
	bg, err := qcolor.ParseName(h.Background)
	if err != nil {
		return protocol.HighlightOptions{}, err
	}
	fg, err := qcolor.ParseName(h.Foreground)
	if err != nil {
		return protocol.HighlightOptions{}, err
	}
	return protocol.HighlightOptions{
		Call:       call,
		Background: bg,
		Foreground: fg,
		AllPeriods: h.AllPeriods,
	}, nil
}
