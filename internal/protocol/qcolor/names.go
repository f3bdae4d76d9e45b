package qcolor

import (
	"fmt"
	"sort"
	"strings"
)

// Name is a preset colour. Values 2 through 19 follow Qt::GlobalColor.
type Name uint8

const (
	Black       Name = 2
	White       Name = 3
	DarkGray    Name = 4
	Gray        Name = 5
	LightGray   Name = 6
	Red         Name = 7
	Green       Name = 8
	Blue        Name = 9
	Cyan        Name = 10
	Magenta     Name = 11
	Yellow      Name = 12
	DarkRed     Name = 13
	DarkGreen   Name = 14
	DarkBlue    Name = 15
	DarkCyan    Name = 16
	DarkMagenta Name = 17
	DarkYellow  Name = 18
	Transparent Name = 19
	Orange      Name = 20
	DarkViolet  Name = 21

	// InvalidName cancels highlighting.
	InvalidName Name = 255
)

type preset struct {
	label   string
	r, g, b uint8
}

var presets = map[Name]preset{
	Black:       {"black", 0x00, 0x00, 0x00},
	White:       {"white", 0xFF, 0xFF, 0xFF},
	DarkGray:    {"dark-gray", 0x80, 0x80, 0x80},
	Gray:        {"gray", 0xA0, 0xA0, 0xA4},
	LightGray:   {"light-gray", 0xC0, 0xC0, 0xC0},
	Red:         {"red", 0xFF, 0x00, 0x00},
	Green:       {"green", 0x00, 0xFF, 0x00},
	Blue:        {"blue", 0x00, 0x00, 0xFF},
	Cyan:        {"cyan", 0x00, 0xFF, 0xFF},
	Magenta:     {"magenta", 0xFF, 0x00, 0xFF},
	Yellow:      {"yellow", 0xFF, 0xFF, 0x00},
	DarkRed:     {"dark-red", 0x80, 0x00, 0x00},
	DarkGreen:   {"dark-green", 0x00, 0x80, 0x00},
	DarkBlue:    {"dark-blue", 0x00, 0x00, 0x80},
	DarkCyan:    {"dark-cyan", 0x00, 0x80, 0x80},
	DarkMagenta: {"dark-magenta", 0x80, 0x00, 0x80},
	DarkYellow:  {"dark-yellow", 0x80, 0x80, 0x00},
	Transparent: {"transparent", 0x00, 0x00, 0x00},
	Orange:      {"orange", 0xFF, 0xA5, 0x00},
	DarkViolet:  {"dark-violet", 0x94, 0x00, 0xD3},
}

func (n Name) String() string {
	if n == InvalidName {
		return "invalid"
	}
	if p, ok := presets[n]; ok {
		return p.label
	}
	return fmt.Sprintf("name(%d)", uint8(n))
}

// FromName returns the opaque preset colour for n.
func FromName(n Name) Color {
	return FromNameAlpha(n, 0xFF)
}

// FromNameAlpha returns the preset colour for n with the given alpha.
// Transparent always has alpha 0 and InvalidName ignores alpha. Names
// outside the table yield black.
func FromNameAlpha(n Name, alpha uint8) Color {
	if n == InvalidName {
		return Invalid()
	}
	p := presets[n]
	c := Color{Spec: SpecRGB, Alpha: uint16(alpha), Red: uint16(p.r), Green: uint16(p.g), Blue: uint16(p.b)}
	if n == Transparent {
		c.Alpha = 0
	}
	return c
}

// ParseName accepts the labels returned by Name.String in any case, with
// '-', '_' or ' ' separators or none at all. "none" is an alias for invalid.
func ParseName(raw string) (Name, error) {
	key := normalize(raw)
	switch key {
	case "invalid", "none":
		return InvalidName, nil
	case "grey":
		return Gray, nil
	}
	for n, p := range presets {
		if normalize(p.label) == key {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownName, raw)
}

// Names lists the preset labels in table order.
func Names() []string {
	keys := make([]int, 0, len(presets))
	for n := range presets {
		keys = append(keys, int(n))
	}
	sort.Ints(keys)
	out := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, presets[Name(k)].label)
	}
	return append(out, InvalidName.String())
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
