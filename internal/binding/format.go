package binding

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var namePrefixes = []string{"v_", "pc_", "ui_", "spectate_"}

var abbreviations = map[string]string{
	"mfd":  "MFD",
	"fps":  "FPS",
	"esp":  "ESP",
	"vjoy": "VJoy",
	"mgv":  "MGV",
	"hud":  "HUD",
	"ifcs": "IFCS",
	"vtol": "VTOL",
	"ptu":  "PTU",
	"atc":  "ATC",
}

// FormatDisplayName turns an internal action or map name into a label:
//
//	v_toggle_mfd_power  -> Toggle MFD Power
//	spaceship_general   -> Spaceship General
//	pc_SelectTarget     -> Select Target
//	v_strafe_up         -> Strafe UP
func FormatDisplayName(name string) string {
	if name == "" {
		return ""
	}
	for _, p := range namePrefixes {
		name = strings.TrimPrefix(name, p)
	}

	title := cases.Title(language.English)
	var words []string
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		words = append(words, formatWord(part, title))
	}
	return strings.Join(words, " ")
}

func formatWord(part string, title cases.Caser) string {
	if abbr, ok := abbreviations[strings.ToLower(part)]; ok {
		return abbr
	}
	switch strings.ToLower(part) {
	case "up", "down", "left", "right", "x", "y", "z":
		return strings.ToUpper(part)
	case "1to1":
		return "1:1"
	}

	hasUpper := strings.IndexFunc(part, unicode.IsUpper) >= 0
	hasLower := strings.IndexFunc(part, unicode.IsLower) >= 0
	switch {
	case hasUpper && !hasLower:
		return part
	case hasUpper && hasLower:
		return splitCamel(part)
	default:
		return title.String(part)
	}
}

// splitCamel inserts spaces at word boundaries of a camel or Pascal
// case word. Runs of capitals stay together ("HTMLParser" -> "HTML Parser").
func splitCamel(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
