package ident

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/stickbind/internal/binding"
)

// Canonical is a normalised binding token.
type Canonical string

// String returns the token.
func (c Canonical) String() string { return string(c) }

// Context controls the optional rewrites Normalize applies.
type Context struct {
	// TargetPrefix, when set ("js2"), replaces the js<N>/gp<N> device
	// prefix of the input.
	TargetPrefix string

	// Converter, when set, is asked to name numeric axes.
	Converter AxisConverter
}

var (
	devicePrefixRe = regexp.MustCompile(`^(kb|js|gp|mouse|mo)(\d*)$`)
	numericAxisRe  = regexp.MustCompile(`^axis(\d+)(?:_(positive|negative|pos|neg))?$`)
)

// Normalize converts a raw identifier into its canonical token.
func Normalize(raw string, ctx Context) (Canonical, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	mods, extra, base := splitSegments(s)
	if base == "" || binding.IsCleared(base) || binding.IsModifier(base) {
		return "", false
	}

	device, rest, ok := strings.Cut(base, "_")
	if ok {
		device = normalizeDevice(device, ctx.TargetPrefix)
		rest = convertAxis(device, rest, ctx.Converter)
		base = device + "_" + rest
	}

	var b strings.Builder
	for _, m := range mods {
		b.WriteString(m)
		b.WriteByte('+')
	}
	for _, e := range extra {
		b.WriteString(e)
		b.WriteByte('+')
	}
	b.WriteString(base)
	return Canonical(b.String()), true
}

// splitSegments separates known modifiers (deduplicated, canonical
// order), unknown prefix segments (original order) and the base input.
// The base is the last segment carrying a device prefix, which lets
// suffix forms like "kb_u+lshift" normalise the same as "lshift+kb_u"
// while keeping the result stable when normalised again.
func splitSegments(s string) (mods, extra []string, base string) {
	parts := strings.Split(s, "+")
	baseIdx := len(parts) - 1
	for i := len(parts) - 1; i >= 0; i-- {
		if strings.Contains(strings.TrimSpace(parts[i]), "_") {
			baseIdx = i
			break
		}
	}
	base = strings.TrimSpace(parts[baseIdx])

	seen := make(map[string]bool)
	for i, p := range parts {
		if i == baseIdx {
			continue
		}
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		if binding.IsModifier(p) {
			mods = append(mods, p)
		} else {
			extra = append(extra, p)
		}
	}
	sort.SliceStable(mods, func(i, j int) bool {
		return binding.ModifierRank(mods[i]) < binding.ModifierRank(mods[j])
	})
	return mods, extra, base
}

func normalizeDevice(device, target string) string {
	m := devicePrefixRe.FindStringSubmatch(device)
	if m == nil {
		return device
	}
	kind, num := m[1], m[2]
	if num == "" {
		num = "1"
	}
	switch kind {
	case "mo", "mouse":
		return "mouse" + num
	case "js", "gp":
		if t := normalizeTarget(target); t != "" {
			return t
		}
	}
	return kind + num
}

func normalizeTarget(target string) string {
	t := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(target)), "_")
	m := devicePrefixRe.FindStringSubmatch(t)
	if m == nil || (m[1] != "js" && m[1] != "gp") {
		return ""
	}
	if m[2] == "" {
		return m[1] + "1"
	}
	return t
}

func convertAxis(device, rest string, conv AxisConverter) string {
	if conv == nil {
		return rest
	}
	m := numericAxisRe.FindStringSubmatch(rest)
	if m == nil {
		return rest
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil {
		return rest
	}
	name, ok := conv.ConvertAxis(device, idx, direction(m[2]))
	name = strings.ToLower(strings.TrimSpace(name))
	// A converter answer that is itself numeric would convert again on
	// the next pass.
	if !ok || name == "" || numericAxisRe.MatchString(name) || strings.ContainsAny(name, "+ ") {
		return rest
	}
	return name
}

func direction(s string) string {
	switch s {
	case "pos":
		return "positive"
	case "neg":
		return "negative"
	default:
		return s
	}
}

// Display renders a canonical token for humans. Empty tokens render as
// "Unbound".
func Display(c Canonical) string {
	return binding.DisplayName(string(c))
}

// DevicePrefix returns the device part of a token ("js2" for
// "lalt+js2_button1"), or "" when there is none.
func DevicePrefix(c Canonical) string {
	_, base := binding.SplitModifiers(string(c))
	device, _, ok := strings.Cut(base, "_")
	if !ok {
		return ""
	}
	return device
}

// WithDevicePrefix replaces the device part of a token.
func WithDevicePrefix(c Canonical, prefix string) Canonical {
	mods, base := binding.SplitModifiers(string(c))
	_, rest, ok := strings.Cut(base, "_")
	if !ok {
		return c
	}
	var b strings.Builder
	for _, m := range mods {
		b.WriteString(m)
		b.WriteByte('+')
	}
	b.WriteString(prefix)
	b.WriteByte('_')
	b.WriteString(rest)
	return Canonical(b.String())
}
