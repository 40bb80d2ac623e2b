// Package match answers "which actions does this input drive?" against
// the merged binding tree.
//
// A Query is either symbolic (an input token such as "kb1_a" or
// "js1_hat1") or numeric (a button number on a device prefix, as the
// joystick overlay asks). Matches are returned custom-first, then
// defaults, keeping tree order within each group.
package match

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/stickbind/internal/binding"
)

// Query describes what to look for.
type Query struct {
	// Input is a symbolic token. A binding matches when its base input
	// equals Input or extends it with a "_" suffix, so "js1_hat1"
	// matches "js1_hat1_up".
	Input string

	// Button and Prefix form a numeric query: button Button on device
	// Prefix ("js1"). Used when Input is empty.
	Button int
	Prefix string

	// Type restricts matching to bindings of one device class.
	// Unknown derives it from Input or Prefix.
	Type binding.InputType
}

// Filters narrow a result set.
type Filters struct {
	// HideDefaults drops default bindings.
	HideDefaults bool

	// Modifier keeps only bindings held with this modifier ("lalt").
	Modifier string

	// Category keeps only action maps of this category.
	Category string
}

// Match is one binding that answered a query.
type Match struct {
	ActionMap      string
	Action         string
	Input          string
	ActionLabel    string
	MapLabel       string
	IsDefault      bool
	Modifiers      []string
	MultiTap       *int
	ActivationMode string
}

// Search returns every binding in maps that answers q, after filters.
func Search(q Query, maps []binding.ActionMap, f Filters) []Match {
	m := compile(q)
	if m == nil {
		return nil
	}

	wantMod := strings.ToLower(strings.TrimSpace(f.Modifier))
	var out []Match
	for _, am := range maps {
		if f.Category != "" && !strings.EqualFold(am.Category, f.Category) {
			continue
		}
		for _, a := range am.Actions {
			for _, b := range a.Bindings {
				if f.HideDefaults && b.IsDefault {
					continue
				}
				mods, base := binding.SplitModifiers(strings.ToLower(strings.TrimSpace(b.Input)))
				if base == "" || binding.IsCleared(base) {
					continue
				}
				if m.typ != binding.Unknown && binding.TypeOf(base) != m.typ {
					continue
				}
				if !m.matches(base) {
					continue
				}
				if wantMod != "" && !contains(mods, wantMod) {
					continue
				}
				out = append(out, Match{
					ActionMap:      am.Name,
					Action:         a.Name,
					Input:          b.Input,
					ActionLabel:    actionLabel(a, mods),
					MapLabel:       am.DisplayLabel(),
					IsDefault:      b.IsDefault,
					Modifiers:      mods,
					MultiTap:       b.MultiTap,
					ActivationMode: b.ActivationMode,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].IsDefault && out[j].IsDefault
	})
	return out
}

type matcher struct {
	typ     binding.InputType
	input   string
	numeric *regexp.Regexp
}

func compile(q Query) *matcher {
	input := strings.ToLower(strings.TrimSpace(q.Input))
	if input != "" {
		_, input = binding.SplitModifiers(input)
		typ := q.Type
		if typ == binding.Unknown {
			typ, _ = binding.DeviceOf(input)
		}
		return &matcher{typ: typ, input: input}
	}

	prefix := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(q.Prefix)), "_")
	if q.Button < 1 || prefix == "" {
		return nil
	}
	typ := q.Type
	if typ == binding.Unknown {
		typ, _ = binding.DeviceOf(prefix + "_")
	}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `_?button` + strconv.Itoa(q.Button) + `($|_)`)
	return &matcher{typ: typ, numeric: re}
}

func (m *matcher) matches(base string) bool {
	if m.numeric != nil {
		if strings.Contains(base, "axis") || strings.Contains(base, "hat") {
			return false
		}
		return m.numeric.MatchString(base)
	}
	return base == m.input || strings.HasPrefix(base, m.input+"_")
}

func actionLabel(a binding.Action, mods []string) string {
	label := a.DisplayLabel()
	if len(mods) > 0 {
		names := make([]string, len(mods))
		for i, m := range mods {
			names[i] = strings.ToUpper(m)
		}
		label = strings.Join(names, "+") + " + " + label
	}
	if a.OnHold {
		label += " (Hold)"
	}
	return label
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Source provides the current merged binding tree.
type Source interface {
	Profile() binding.Profile
}

// Matcher runs queries against whatever tree its source currently holds.
type Matcher struct {
	src Source
}

// New creates a Matcher over src.
func New(src Source) *Matcher {
	return &Matcher{src: src}
}

// Search runs q against the current tree.
func (m *Matcher) Search(q Query, f Filters) []Match {
	return Search(q, m.src.Profile().ActionMaps, f)
}
