package backend

import (
	"strings"

	"github.com/dshills/stickbind/internal/binding"
)

// merge order of device classes when defaults are filled in
var defaultOrder = []binding.InputType{binding.Keyboard, binding.Gamepad, binding.Joystick, binding.Mouse}

// defaultInput prefixes a default input with its device ("kb1_space").
func defaultInput(t binding.InputType, value string) string {
	return t.Prefix() + "1_" + value
}

// Merge overlays a user profile on the defaults database. A nil
// profile yields the defaults alone.
func Merge(d *Defaults, user *Profile) binding.Profile {
	out := binding.Profile{Name: "Defaults"}
	if user != nil {
		out.Name = user.Name
	}

	seen := make(map[string]bool)
	if d != nil {
		for _, dm := range d.Maps {
			seen[dm.Name] = true
			am := binding.ActionMap{Name: dm.Name, Label: dm.Label, Category: dm.Category}
			for _, da := range dm.Actions {
				var rebinds []Rebind
				if user != nil {
					if pa := user.findAction(dm.Name, da.Name); pa != nil {
						rebinds = pa.Rebinds
					}
				}
				am.Actions = append(am.Actions, mergeAction(da, rebinds))
			}
			out.ActionMaps = append(out.ActionMaps, am)
		}
	}

	// Profile maps the defaults do not know about are kept as-is.
	if user != nil {
		for _, pm := range user.Maps {
			if seen[pm.Name] {
				continue
			}
			am := binding.ActionMap{Name: pm.Name}
			for _, pa := range pm.Actions {
				am.Actions = append(am.Actions, mergeAction(DefaultAction{Name: pa.Name}, pa.Rebinds))
			}
			out.ActionMaps = append(out.ActionMaps, am)
		}
	}
	return out
}

func mergeAction(da DefaultAction, rebinds []Rebind) binding.Action {
	a := binding.Action{
		Name:         da.Name,
		Label:        da.Label,
		Description:  da.Description,
		Category:     da.Category,
		OnHold:       da.OnHold,
		IsCustomized: len(rebinds) > 0,
	}

	custom := make(map[binding.InputType]bool)
	for _, r := range rebinds {
		b := binding.Binding{
			Input:          r.Input,
			MultiTap:       r.MultiTap,
			ActivationMode: r.ActivationMode,
		}
		if binding.IsCleared(r.Input) {
			t, _ := binding.DeviceOf(r.Input)
			custom[t] = true
			b.Type = binding.Unknown
			b.IsDefault = true
			if def := da.Default(t); def != "" {
				b.OriginalDefault = binding.DisplayName(defaultInput(t, def))
				b.DisplayName = b.OriginalDefault
			} else {
				b.DisplayName = "Unbound"
			}
		} else {
			b.Type = binding.TypeOf(r.Input)
			b.DisplayName = binding.DisplayName(r.Input)
			custom[b.Type] = true
		}
		a.Bindings = append(a.Bindings, b)
	}

	for _, t := range defaultOrder {
		if custom[t] {
			continue
		}
		def := da.Default(t)
		if def == "" {
			continue
		}
		in := defaultInput(t, def)
		a.Bindings = append(a.Bindings, binding.Binding{
			Input:       in,
			DisplayName: binding.DisplayName(in),
			Type:        t,
			IsDefault:   true,
		})
	}

	if len(a.Bindings) == 0 {
		a.Bindings = append(a.Bindings, binding.Binding{
			Input:       "kb1_ ",
			DisplayName: "Unbound",
			Type:        binding.Unknown,
			IsDefault:   true,
		})
	}
	return a
}

// hasDefault reports whether an action has a default for a device class.
func hasDefault(da *DefaultAction, t binding.InputType) bool {
	return da != nil && strings.TrimSpace(da.Default(t)) != ""
}
