package backend

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/dshills/stickbind/internal/binding"
)

type xmlDefaults struct {
	XMLName xml.Name        `xml:"ActionMaps"`
	Maps    []xmlDefaultMap `xml:"actionmap"`
}

type xmlDefaultMap struct {
	Name       string             `xml:"name,attr"`
	Version    string             `xml:"version,attr"`
	UILabel    string             `xml:"UILabel,attr"`
	UICategory string             `xml:"UICategory,attr"`
	Actions    []xmlDefaultAction `xml:"action"`
}

type xmlDefaultAction struct {
	Name           string `xml:"name,attr"`
	UILabel        string `xml:"UILabel,attr"`
	UIDescription  string `xml:"UIDescription,attr"`
	Category       string `xml:"Category,attr"`
	ActivationMode string `xml:"activationMode,attr"`
	OnHold         string `xml:"onHold,attr"`
	Keyboard       string `xml:"keyboard,attr"`
	Mouse          string `xml:"mouse,attr"`
	Gamepad        string `xml:"gamepad,attr"`
	Joystick       string `xml:"joystick,attr"`
}

// ParseDefaults reads a defaults database document.
func ParseDefaults(r io.Reader) (*Defaults, error) {
	var doc xmlDefaults
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse defaults: %w", err)
	}

	d := &Defaults{Maps: make([]DefaultMap, 0, len(doc.Maps))}
	for _, xm := range doc.Maps {
		m := DefaultMap{
			Name:     xm.Name,
			Version:  xm.Version,
			Label:    xm.UILabel,
			Category: xm.UICategory,
		}
		for _, xa := range xm.Actions {
			m.Actions = append(m.Actions, DefaultAction{
				Name:           xa.Name,
				Label:          xa.UILabel,
				Description:    xa.UIDescription,
				Category:       xa.Category,
				ActivationMode: xa.ActivationMode,
				OnHold:         xa.OnHold == "1",
				Keyboard:       xa.Keyboard,
				Mouse:          xa.Mouse,
				Gamepad:        xa.Gamepad,
				Joystick:       xa.Joystick,
			})
		}
		d.Maps = append(d.Maps, m)
	}
	return d, nil
}

type xmlProfile struct {
	XMLName        xml.Name     `xml:"ActionMaps"`
	Version        string       `xml:"version,attr,omitempty"`
	OptionsVersion string       `xml:"optionsVersion,attr,omitempty"`
	RebindVersion  string       `xml:"rebindVersion,attr,omitempty"`
	ProfileName    string       `xml:"profileName,attr"`
	Header         *xmlHeader   `xml:"CustomisationUIHeader"`
	Options        []xmlOptions `xml:"options"`
	Modifiers      *struct{}    `xml:"modifiers"`
	Maps           []xmlUserMap `xml:"actionmap"`
}

type xmlHeader struct {
	Label       string        `xml:"label,attr"`
	Description string        `xml:"description,attr"`
	Image       string        `xml:"image,attr"`
	Devices     xmlDevices    `xml:"devices"`
	Categories  []xmlCategory `xml:"categories>category,omitempty"`
}

type xmlDevices struct {
	Keyboard []xmlInstance `xml:"keyboard"`
	Mouse    []xmlInstance `xml:"mouse"`
	Joystick []xmlInstance `xml:"joystick"`
}

type xmlInstance struct {
	Instance int `xml:"instance,attr"`
}

type xmlCategory struct {
	Label string `xml:"label,attr"`
}

type xmlOptions struct {
	Type     string `xml:"type,attr"`
	Instance string `xml:"instance,attr"`
	Product  string `xml:"Product,attr"`
}

type xmlUserMap struct {
	Name    string          `xml:"name,attr"`
	Actions []xmlUserAction `xml:"action"`
}

type xmlUserAction struct {
	Name    string      `xml:"name,attr"`
	Rebinds []xmlRebind `xml:"rebind"`
}

type xmlRebind struct {
	Input          string `xml:"input,attr"`
	MultiTap       string `xml:"multiTap,attr,omitempty"`
	ActivationMode string `xml:"activationMode,attr,omitempty"`
}

// ParseProfile reads a user profile document.
func ParseProfile(r io.Reader) (*Profile, error) {
	var doc xmlProfile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}

	p := NewProfile(doc.ProfileName)
	if doc.Header != nil {
		for _, c := range doc.Header.Categories {
			if c.Label != "" {
				p.Categories = append(p.Categories, c.Label)
			}
		}
	}
	for _, o := range doc.Options {
		if o.Type == "joystick" && o.Product != "" {
			p.Joysticks = append(p.Joysticks, o.Product)
		}
	}
	for _, xm := range doc.Maps {
		m := ProfileMap{Name: xm.Name}
		for _, xa := range xm.Actions {
			a := ProfileAction{Name: xa.Name}
			for _, xr := range xa.Rebinds {
				r := Rebind{Input: xr.Input, ActivationMode: xr.ActivationMode}
				if n, err := strconv.Atoi(xr.MultiTap); err == nil {
					r.MultiTap = &n
				}
				a.Rebinds = append(a.Rebinds, r)
			}
			m.Actions = append(m.Actions, a)
		}
		p.Maps = append(p.Maps, m)
	}
	return p, nil
}

// WriteProfile serialises a profile. Only actions that carry rebinds
// are written (cleared entries included, since they suppress defaults)
// and action maps follow the defaults' order when d is given.
func WriteProfile(w io.Writer, p *Profile, d *Defaults) error {
	doc := xmlProfile{
		Version:        "1",
		OptionsVersion: "2",
		RebindVersion:  "2",
		ProfileName:    p.Name,
		Header: &xmlHeader{
			Label: p.Name,
		},
		Modifiers: &struct{}{},
	}

	if p.hasType(binding.Keyboard) {
		doc.Header.Devices.Keyboard = []xmlInstance{{Instance: 1}}
	}
	if p.hasType(binding.Mouse) {
		doc.Header.Devices.Mouse = []xmlInstance{{Instance: 1}}
	}
	for i := 1; i <= max(len(p.Joysticks), 2); i++ {
		doc.Header.Devices.Joystick = append(doc.Header.Devices.Joystick, xmlInstance{Instance: i})
	}
	for i, product := range p.Joysticks {
		doc.Options = append(doc.Options, xmlOptions{
			Type:     "joystick",
			Instance: strconv.Itoa(i + 1),
			Product:  product,
		})
	}
	for _, c := range p.Categories {
		doc.Header.Categories = append(doc.Header.Categories, xmlCategory{Label: c})
	}

	maps := make([]ProfileMap, 0, len(p.Maps))
	for _, m := range p.Maps {
		var actions []ProfileAction
		for _, a := range m.Actions {
			if len(a.Rebinds) > 0 {
				actions = append(actions, a)
			}
		}
		if len(actions) > 0 {
			maps = append(maps, ProfileMap{Name: m.Name, Actions: actions})
		}
	}
	sort.SliceStable(maps, func(i, j int) bool {
		return orderKey(d, maps[i].Name) < orderKey(d, maps[j].Name)
	})

	for _, m := range maps {
		xm := xmlUserMap{Name: m.Name}
		for _, a := range m.Actions {
			xa := xmlUserAction{Name: a.Name}
			for _, r := range a.Rebinds {
				xr := xmlRebind{Input: r.Input, ActivationMode: r.ActivationMode}
				if r.MultiTap != nil {
					xr.MultiTap = strconv.Itoa(*r.MultiTap)
				}
				xa.Rebinds = append(xa.Rebinds, xr)
			}
			xm.Actions = append(xm.Actions, xa)
		}
		doc.Maps = append(doc.Maps, xm)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", " ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func orderKey(d *Defaults, name string) int {
	if i := d.mapIndex(name); i >= 0 {
		return i
	}
	return int(^uint(0) >> 1)
}
