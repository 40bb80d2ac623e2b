package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/stickbind/internal/input/joystick"
)

// DeviceSource supplies controller events to the detection backend.
type DeviceSource interface {
	// Devices lists the connected controllers.
	Devices(ctx context.Context) ([]joystick.Info, error)

	// Open starts reading events. The returned channel is closed when the
	// source is exhausted or ctx is done; stop releases the source early.
	Open(ctx context.Context) (events <-chan joystick.RawEvent, stop func(), err error)
}

// ReplaySource replays a scripted sequence of controller events. It
// stands in for hardware on machines without a joystick driver.
type ReplaySource struct {
	Script ReplayScript
}

// ReplayScript is the YAML form of a replay.
type ReplayScript struct {
	Devices []ReplayDevice `yaml:"devices"`
	Events  []ReplayEvent  `yaml:"events"`
}

// ReplayDevice describes one scripted controller. Instances are numbered
// from 1 in list order.
type ReplayDevice struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type,omitempty"`
	Buttons int    `yaml:"buttons"`
	Axes    int    `yaml:"axes"`
	Hats    int    `yaml:"hats"`
}

// ReplayEvent is one scripted event. Exactly one of Button, Axis or Hat
// is set.
type ReplayEvent struct {
	After     time.Duration `yaml:"after"`
	Device    int           `yaml:"device"`
	Button    int           `yaml:"button,omitempty"`
	Release   bool          `yaml:"release,omitempty"`
	Axis      int           `yaml:"axis,omitempty"`
	Value     float64       `yaml:"value,omitempty"`
	Hat       int           `yaml:"hat,omitempty"`
	Direction string        `yaml:"direction,omitempty"`
}

// LoadReplay reads a replay script.
func LoadReplay(r io.Reader) (*ReplaySource, error) {
	var script ReplayScript
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&script); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse replay: %w", err)
	}
	for i, ev := range script.Events {
		if ev.Device < 1 || ev.Device > len(script.Devices) {
			return nil, fmt.Errorf("replay event %d: device %d out of range", i+1, ev.Device)
		}
		set := 0
		for _, n := range []int{ev.Button, ev.Axis, ev.Hat} {
			if n > 0 {
				set++
			}
		}
		if set != 1 {
			return nil, fmt.Errorf("replay event %d: exactly one of button, axis, hat required", i+1)
		}
	}
	return &ReplaySource{Script: script}, nil
}

// LoadReplayFile reads a replay script from disk.
func LoadReplayFile(path string) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadReplay(f)
}

func (s *ReplaySource) deviceType(instance int) joystick.DeviceType {
	d := s.Script.Devices[instance-1]
	switch strings.ToLower(d.Type) {
	case "gamepad":
		return joystick.TypeGamepad
	case "joystick":
		return joystick.TypeJoystick
	default:
		return joystick.ClassifyDevice(d.Name)
	}
}

// Devices implements DeviceSource.
func (s *ReplaySource) Devices(ctx context.Context) ([]joystick.Info, error) {
	out := make([]joystick.Info, 0, len(s.Script.Devices))
	for i, d := range s.Script.Devices {
		out = append(out, joystick.Info{
			ID:          i + 1,
			Name:        d.Name,
			Connected:   true,
			ButtonCount: d.Buttons,
			AxisCount:   d.Axes,
			HatCount:    d.Hats,
			Type:        s.deviceType(i + 1),
		})
	}
	return out, nil
}

// Open implements DeviceSource.
func (s *ReplaySource) Open(ctx context.Context) (<-chan joystick.RawEvent, func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan joystick.RawEvent)

	go func() {
		defer close(ch)
		for _, ev := range s.Script.Events {
			if ev.After > 0 {
				t := time.NewTimer(ev.After)
				select {
				case <-ctx.Done():
					t.Stop()
					return
				case <-t.C:
				}
			}
			select {
			case <-ctx.Done():
				return
			case ch <- s.raw(ev):
			}
		}
	}()

	return ch, cancel, nil
}

func (s *ReplaySource) raw(ev ReplayEvent) joystick.RawEvent {
	r := joystick.RawEvent{
		Instance:   ev.Device,
		DeviceType: s.deviceType(ev.Device),
		DeviceName: s.Script.Devices[ev.Device-1].Name,
		Timestamp:  time.Now(),
	}
	switch {
	case ev.Button > 0:
		r.Kind = joystick.KindButton
		r.Index = ev.Button
		r.Pressed = !ev.Release
	case ev.Axis > 0:
		r.Kind = joystick.KindAxis
		r.Index = ev.Axis
		r.Value = ev.Value
	default:
		r.Kind = joystick.KindHat
		r.Index = ev.Hat
		r.Hat = joystick.HatDirection(strings.ToLower(ev.Direction))
		r.Pressed = ev.Direction != "" && !ev.Release
	}
	return r
}
