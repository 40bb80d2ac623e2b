package device

import (
	"strconv"
	"sync"

	"github.com/dshills/stickbind/internal/input/joystick"
)

// ProfileConverter names numeric axes from each device's axis profile.
// It implements ident.AxisConverter.
type ProfileConverter struct {
	db *Database

	mu    sync.RWMutex
	names map[string]string // "js1" -> product name
}

// NewProfileConverter creates a converter for the given devices.
func NewProfileConverter(db *Database, devices []joystick.Info) *ProfileConverter {
	c := &ProfileConverter{db: db}
	c.SetDevices(devices)
	return c
}

// SetDevices replaces the known devices.
func (c *ProfileConverter) SetDevices(devices []joystick.Info) {
	names := make(map[string]string, len(devices))
	for _, d := range devices {
		names[d.Type.Prefix()+strconv.Itoa(d.ID)] = d.Name
	}
	c.mu.Lock()
	c.names = names
	c.mu.Unlock()
}

// ConvertAxis implements ident.AxisConverter. Unknown devices use the
// default profile.
func (c *ProfileConverter) ConvertAxis(device string, index int, _ string) (string, bool) {
	if c.db == nil {
		return "", false
	}
	c.mu.RLock()
	name := c.names[device]
	c.mu.RUnlock()

	_, profile, err := c.db.ProfileFor(name)
	if err != nil {
		return "", false
	}
	axis, ok := profile[index]
	return axis, ok
}
