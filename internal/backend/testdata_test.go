package backend

import (
	"strings"
	"testing"
)

const allBindsXML = `<?xml version="1.0" encoding="UTF-8"?>
<ActionMaps>
 <actionmap name="spaceship_weapons" version="1" UILabel="@ui_CGSpaceFlightWeapons" UICategory="@ui_CCSpaceFlight">
  <action name="v_attack1" UILabel="Fire Group 1" Category="Weapons" activationMode="press" keyboard="" mouse="mouse1" joystick="button1" gamepad="" />
  <action name="v_weapon_cycle_fwd" UILabel="Cycle Weapons" onHold="1" keyboard="" mouse="" joystick="" gamepad="" />
 </actionmap>
 <actionmap name="spaceship_general" version="1" UILabel="Ship General">
  <action name="v_eject" UILabel="Eject" keyboard="ralt+y" mouse="" joystick="button3" gamepad="" />
  <action name="v_exit" UILabel="Exit Seat" keyboard="y" mouse="" joystick="" gamepad="" />
 </actionmap>
</ActionMaps>
`

func testDefaults(t *testing.T) *Defaults {
	t.Helper()
	d, err := ParseDefaults(strings.NewReader(allBindsXML))
	if err != nil {
		t.Fatalf("ParseDefaults: %v", err)
	}
	return d
}
