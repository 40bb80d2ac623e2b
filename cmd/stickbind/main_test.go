package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/stickbind/internal/app"
)

const defaultsXML = `<?xml version="1.0" encoding="UTF-8"?>
<ActionMaps>
 <actionmap name="spaceship_weapons" version="1" UILabel="Weapons">
  <action name="v_attack1" UILabel="Fire Group 1" keyboard="" mouse="mouse1" joystick="button1" gamepad="" />
  <action name="v_attack2" UILabel="Fire Group 2" keyboard="" mouse="mouse2" joystick="button2" gamepad="" />
 </actionmap>
 <actionmap name="spaceship_general" version="1" UILabel="Ship General">
  <action name="v_lights" UILabel="Lights" keyboard="a" mouse="" joystick="" gamepad="" />
 </actionmap>
</ActionMaps>
`

// testEnv writes defaults and a config file and returns the flags that
// point at them.
func testEnv(t *testing.T) (dir string, flags []string) {
	t.Helper()
	dir = t.TempDir()
	defaults := filepath.Join(dir, "defaults.xml")
	if err := os.WriteFile(defaults, []byte(defaultsXML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := fmt.Sprintf("[paths]\nprefs = %q\n\n[log]\nlevel = \"error\"\n", filepath.Join(dir, "prefs.json"))
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, []string{
		"--config", cfgPath,
		"--defaults", defaults,
		"--profile", filepath.Join(dir, "profile.xml"),
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearch(t *testing.T) {
	_, flags := testEnv(t)

	out, err := execute(t, "", append(flags, "search", "a")...)
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, "Lights") || !strings.Contains(out, "default") {
		t.Errorf("search output = %q, want the default Lights binding", out)
	}

	out, err = execute(t, "", append(flags, "search", "--device", "js1", "--button", "2")...)
	if err != nil {
		t.Fatalf("numeric search error = %v", err)
	}
	if !strings.Contains(out, "Fire Group 2") {
		t.Errorf("numeric search output = %q, want Fire Group 2", out)
	}
}

func TestSearchNeedsQuery(t *testing.T) {
	_, flags := testEnv(t)
	if _, err := execute(t, "", append(flags, "search", "--device", "js1")...); err == nil {
		t.Error("search without input or button should fail")
	}
}

func TestBindSavesProfile(t *testing.T) {
	dir, flags := testEnv(t)

	out, err := execute(t, "", append(flags, "bind", "spaceship_weapons", "v_attack1", "--input", "js1_button5")...)
	if err != nil {
		t.Fatalf("bind error = %v (%s)", err, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "profile.xml")); err != nil {
		t.Fatalf("profile not written: %v", err)
	}

	out, err = execute(t, "", append(flags, "search", "js1_button5", "--hide-defaults")...)
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, "Fire Group 1") || !strings.Contains(out, "custom") {
		t.Errorf("search after bind = %q, want custom Fire Group 1", out)
	}
}

func TestBindConflictDeclined(t *testing.T) {
	_, flags := testEnv(t)

	if _, err := execute(t, "", append(flags, "bind", "spaceship_weapons", "v_attack1", "--input", "js1_button5")...); err != nil {
		t.Fatalf("first bind error = %v", err)
	}
	out, err := execute(t, "n\n", append(flags, "bind", "spaceship_weapons", "v_attack2", "--input", "js1_button5")...)
	if !errors.Is(err, app.ErrRejected) {
		t.Fatalf("bind error = %v, want ErrRejected", err)
	}
	if !strings.Contains(out, "Bind anyway?") {
		t.Errorf("output = %q, want a conflict prompt", out)
	}

	if _, err := execute(t, "y\n", append(flags, "bind", "spaceship_weapons", "v_attack2", "--input", "js1_button5")...); err != nil {
		t.Fatalf("accepted bind error = %v", err)
	}
}

func TestConflicts(t *testing.T) {
	_, flags := testEnv(t)

	out, err := execute(t, "", append(flags, "conflicts", "js1_button5")...)
	if err != nil {
		t.Fatalf("conflicts error = %v", err)
	}
	if !strings.Contains(out, "No conflicts") {
		t.Errorf("conflicts output = %q", out)
	}

	if _, err := execute(t, "", append(flags, "bind", "spaceship_weapons", "v_attack1", "--input", "js1_button5")...); err != nil {
		t.Fatalf("bind error = %v", err)
	}
	out, err = execute(t, "", append(flags, "conflicts", "js1_button5")...)
	if err != nil {
		t.Fatalf("conflicts error = %v", err)
	}
	if !strings.Contains(out, "Fire Group 1") {
		t.Errorf("conflicts output = %q, want Fire Group 1", out)
	}
}

func TestBindKeySpec(t *testing.T) {
	_, flags := testEnv(t)

	if _, err := execute(t, "", append(flags, "bind", "spaceship_weapons", "v_attack1", "--input", "LAlt+KeyF")...); err != nil {
		t.Fatalf("bind error = %v", err)
	}
	out, err := execute(t, "", append(flags, "search", "lalt+kb1_f", "--hide-defaults")...)
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, "Fire Group 1") {
		t.Errorf("search after key spec bind = %q, want Fire Group 1", out)
	}
}

func TestClearAll(t *testing.T) {
	_, flags := testEnv(t)

	if _, err := execute(t, "", append(flags, "bind", "spaceship_weapons", "v_attack1", "--input", "js1_button5")...); err != nil {
		t.Fatalf("bind error = %v", err)
	}
	out, err := execute(t, "", append(flags, "clear-all")...)
	if err != nil {
		t.Fatalf("clear-all error = %v (%s)", err, out)
	}
	out, err = execute(t, "", append(flags, "search", "js1_button5")...)
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if strings.Contains(out, "Fire Group 1") {
		t.Errorf("search after clear-all = %q, want no custom binding", out)
	}
}

func TestUnbindProfile(t *testing.T) {
	dir, flags := testEnv(t)
	path := filepath.Join(dir, "UNBIND_ALL.xml")

	if _, err := execute(t, "", append(flags, "unbind-profile", "write", path, "--device", "js1,kb1")...); err != nil {
		t.Fatalf("unbind-profile write error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `input="js1_ "`) || !strings.Contains(string(data), `input="kb1_ "`) {
		t.Errorf("unbind profile = %s", data)
	}

	if _, err := execute(t, "", append(flags, "unbind-profile", "write", path, "--device", "wheel1")...); err == nil {
		t.Error("unknown device should fail")
	}

	if _, err := execute(t, "", append(flags, "bind", "spaceship_weapons", "v_attack1", "--input", "js1_button5")...); err != nil {
		t.Fatalf("bind error = %v", err)
	}
	_, err = execute(t, "", append(flags, "unbind-profile", "remove", filepath.Join(dir, "profile.xml"))...)
	if !errors.Is(err, app.ErrNotUnbindProfile) {
		t.Errorf("removing the user profile error = %v, want ErrNotUnbindProfile", err)
	}

	if _, err := execute(t, "", append(flags, "unbind-profile", "remove", path)...); err != nil {
		t.Fatalf("unbind-profile remove error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("unbind profile still present: %v", err)
	}
}

func TestPrefs(t *testing.T) {
	_, flags := testEnv(t)

	if _, err := execute(t, "", append(flags, "search", "a", "--modifier", "lalt", "--save-filters")...); err != nil {
		t.Fatalf("search error = %v", err)
	}
	out, err := execute(t, "", append(flags, "prefs")...)
	if err != nil {
		t.Fatalf("prefs error = %v", err)
	}
	if !strings.Contains(out, `"modifier": "lalt"`) {
		t.Errorf("prefs output = %q, want the saved modifier filter", out)
	}
}

func TestBindUnknownAction(t *testing.T) {
	_, flags := testEnv(t)
	if _, err := execute(t, "", append(flags, "bind", "spaceship_weapons", "v_nope", "--input", "js1_button5")...); err == nil {
		t.Error("binding an unknown action should fail")
	}
}

func TestMapDeviceValidation(t *testing.T) {
	_, flags := testEnv(t)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"slot", []string{"map-device", "2", "1"}, false},
		{"disabled", []string{"map-device", "3", "disabled"}, false},
		{"none", []string{"map-device", "2", "none"}, false},
		{"bad physical", []string{"map-device", "zero", "1"}, true},
		{"bad slot", []string{"map-device", "2", "9"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append(flags, tt.args...)...)
			if (err != nil) != tt.wantErr {
				t.Errorf("map-device error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := execute(t, "", "--log-level", "loud", "version"); err == nil {
		t.Error("invalid log level should fail")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "stickbind "+version) {
		t.Errorf("version output = %q", out)
	}
}
