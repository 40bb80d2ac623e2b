package match

import (
	"testing"

	"github.com/dshills/stickbind/internal/binding"
)

func bind(input string, isDefault bool) binding.Binding {
	return binding.Binding{Input: input, IsDefault: isDefault, Type: binding.TypeOf(input)}
}

func testMaps() []binding.ActionMap {
	return []binding.ActionMap{
		{
			Name:     "spaceship_weapons",
			Label:    "Weapons",
			Category: "Combat",
			Actions: []binding.Action{
				{Name: "v_attack1_group1", Label: "Fire Group 1", Bindings: []binding.Binding{
					bind("js1_button1", true),
					bind("kb1_a", true),
				}},
				{Name: "v_weapon_cycle", Label: "Cycle Weapons", OnHold: true, Bindings: []binding.Binding{
					bind("lalt+js1_button7", false),
				}},
			},
		},
		{
			Name:     "spaceship_movement",
			Category: "Flight",
			Actions: []binding.Action{
				{Name: "v_strafe_up", Bindings: []binding.Binding{
					bind("js1_button7", true),
					bind("js1_axis7", false),
					bind("js1_hat1_up", false),
				}},
				{Name: "v_strafe_down", Bindings: []binding.Binding{
					bind("js1_hat1_down", false),
					bind("js1_ ", true),
					bind("js1_button17", false),
				}},
			},
		},
	}
}

func actions(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Action
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearch_NumericButton(t *testing.T) {
	got := Search(Query{Button: 7, Prefix: "js1"}, testMaps(), Filters{})

	// Custom first, then the default; js1_axis7 and js1_button17 never match.
	want := []string{"v_weapon_cycle", "v_strafe_up"}
	if !equal(actions(got), want) {
		t.Fatalf("actions = %v, want %v", actions(got), want)
	}
	if got[0].IsDefault || !got[1].IsDefault {
		t.Errorf("ordering by default flag wrong: %+v", got)
	}
	if got[0].ActionLabel != "LALT + Cycle Weapons (Hold)" {
		t.Errorf("ActionLabel = %q", got[0].ActionLabel)
	}
	if got[1].MapLabel != "Spaceship Movement" {
		t.Errorf("MapLabel = %q", got[1].MapLabel)
	}
}

func TestSearch_SymbolicPrefix(t *testing.T) {
	got := Search(Query{Input: "js1_hat1"}, testMaps(), Filters{})
	want := []string{"v_strafe_up", "v_strafe_down"}
	if !equal(actions(got), want) {
		t.Errorf("actions = %v, want %v", actions(got), want)
	}

	got = Search(Query{Input: "js1_hat1_up"}, testMaps(), Filters{})
	if !equal(actions(got), []string{"v_strafe_up"}) {
		t.Errorf("exact = %v", actions(got))
	}
}

func TestSearch_KeyboardDefault(t *testing.T) {
	got := Search(Query{Input: "kb1_a"}, testMaps(), Filters{})
	if len(got) != 1 {
		t.Fatalf("got %d matches, want 1", len(got))
	}
	if !got[0].IsDefault || got[0].Action != "v_attack1_group1" {
		t.Errorf("match = %+v", got[0])
	}
}

func TestSearch_TypeRestriction(t *testing.T) {
	// A joystick query never returns keyboard bindings even if the
	// strings line up.
	maps := []binding.ActionMap{{Name: "m", Actions: []binding.Action{{Name: "a", Bindings: []binding.Binding{
		bind("kb1_button1", false),
		bind("js1_button1", false),
	}}}}}
	got := Search(Query{Button: 1, Prefix: "js1"}, maps, Filters{})
	if len(got) != 1 || got[0].Input != "js1_button1" {
		t.Errorf("got %+v", got)
	}
}

func TestSearch_Filters(t *testing.T) {
	maps := testMaps()

	got := Search(Query{Button: 7, Prefix: "js1"}, maps, Filters{HideDefaults: true})
	if !equal(actions(got), []string{"v_weapon_cycle"}) {
		t.Errorf("HideDefaults = %v", actions(got))
	}

	got = Search(Query{Button: 7, Prefix: "js1"}, maps, Filters{Modifier: "LALT"})
	if !equal(actions(got), []string{"v_weapon_cycle"}) {
		t.Errorf("Modifier = %v", actions(got))
	}

	got = Search(Query{Button: 7, Prefix: "js1"}, maps, Filters{Category: "flight"})
	if !equal(actions(got), []string{"v_strafe_up"}) {
		t.Errorf("Category = %v", actions(got))
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	if got := Search(Query{}, testMaps(), Filters{}); got != nil {
		t.Errorf("empty query = %v", got)
	}
	if got := Search(Query{Button: 3}, testMaps(), Filters{}); got != nil {
		t.Errorf("numeric query without prefix = %v", got)
	}
}

type staticSource binding.Profile

func (s *staticSource) Profile() binding.Profile { return binding.Profile(*s) }

func TestMatcher_ReadsFreshState(t *testing.T) {
	src := &staticSource{}
	m := New(src)

	if got := m.Search(Query{Input: "kb1_a"}, Filters{}); len(got) != 0 {
		t.Fatalf("empty source returned %v", got)
	}
	*src = staticSource{ActionMaps: testMaps()}
	if got := m.Search(Query{Input: "kb1_a"}, Filters{}); len(got) != 1 {
		t.Errorf("after update got %d matches, want 1", len(got))
	}
}
