package device

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dshills/stickbind/internal/ident"
	"github.com/dshills/stickbind/internal/logging"
	"github.com/dshills/stickbind/internal/prefs"
)

// MaxLogical is the highest logical joystick slot.
const MaxLogical = 4

// Target is a logical slot (1..MaxLogical) or Disabled.
type Target int

// Disabled drops every input of the physical device.
const Disabled Target = 0

// String returns the slot number or "disabled".
func (t Target) String() string {
	if t == Disabled {
		return "disabled"
	}
	return strconv.Itoa(int(t))
}

// ParseTarget parses a slot number or "disabled".
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "disabled" || s == "off" {
		return Disabled, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > MaxLogical {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	return Target(n), nil
}

// Table maps 1-based physical device indexes to targets.
type Table map[int]Target

// ErrInvalidTarget is returned for targets outside 1..MaxLogical.
var ErrInvalidTarget = errors.New("invalid joystick target")

// ParseTable decodes the stored form {"1":"2","2":"disabled"}.
// Malformed entries are reported together; valid ones are kept.
func ParseTable(raw map[string]string) (Table, error) {
	t := make(Table, len(raw))
	var errs []error
	for k, v := range raw {
		phys, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || phys < 1 {
			errs = append(errs, fmt.Errorf("physical index %q: %w", k, ErrInvalidTarget))
			continue
		}
		target, err := ParseTarget(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("physical index %d: %w", phys, err))
			continue
		}
		t[phys] = target
	}
	return t, errors.Join(errs...)
}

// Encode returns the stored form of the table.
func (t Table) Encode() map[string]string {
	out := make(map[string]string, len(t))
	for phys, target := range t {
		out[strconv.Itoa(phys)] = target.String()
	}
	return out
}

// Indexes returns the physical indexes in ascending order.
func (t Table) Indexes() []int {
	out := make([]int, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

var joystickPrefixRe = regexp.MustCompile(`^(js|gp)(\d+)$`)

// Remap rewrites the device prefix of c through the table. Inputs from
// devices not in the table pass through unchanged; inputs from a
// disabled device yield ("", false).
func (t Table) Remap(c ident.Canonical) (ident.Canonical, bool) {
	m := joystickPrefixRe.FindStringSubmatch(ident.DevicePrefix(c))
	if m == nil {
		return c, true
	}
	phys, _ := strconv.Atoi(m[2])
	target, ok := t[phys]
	if !ok {
		return c, true
	}
	if target == Disabled {
		return "", false
	}
	return ident.WithDevicePrefix(c, m[1]+strconv.Itoa(int(target))), true
}

// Remapper applies the table stored in the preference store.
type Remapper struct {
	mu     sync.RWMutex
	table  Table
	store  prefs.Store
	logger *logging.Logger
}

// NewRemapper creates a remapper and loads its table from store.
func NewRemapper(store prefs.Store, logger *logging.Logger) *Remapper {
	r := &Remapper{
		table:  make(Table),
		store:  store,
		logger: logging.OrNull(logger).WithComponent("device"),
	}
	if err := r.Load(); err != nil {
		r.logger.Warn("joystick mapping: %v", err)
	}
	return r
}

// Load re-reads the table from the store. Valid entries are applied
// even when others are malformed.
func (r *Remapper) Load() error {
	if r.store == nil {
		return nil
	}
	t, err := ParseTable(r.store.StringMap(prefs.KeyJoystickMapping))

	r.mu.Lock()
	r.table = t
	r.mu.Unlock()
	r.logger.Debug("loaded joystick mapping %v", t.Encode())
	return err
}

// Table returns a copy of the current table.
func (r *Remapper) Table() Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.table)
}

// Set maps a physical device and persists the table.
func (r *Remapper) Set(physical int, target Target) error {
	if physical < 1 {
		return fmt.Errorf("physical index %d: %w", physical, ErrInvalidTarget)
	}
	if target != Disabled && (target < 1 || target > MaxLogical) {
		return fmt.Errorf("%w: %d", ErrInvalidTarget, target)
	}

	r.mu.Lock()
	r.table[physical] = target
	encoded := r.table.Encode()
	r.mu.Unlock()
	return r.save(encoded)
}

// Unset removes a physical device from the table and persists it.
func (r *Remapper) Unset(physical int) error {
	r.mu.Lock()
	delete(r.table, physical)
	encoded := r.table.Encode()
	r.mu.Unlock()
	return r.save(encoded)
}

func (r *Remapper) save(encoded map[string]string) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Set(prefs.KeyJoystickMapping, encoded); err != nil {
		return fmt.Errorf("save joystick mapping: %w", err)
	}
	return nil
}

// Remap implements the capture pipeline's remap step.
func (r *Remapper) Remap(c ident.Canonical) (ident.Canonical, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table.Remap(c)
}
