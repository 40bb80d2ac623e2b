package device

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// DefaultProfile is the axis profile used when no other matches.
const DefaultProfile = "default"

// ErrNoDefaultProfile is returned when a database lacks DefaultProfile.
var ErrNoDefaultProfile = errors.New("device database has no default axis profile")

// Entry describes one known controller.
type Entry struct {
	VendorID    string `yaml:"vendor_id"`
	ProductID   string `yaml:"product_id"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	AxisProfile string `yaml:"axis_profile"`
}

// AxisProfile maps 1-based axis indexes to axis names.
type AxisProfile map[int]string

type databaseFile struct {
	Devices      []Entry                      `yaml:"devices"`
	AxisProfiles map[string]map[string]string `yaml:"axis_profiles"`
}

type usbID struct {
	vendor, product uint32
}

// Database is a set of known controllers and axis profiles.
type Database struct {
	devices  map[usbID]Entry
	profiles map[string]AxisProfile
}

// LoadDatabase parses a YAML device database.
func LoadDatabase(r io.Reader) (*Database, error) {
	var f databaseFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse device database: %w", err)
	}

	db := &Database{
		devices:  make(map[usbID]Entry, len(f.Devices)),
		profiles: make(map[string]AxisProfile, len(f.AxisProfiles)),
	}
	for _, e := range f.Devices {
		vid, err := parseHex(e.VendorID)
		if err != nil {
			return nil, fmt.Errorf("device %q: vendor_id: %w", e.Name, err)
		}
		pid, err := parseHex(e.ProductID)
		if err != nil {
			return nil, fmt.Errorf("device %q: product_id: %w", e.Name, err)
		}
		db.devices[usbID{vid, pid}] = e
	}
	for name, raw := range f.AxisProfiles {
		p := make(AxisProfile, len(raw))
		for k, axis := range raw {
			idx, err := strconv.Atoi(strings.TrimSpace(k))
			if err != nil || idx < 1 {
				return nil, fmt.Errorf("axis profile %q: bad axis index %q", name, k)
			}
			// Empty names mark unmapped axes.
			if axis = strings.ToLower(strings.TrimSpace(axis)); axis != "" {
				p[idx] = axis
			}
		}
		db.profiles[name] = p
	}
	return db, nil
}

// LoadDatabaseFile reads a device database from disk.
func LoadDatabaseFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDatabase(f)
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Lookup finds a controller by USB vendor and product ID.
func (db *Database) Lookup(vendor, product uint32) (Entry, bool) {
	e, ok := db.devices[usbID{vendor, product}]
	return e, ok
}

// Profile returns a named axis profile.
func (db *Database) Profile(name string) (AxisProfile, bool) {
	p, ok := db.profiles[name]
	return p, ok
}

// ProfileNames returns the profile names, sorted.
func (db *Database) ProfileNames() []string {
	names := make([]string, 0, len(db.profiles))
	for n := range db.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ProfileFor picks the axis profile for a device name: an exact match
// of the normalised names first, then a profile whose name the device
// name contains, then DefaultProfile.
func (db *Database) ProfileFor(deviceName string) (string, AxisProfile, error) {
	device := normalizeName(deviceName)
	names := db.ProfileNames()

	for _, n := range names {
		if normalizeName(n) == device {
			return n, db.profiles[n], nil
		}
	}
	for _, n := range names {
		nn := normalizeName(n)
		if n != DefaultProfile && nn != "" && strings.Contains(device, nn) {
			return n, db.profiles[n], nil
		}
	}
	if p, ok := db.profiles[DefaultProfile]; ok {
		return DefaultProfile, p, nil
	}
	return "", nil, ErrNoDefaultProfile
}

// normalizeName lower-cases and keeps letters, digits and spaces.
func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
