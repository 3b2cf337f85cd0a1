// Package profile stores a device configuration and its color tables as YAML
package profile

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"gridpad/color"
	"gridpad/core"
	"gridpad/host/client"
)

// Profile is a complete device setup
type Profile struct {
	Name     string         `yaml:"name,omitempty"`
	Settings map[string]int `yaml:"settings,omitempty"`
	Colors   Colors         `yaml:"colors,omitempty"`
}

// Colors holds palette names per bank. A bank with a single name fills
// every button.
type Colors struct {
	Idle   [][]string `yaml:"idle,omitempty"`
	Active [][]string `yaml:"active,omitempty"`
}

// Load reads and validates a profile file
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates a profile
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks setting names, value ranges and color names
func (p *Profile) Validate() error {
	names := make([]string, 0, len(p.Settings))
	for name := range p.Settings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := core.TagByName(name); !ok {
			return fmt.Errorf("settings: unknown setting %q", name)
		}
		if v := p.Settings[name]; v < 0 || v > 0x7F {
			return fmt.Errorf("settings: %s value %d out of range 0-127", name, v)
		}
	}

	if err := validateBanks("idle", p.Colors.Idle); err != nil {
		return err
	}
	return validateBanks("active", p.Colors.Active)
}

func validateBanks(table string, banks [][]string) error {
	if len(banks) > core.Banks {
		return fmt.Errorf("colors.%s: %d banks, device has %d", table, len(banks), core.Banks)
	}
	for i, bank := range banks {
		if len(bank) != 1 && len(bank) != color.ButtonCount {
			return fmt.Errorf("colors.%s[%d]: want 1 or %d colors, got %d", table, i, color.ButtonCount, len(bank))
		}
		for j, name := range bank {
			if _, ok := color.ParseID(name); !ok {
				return fmt.Errorf("colors.%s[%d][%d]: unknown color %q", table, i, j, name)
			}
		}
	}
	return nil
}

// Record returns the settings as a config record
func (p *Profile) Record() core.ConfigRecord {
	var r core.ConfigRecord
	for name, v := range p.Settings {
		if tag, ok := core.TagByName(name); ok {
			r.Set(tag, uint8(v))
		}
	}
	return r
}

// Table returns the color table for a bulk tag, or false when the
// profile leaves it out. Banks not listed keep base.
func (p *Profile) Table(tag uint8, base *client.ColorTable) (client.ColorTable, bool) {
	var banks [][]string
	switch tag {
	case core.TagIdleColors:
		banks = p.Colors.Idle
	case core.TagActiveColors:
		banks = p.Colors.Active
	}

	var t client.ColorTable
	if base != nil {
		t = *base
	}
	if len(banks) == 0 {
		return t, false
	}

	for bank, names := range banks {
		for b := 0; b < color.ButtonCount; b++ {
			name := names[0]
			if len(names) > 1 {
				name = names[b]
			}
			id, _ := color.ParseID(name)
			t.Set(uint8(bank), uint8(b), id)
		}
	}
	return t, true
}

// FromDevice builds a profile from pulled device state
func FromDevice(name string, rec core.ConfigRecord, idle, active *client.ColorTable) *Profile {
	p := &Profile{
		Name:     name,
		Settings: make(map[string]int, len(core.PullTags)),
	}
	for _, tag := range core.PullTags {
		if v, ok := rec.Get(tag); ok {
			p.Settings[core.TagName(tag)] = int(v)
		}
	}
	if idle != nil {
		p.Colors.Idle = tableBanks(idle, client.LimiterFor(core.TagIdleColors))
	}
	if active != nil {
		p.Colors.Active = tableBanks(active, client.LimiterFor(core.TagActiveColors))
	}
	return p
}

func tableBanks(t *client.ColorTable, lim *color.PowerLimiter) [][]string {
	banks := make([][]string, core.Banks)
	for bank := range banks {
		names := make([]string, color.ButtonCount)
		uniform := true
		for b := range names {
			names[b] = t.ID(uint8(bank), uint8(b), lim).String()
			uniform = uniform && names[b] == names[0]
		}
		if uniform {
			names = names[:1]
		}
		banks[bank] = names
	}
	return banks
}

// Marshal encodes the profile as YAML
func (p *Profile) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	return data, nil
}

// Save writes the profile to path
func (p *Profile) Save(path string) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}
