package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/retrocoderamen/spcdsp/internal/system"
)

// profile is the optional YAML configuration for a run, following
// SPEC_FULL.md's Configuration section: timing region, initial mailbox
// contents, and whether the boot ROM overlay starts enabled. Any field left
// unset keeps the core's compiled-in power-on default.
type profile struct {
	Region     string  `yaml:"region"`
	Mailbox    [4]*int `yaml:"mailbox"`
	BootROM    *bool   `yaml:"boot_rom"`
	LoadBase   *int    `yaml:"load_base"`
	SampleRate int     `yaml:"sample_rate"`
}

func defaultProfile() profile {
	return profile{
		Region:     "ntsc",
		SampleRate: 32000,
	}
}

func loadProfile(path string) (profile, error) {
	p := defaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("spcplay: reading profile %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("spcplay: parsing profile %q: %w", path, err)
	}
	if p.SampleRate == 0 {
		p.SampleRate = 32000
	}
	return p, nil
}

func (p profile) region() system.Region {
	if p.Region == "pal" {
		return system.RegionPAL
	}
	return system.RegionNTSC
}

// apply pushes the profile's initial mailbox bytes and ROM-overlay setting
// onto a freshly built System, before the core starts running.
func (p profile) apply(s *system.System) {
	for i, v := range p.Mailbox {
		if v != nil {
			s.HostWrite(i, uint8(*v))
		}
	}
	if p.BootROM != nil {
		s.Memory.SetROMEnabled(*p.BootROM)
	}
}
