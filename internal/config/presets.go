package config

import "sort"

var Presets = map[string]*Config{
	"easy": {
		DotCount: 150, Speed: 50, Coherence: 80, Direction: 90,
	},
	"hard": {
		DotCount: 150, Speed: 50, Coherence: 10, Direction: 90,
	},
	"noise": {
		DotCount: 200, Speed: 40, Coherence: 0, Direction: 90,
	},
	"signal": {
		DotCount: 100, Speed: 60, Coherence: 100, Direction: 270,
	},
	"dense": {
		DotCount: 800, Speed: 30, Coherence: 40, Direction: 270,
	},
}

// GetPreset returns the default configuration with the named preset's
// stimulus parameters applied, or nil if no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.DotCount = p.DotCount
	cfg.Speed = p.Speed
	cfg.Coherence = p.Coherence
	cfg.Direction = p.Direction
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
