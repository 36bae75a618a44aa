package config

import "sort"

var Presets = map[string]map[string]*Config{
	"gaussian": {
		"equity3": {
			Family: "gaussian", CorrelationType: "pearson", Samples: 5000,
			Rho: [][]float64{{1, 0.6, 0.4}, {0.6, 1, 0.5}, {0.4, 0.5, 1}},
		},
		"independent": {
			Family: "gaussian", CorrelationType: "pearson", Samples: 2000,
			Rho: [][]float64{{1, 0}, {0, 1}},
		},
		"rank": {
			Family: "gaussian", CorrelationType: "spearman", Samples: 5000,
			Rho: [][]float64{{1, 0.3, 0.4}, {0.3, 1, 0.2}, {0.4, 0.2, 1}},
		},
	},
	"t": {
		"heavy_tails": {
			Family: "t", CorrelationType: "pearson", DegreesOfFreedom: 3, Samples: 5000,
			Rho: [][]float64{{1, 0.6}, {0.6, 1}},
		},
		"crisis": {
			Family: "t", CorrelationType: "kendall", DegreesOfFreedom: 2, Samples: 5000,
			Rho: [][]float64{{1, 0.5, 0.5, 0.5}, {0.5, 1, 0.5, 0.5}, {0.5, 0.5, 1, 0.5}, {0.5, 0.5, 0.5, 1}},
		},
	},
	"clayton": {
		"crash": {
			Family: "clayton", CorrelationType: "kendall", Samples: 5000,
			Rho: [][]float64{{1, 0.5}, {0.5, 1}},
		},
		"mild": {
			Family: "clayton", CorrelationType: "kendall", Theta: 0.5, Samples: 2000,
		},
	},
	"gumbel": {
		"boom": {
			Family: "gumbel", CorrelationType: "kendall", Samples: 5000,
			Rho: [][]float64{{1, 0.5}, {0.5, 1}},
		},
		"extreme": {
			Family: "gumbel", CorrelationType: "kendall", Theta: 4, Samples: 5000,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(family, preset string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[preset]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	if out.Workers == 0 {
		out.Workers = DefaultWorkers
	}
	return out
}

func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Families lists the families that have presets.
func Families() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
