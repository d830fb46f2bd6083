package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RegionInfo contains region display metadata
type RegionInfo struct {
	Name  string `yaml:"name"`
	Notes string `yaml:"notes"`
}

// RegionMap maps upstream region codes (e.g. "EastUs") to human-readable
// display names for the presentation layer
type RegionMap struct {
	Regions map[string]RegionInfo `yaml:"regions"`
}

// LoadRegionMap loads a region map YAML file
func LoadRegionMap(path string) (*RegionMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read region map: %w", err)
	}

	var rm RegionMap
	if err := yaml.Unmarshal(data, &rm); err != nil {
		return nil, fmt.Errorf("failed to parse region map: %w", err)
	}

	if rm.Regions == nil {
		rm.Regions = make(map[string]RegionInfo)
	}

	return &rm, nil
}

// Empty returns a region map with no entries
func Empty() *RegionMap {
	return &RegionMap{Regions: make(map[string]RegionInfo)}
}

// DisplayName returns the display name for a region code.
// Falls back to the code itself when unmapped.
func (rm *RegionMap) DisplayName(code string) string {
	if info, ok := rm.Regions[code]; ok && info.Name != "" {
		return info.Name
	}
	return code
}
