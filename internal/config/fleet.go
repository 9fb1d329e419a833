package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

//go:embed fleet.yaml
var defaultFleet []byte

// FleetFile is the on-disk seed format.
type FleetFile struct {
	Assets []AssetSpec `yaml:"assets"`
}

// AssetSpec is one seed record.
type AssetSpec struct {
	ID           string          `yaml:"id"`
	Name         string          `yaml:"name"`
	Type         string          `yaml:"type"`
	Aliases      []string        `yaml:"aliases"`
	Capabilities []string        `yaml:"capabilities"`
	Location     domain.Location `yaml:"location"`
	Gauges       map[string]int  `yaml:"gauges,omitempty"`
}

// LoadFleet reads the seed at path, or the built-in fleet when path is empty.
func LoadFleet(path string) ([]domain.Asset, error) {
	if path == "" {
		return ParseFleet(defaultFleet)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fleet file: %w", err)
	}
	return ParseFleet(data)
}

// DefaultFleet returns the built-in four-asset fleet.
func DefaultFleet() []domain.Asset {
	assets, err := ParseFleet(defaultFleet)
	if err != nil {
		panic(err)
	}
	return assets
}

// ParseFleet decodes a YAML seed. Semantic validation is left to the fleet
// registry.
func ParseFleet(data []byte) ([]domain.Asset, error) {
	var file FleetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fleet yaml: %w", err)
	}
	if len(file.Assets) == 0 {
		return nil, fmt.Errorf("fleet has no assets")
	}

	assets := make([]domain.Asset, 0, len(file.Assets))
	for _, spec := range file.Assets {
		a := domain.Asset{
			ID:       spec.ID,
			Name:     spec.Name,
			Type:     domain.AssetType(spec.Type),
			Aliases:  spec.Aliases,
			Location: spec.Location,
		}
		for _, c := range spec.Capabilities {
			a.Capabilities = append(a.Capabilities, domain.Capability(c))
		}
		if len(spec.Gauges) > 0 {
			a.Gauges = make(map[domain.Gauge]int, len(spec.Gauges))
			for k, v := range spec.Gauges {
				a.Gauges[domain.Gauge(k)] = v
			}
		}
		assets = append(assets, a)
	}
	return assets, nil
}
