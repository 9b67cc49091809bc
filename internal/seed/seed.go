// Package seed carries the curated catalog the service starts from.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"fontpair/internal/catalog"
	"fontpair/pkg/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Data struct {
	Fonts           []models.Font           `yaml:"fonts"`
	Foundries       []models.FoundryRecord  `yaml:"foundries"`
	PopularPairings []models.PopularPairing `yaml:"popular_pairings"`
}

// Load parses the embedded catalog and normalizes every font.
func Load() (Data, error) {
	return Parse(catalogYAML)
}

func Parse(b []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return Data{}, fmt.Errorf("decode seed catalog: %w", err)
	}
	for i := range d.Fonts {
		d.Fonts[i].Normalize()
		if err := d.Fonts[i].Valid(); err != nil {
			return Data{}, fmt.Errorf("seed font %d: %w", i, err)
		}
	}
	return d, nil
}

// MustLoad panics on a malformed embedded catalog; only a broken build can
// trigger it.
func MustLoad() Data {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// Catalog wraps the seed data in an in-memory catalog.
func (d Data) Catalog() *catalog.Memory {
	return catalog.NewMemory(d.Fonts, d.Foundries)
}
