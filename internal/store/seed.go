package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Municipalities []seedMunicipality `yaml:"municipalities"`
}

type seedMunicipality struct {
	Name       string `yaml:"name"`
	County     string `yaml:"county"`
	Website    string `yaml:"website"`
	Population int    `yaml:"population"`
}

// LoadMunicipalitiesYAML reads a municipality seed list. Entries without a
// name are rejected; everything else is optional.
func LoadMunicipalitiesYAML(path string) ([]Municipality, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(file.Municipalities) == 0 {
		return nil, fmt.Errorf("seed file %s lists no municipalities", path)
	}

	ms := make([]Municipality, 0, len(file.Municipalities))
	for i, m := range file.Municipalities {
		if m.Name == "" {
			return nil, fmt.Errorf("seed entry %d has no name", i)
		}
		ms = append(ms, Municipality{
			Name:            m.Name,
			County:          m.County,
			OfficialWebsite: m.Website,
			Population:      m.Population,
		})
	}
	return ms, nil
}
