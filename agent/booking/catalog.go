package booking

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Restaurants []Restaurant `yaml:"restaurants"`
}

// LoadRestaurants reads a YAML catalog of the form `restaurants: [...]`.
func LoadRestaurants(path string) ([]Restaurant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read restaurant catalog: %w", err)
	}
	return ParseRestaurants(data)
}

func ParseRestaurants(data []byte) ([]Restaurant, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode restaurant catalog: %w", err)
	}
	for i, r := range file.Restaurants {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("restaurant catalog entry %d: %w", i, err)
		}
	}
	return file.Restaurants, nil
}

func MarshalRestaurants(restaurants []Restaurant) ([]byte, error) {
	return yaml.Marshal(catalogFile{Restaurants: restaurants})
}
