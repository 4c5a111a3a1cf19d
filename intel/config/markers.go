package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// MarkerFile is the optional DOTNET_INTEL_CONFIG YAML document: extra
// dead-code framework markers layered on top of the built-in lists (spec
// §9's "keep them as a single data structure and allow the test suite to
// inject additions", generalized to a deployment-time config file).
type MarkerFile struct {
	DeadCode struct {
		AdditionalBaseMarkers      []string `yaml:"additionalBaseMarkers"`
		AdditionalAttributeMarkers []string `yaml:"additionalAttributeMarkers"`
	} `yaml:"deadCode"`
}

// LoadMarkerFile reads and parses DeadCodeMarkersPath; a missing or empty
// path is not an error -- it simply means no additional markers are configured.
func LoadMarkerFile(path string) (MarkerFile, error) {
	var mf MarkerFile
	if path == "" {
		return mf, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return mf, err
	}
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return mf, err
	}
	return mf, nil
}
