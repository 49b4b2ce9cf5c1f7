package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func parseYAML(yamlFilePath string) (*Settings, error) {
	data, err := os.ReadFile(yamlFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a yaml file: %w", err)
	}

	var yamlCfg fileSettings
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("error decoding yaml configs: %w", err)
	}

	return yamlCfg.toSettings(), nil
}
