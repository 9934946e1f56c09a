package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAML implements koanf.Parser on top of yaml.v3
type YAML struct{}

// YAMLParser returns a YAML parser for koanf
func YAMLParser() *YAML {
	return &YAML{}
}

// Unmarshal parses YAML bytes into a flat-keyed map
func (p *YAML) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return out, nil
}

// Marshal encodes a map back to YAML
func (p *YAML) Marshal(o map[string]interface{}) ([]byte, error) {
	return yaml.Marshal(o)
}

// Marshal renders cfg as YAML, the form `config` prints
func (c *Configuration) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
