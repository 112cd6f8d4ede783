package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Export renders the effective configuration as YAML that LoadConfiguration
// reads back unchanged.
func (c *Configuration) Export() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return buf.Bytes(), nil
}
