// Package config loads and writes comparison-definition files: the saved
// YAML documents naming the source and target model endpoints of a
// comparison.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

// EndpointConfig describes one endpoint in a definition file.
type EndpointConfig struct {
	Address  string `yaml:"address"`
	Database string `yaml:"database"`
}

// Definition is the persisted form of a comparison: the endpoint pair plus
// free-form notes. Compatibility metadata is never persisted; it is
// rediscovered on every run.
type Definition struct {
	Source      EndpointConfig `yaml:"source"`
	Target      EndpointConfig `yaml:"target"`
	Description string         `yaml:"description,omitempty"`
}

// Load reads a definition file. Returns modelcmp.ErrDefinitionNotFound when
// the file does not exist, checkable with errors.Is.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, modelcmp.ErrDefinitionNotFound)
		}
		return nil, err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &def, nil
}

// Save writes a definition file, creating parent directories as needed.
func Save(path string, def *Definition) error {
	data, err := yaml.Marshal(def)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ToComparisonConfig converts a loaded definition into the runtime config
// consumed by the comparison factory.
func (d *Definition) ToComparisonConfig(interactive bool) *modelcmp.ComparisonConfig {
	return &modelcmp.ComparisonConfig{
		Source: modelcmp.EndpointDescriptor{
			Address:  d.Source.Address,
			Database: d.Source.Database,
		},
		Target: modelcmp.EndpointDescriptor{
			Address:  d.Target.Address,
			Database: d.Target.Database,
		},
		Interactive: interactive,
	}
}

// Template is the scaffold written by `modelcmp init`.
const Template = `# modelcmp comparison definition
#
# Addresses may be:
#   powerbi://api.powerbi.com/v1.0/myorg/Workspace   (cloud-hosted dataset)
#   https://server/olap/msmdpump.dll                 (HTTP endpoint)
#   server:2383                                      (on-premises instance)
source:
  address: powerbi://api.powerbi.com/v1.0/myorg/Sales
  database: SalesModel
target:
  address: localhost:2383
  database: SalesModel
`
