package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvk-labs/modelcmp/pkg/modelcmp"
)

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, modelcmp.DefinitionFileName)
	content := `source:
  address: powerbi://api.powerbi.com/v1.0/myorg/Sales
  database: SalesModel
target:
  address: localhost:2383
  database: SalesModel_Prod
description: weekly drift check
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	def, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, def)

	assert.Equal(t, "powerbi://api.powerbi.com/v1.0/myorg/Sales", def.Source.Address)
	assert.Equal(t, "SalesModel", def.Source.Database)
	assert.Equal(t, "localhost:2383", def.Target.Address)
	assert.Equal(t, "SalesModel_Prod", def.Target.Database)
	assert.Equal(t, "weekly drift check", def.Description)
}

func TestLoad_FileNotFound(t *testing.T) {
	def, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, modelcmp.ErrDefinitionNotFound), "expected ErrDefinitionNotFound, got: %v", err)
	assert.Nil(t, def)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unbalanced"), 0644))

	def, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, def)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cmp.yaml")
	in := &Definition{
		Source: EndpointConfig{Address: "a:2383", Database: "m1"},
		Target: EndpointConfig{Address: "b:2383", Database: "m2"},
	}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestToComparisonConfig(t *testing.T) {
	def := &Definition{
		Source: EndpointConfig{Address: "powerbi://api.powerbi.com/v1.0/myorg/WS", Database: "m"},
		Target: EndpointConfig{Address: "srv:2383", Database: "m"},
	}

	cfg := def.ToComparisonConfig(true)
	assert.True(t, cfg.Interactive)
	assert.True(t, cfg.Source.IsCloud())
	assert.False(t, cfg.Target.IsCloud())
	assert.Equal(t, "m", cfg.Source.Database)
	assert.Zero(t, cfg.Source.CompatibilityLevel, "levels are never persisted; discovery fills them")
}

// The init scaffold must itself be a loadable definition.
func TestTemplate_Parses(t *testing.T) {
	path := filepath.Join(t.TempDir(), modelcmp.DefinitionFileName)
	require.NoError(t, os.WriteFile(path, []byte(Template), 0644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, def.Source.Address)
	assert.NotEmpty(t, def.Target.Address)
}
