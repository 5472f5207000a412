package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[gateway]
mode = "bolt"

[neo4j]
uri = "bolt://graph:7687"
user = "neo4j"

[navigator]
display_ceiling = 25
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, GatewayModeBolt, cfg.Gateway.Mode)
	assert.Equal(t, "bolt://graph:7687", cfg.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Neo4j.User)
	assert.Equal(t, 25, cfg.Navigator.DisplayCeiling)
	// untouched keys keep their defaults
	assert.Equal(t, 50, cfg.Navigator.IndentUnit)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[gateway\nmode=")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestLoad_UnsupportedMode(t *testing.T) {
	path := writeConfig(t, "[gateway]\nmode = \"carrier-pigeon\"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported gateway mode")
}

func TestLoadOptional_MissingFile(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GATEWAY_BASE_URL", "http://annex:5000")
	t.Setenv("DISPLAY_CEILING", "40")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http://annex:5000", cfg.Gateway.BaseURL)
	assert.Equal(t, 40, cfg.Navigator.DisplayCeiling)
}

func TestApplyEnv_BadCeiling(t *testing.T) {
	t.Setenv("DISPLAY_CEILING", "lots")
	assert.Error(t, Default().ApplyEnv())
}

func TestApplyEnv_ModeIsCaseInsensitive(t *testing.T) {
	t.Setenv("GATEWAY_MODE", "HTTP")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, GatewayModeHTTP, cfg.Gateway.Mode)
}

func TestLoad_NormalizesMode(t *testing.T) {
	path := writeConfig(t, "[gateway]\nmode = \" Bolt \"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, GatewayModeBolt, cfg.Gateway.Mode)
}

func TestValidate_MaxExpandDepth(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.Navigator.MaxExpandDepth)

	cfg.Navigator.MaxExpandDepth = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_expand_depth")
}
