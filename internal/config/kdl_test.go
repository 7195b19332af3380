package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDLConfig(t *testing.T) {
	input := `// project settings
provider "groq"
model "llama3-8b-8192"
api-key "kdl-key"
docs-style "rustdoc"

logging {
    level "debug"
    format "json"
}

prompts {
    explain "Explain like I am new to the codebase."
}
`
	cfg, err := ParseKDLConfig(input)
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.Provider)
	assert.Equal(t, "llama3-8b-8192", cfg.Model)
	assert.Equal(t, "kdl-key", cfg.APIKey)
	assert.Equal(t, "rustdoc", cfg.DocsStyle)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "Explain like I am new to the codebase.", cfg.Prompts["explain"])

	src := &KDLSource{Path: "/tmp/.kilocode.kdl", Config: *cfg}
	resolved, err := Resolve(src)
	require.NoError(t, err)
	assert.Equal(t, "https://api.groq.com/openai/v1", resolved.BaseURL)
	assert.Equal(t, "llama3-8b-8192", resolved.Model)

	settings := ResolveSettings(src)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, "json", settings.LogFormat)
}

func TestKDLSourceKeyNames(t *testing.T) {
	src := &KDLSource{Path: "/home/me/.config/kilocode/config.kdl"}
	_, err := Resolve(src)

	var missing *MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"api-key in /home/me/.config/kilocode/config.kdl"}, missing.Keys)
}

func TestLoadKDLSourceMissingFile(t *testing.T) {
	src, err := LoadKDLSource(filepath.Join(t.TempDir(), "absent.kdl"))
	require.NoError(t, err)

	_, ok := src.Lookup(KeyModel)
	assert.False(t, ok)
	assert.False(t, src.Exists)
}

func TestLoadKDLSourceInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.kdl")
	require.NoError(t, os.WriteFile(path, []byte(`model "unterminated`), 0644))

	_, err := LoadKDLSource(path)
	assert.Error(t, err)
}

func TestWriteDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kilocode", GlobalConfigFile)
	require.NoError(t, WriteDefaultConfig(path))

	src, err := LoadKDLSource(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", src.Config.Provider)
	assert.Equal(t, BackendHTTP, src.Config.Backend)
	assert.Equal(t, "info", src.Config.Logging.Level)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFindProjectConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(`model "m"`), 0644))

	assert.Equal(t, filepath.Join(root, ProjectConfigFile), FindProjectConfig(nested))
}

func TestLoadDefaultSourcesPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("KILOCODE_API_KEY", "")
	t.Setenv("KILOCODE_MODEL", "env-model")

	globalPath := filepath.Join(home, "kilocode", GlobalConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(globalPath), 0755))
	require.NoError(t, os.WriteFile(globalPath, []byte("api-key \"global-key\"\nmodel \"global-model\"\nprovider \"groq\"\n"), 0600))

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, ProjectConfigFile), []byte(`provider "together"`), 0644))

	chain, files, err := LoadDefaultSources(project)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	cfg, err := Resolve(chain)
	require.NoError(t, err)
	assert.Equal(t, "global-key", cfg.APIKey)
	assert.Equal(t, "env-model", cfg.Model)
	assert.Equal(t, "together", cfg.Provider, "project file beats global file")
}
