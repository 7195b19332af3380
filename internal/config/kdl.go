package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
)

// KDL configuration file names
const (
	GlobalConfigFile  = "config.kdl"
	ProjectConfigFile = ".kilocode.kdl"
)

// KDLConfig represents the KDL configuration structure.
type KDLConfig struct {
	Provider    string            `kdl:"provider"`
	APIEndpoint string            `kdl:"api-endpoint"`
	APIKey      string            `kdl:"api-key"`
	Model       string            `kdl:"model"`
	Backend     string            `kdl:"backend"`
	DocsStyle   string            `kdl:"docs-style"`
	Logging     KDLLogging        `kdl:"logging"`
	Prompts     map[string]string `kdl:"prompts"`
}

// KDLLogging holds the logging block.
type KDLLogging struct {
	Level  string `kdl:"level"`
	Format string `kdl:"format"`
}

// KDLSource is a Source backed by a parsed KDL file.
type KDLSource struct {
	// Path is the file the values came from; empty for in-memory data.
	Path   string
	Config KDLConfig
	// Exists is false when Path was not found on disk.
	Exists bool
}

// ParseKDLConfig parses KDL configuration data.
func ParseKDLConfig(data string) (*KDLConfig, error) {
	var cfg KDLConfig
	if err := kdl.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, fmt.Errorf("invalid KDL config: %w", err)
	}
	return &cfg, nil
}

// LoadKDLSource loads a KDL config file. A missing file yields an empty
// source rather than an error.
func LoadKDLSource(path string) (*KDLSource, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &KDLSource{Path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := ParseKDLConfig(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &KDLSource{Path: path, Config: *cfg, Exists: true}, nil
}

// Lookup implements Source.
func (s *KDLSource) Lookup(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	c := s.Config
	var v string
	switch key {
	case KeyAPIEndpoint:
		v = c.APIEndpoint
	case KeyAPIKey:
		v = c.APIKey
	case KeyModel:
		v = c.Model
	case KeyProvider:
		v = c.Provider
	case KeyBackend:
		v = c.Backend
	case KeyDocsStyle:
		v = c.DocsStyle
	case KeyLogLevel:
		v = c.Logging.Level
	case KeyLogFormat:
		v = c.Logging.Format
	}
	return v, v != ""
}

// KeyNames implements KeyNamer.
func (s *KDLSource) KeyNames(key string) []string {
	if s == nil || s.Path == "" {
		return nil
	}
	node := strings.ReplaceAll(key, "_", "-")
	return []string{fmt.Sprintf("%s in %s", node, s.Path)}
}

// Prompts returns the system prompt overrides keyed by task name.
func (s *KDLSource) Prompts() map[string]string {
	if s == nil {
		return nil
	}
	return s.Config.Prompts
}

// FindProjectConfig searches for .kilocode.kdl starting from dir and walking up.
func FindProjectConfig(dir string) string {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(absDir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			// Reached root
			break
		}
		absDir = parent
	}

	return ""
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "kilocode", GlobalConfigFile)
}

// LoadDefaultSources returns the lookup chain used by the CLI: environment
// variables, then the nearest project file, then the global file.
func LoadDefaultSources(workDir string) (Chain, []*KDLSource, error) {
	chain := Chain{NewEnvSource()}
	var files []*KDLSource

	paths := []string{FindProjectConfig(workDir), GlobalConfigPath()}
	for _, p := range paths {
		if p == "" {
			continue
		}
		src, err := LoadKDLSource(p)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, src)
		files = append(files, src)
	}
	return chain, files, nil
}

// WriteDefaultConfig writes a default config file with documentation.
func WriteDefaultConfig(path string) error {
	defaultKDL := `// kilocode configuration
// Values here are overridden by KILOCODE_* environment variables.

// Preset endpoint: openai, kilocode, groq, together, openrouter
provider "openai"

// Explicit endpoint and model override the preset
// api-endpoint "https://api.openai.com/v1"
// model "gpt-3.5-turbo"

// Prefer the KILOCODE_API_KEY environment variable over storing keys on disk
// api-key "sk-..."

// Completion backend: "http" (built-in) or "langchain"
backend "http"

// Documentation style hint for the docs command (e.g. rustdoc, godoc, jsdoc)
// docs-style "godoc"

logging {
    // debug, info, warn, error
    level "info"
    // text or json
    format "text"
}

// Override system prompts per task: chat, explain, generate, refactor, fix, docs
// prompts {
//     explain "You are a patient mentor. Explain the provided code step by step."
// }
`
	// Create directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(strings.TrimSpace(defaultKDL)+"\n"), 0600)
}
