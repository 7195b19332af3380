package config

import (
	"os"
	"strings"
)

// Source is a read-only key-value view over editor settings, environment
// variables or a config file. Keys are the logical names (KeyAPIKey, ...).
type Source interface {
	Lookup(key string) (string, bool)
}

// KeyNamer is implemented by sources that can tell the user which concrete
// setting backs a logical key.
type KeyNamer interface {
	KeyNames(key string) []string
}

// SettingsPrefix is the namespace used by editor settings maps.
const SettingsPrefix = "kilocode."

// MapSource reads an editor settings map. Both "kilocode.api_key" and
// "api_key" entries are accepted; the prefixed form wins.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(key string) (string, bool) {
	if v, ok := m[SettingsPrefix+key]; ok {
		return v, true
	}
	v, ok := m[key]
	return v, ok
}

// KeyNames implements KeyNamer.
func (m MapSource) KeyNames(key string) []string {
	return []string{SettingsPrefix + key}
}

// envNames maps logical keys to environment variables.
var envNames = map[string]string{
	KeyAPIEndpoint: "KILOCODE_API_URL",
	KeyAPIKey:      "KILOCODE_API_KEY",
	KeyModel:       "KILOCODE_MODEL",
	KeyProvider:    "KILOCODE_PROVIDER",
	KeyBackend:     "KILOCODE_BACKEND",
	KeyLogLevel:    "KILOCODE_LOG_LEVEL",
	KeyLogFormat:   "KILOCODE_LOG_FORMAT",
	KeyDocsStyle:   "KILOCODE_DOCS_STYLE",
}

// EnvSource reads KILOCODE_* environment variables.
type EnvSource struct {
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// NewEnvSource returns a source over the process environment.
func NewEnvSource() EnvSource {
	return EnvSource{LookupEnv: os.LookupEnv}
}

// Lookup implements Source.
func (e EnvSource) Lookup(key string) (string, bool) {
	name, ok := envNames[key]
	if !ok {
		name = "KILOCODE_" + strings.ToUpper(key)
	}
	lookupEnv := e.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return lookupEnv(name)
}

// KeyNames implements KeyNamer.
func (e EnvSource) KeyNames(key string) []string {
	if name, ok := envNames[key]; ok {
		return []string{name}
	}
	return []string{"KILOCODE_" + strings.ToUpper(key)}
}

// EnvVar returns the environment variable backing a logical key.
func EnvVar(key string) string {
	return EnvSource{}.KeyNames(key)[0]
}

// Chain consults sources in order; the first non-blank value wins.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(key string) (string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

// lookupIndex is Lookup that also reports which source answered.
func (c Chain) lookupIndex(key string) (string, int, bool) {
	for i, src := range c {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(key); ok && strings.TrimSpace(v) != "" {
			return v, i, true
		}
	}
	return "", -1, false
}

// KeyNames implements KeyNamer.
func (c Chain) KeyNames(key string) []string {
	var names []string
	for _, src := range c {
		if namer, ok := src.(KeyNamer); ok {
			names = append(names, namer.KeyNames(key)...)
		}
	}
	return names
}
