// Package config resolves the endpoint, credentials and model used by the
// chat client from an injected key-value source.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Logical configuration keys understood by every Source.
const (
	KeyAPIEndpoint = "api_endpoint"
	KeyAPIKey      = "api_key"
	KeyModel       = "model"
	KeyProvider    = "provider"
	KeyBackend     = "backend"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyDocsStyle   = "docs_style"
)

// Defaults applied when neither the source nor a provider preset supplies a value.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-3.5-turbo"
)

// Completion backends.
const (
	BackendHTTP      = "http"
	BackendLangChain = "langchain"
)

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("API key not configured")

// MissingCredentialError names the configuration keys the caller must set.
type MissingCredentialError struct {
	Keys []string
}

func (e *MissingCredentialError) Error() string {
	if len(e.Keys) == 0 {
		return ErrMissingCredential.Error()
	}
	quoted := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		quoted[i] = "'" + k + "'"
	}
	return fmt.Sprintf("%s. Please set %s.", ErrMissingCredential, strings.Join(quoted, " or "))
}

func (e *MissingCredentialError) Unwrap() error {
	return ErrMissingCredential
}

// ClientConfig is everything the chat client needs. It is resolved once and
// passed by value; nothing re-reads the environment afterwards.
type ClientConfig struct {
	APIKey   string `json:"-"`
	BaseURL  string `json:"base_url"`
	Model    string `json:"model"`
	Provider string `json:"provider,omitempty"`
	Backend  string `json:"backend"`
}

// MaskedKey returns the API key with all but the last four characters hidden.
func (c ClientConfig) MaskedKey() string {
	if len(c.APIKey) <= 4 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}

// Resolve builds a ClientConfig from src.
func Resolve(src Source) (ClientConfig, error) {
	cfg := ClientConfig{
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
		Backend: BackendHTTP,
	}

	// A preset only yields to endpoint and model values from the same or a
	// higher-priority layer of the chain.
	providerLayer := -1
	if name, layer, ok := lookupLayer(src, KeyProvider); ok {
		preset, found := LookupProvider(name)
		if !found {
			return ClientConfig{}, fmt.Errorf("unknown provider %q (known: %s)", name, strings.Join(ProviderNames(), ", "))
		}
		cfg.Provider = preset.Name
		cfg.BaseURL = preset.BaseURL
		cfg.Model = preset.DefaultModel
		providerLayer = layer
	}

	if v, layer, ok := lookupLayer(src, KeyAPIEndpoint); ok && (providerLayer < 0 || layer <= providerLayer) {
		cfg.BaseURL = v
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if v, layer, ok := lookupLayer(src, KeyModel); ok && (providerLayer < 0 || layer <= providerLayer) {
		cfg.Model = v
	}

	if v, ok := lookup(src, KeyBackend); ok {
		switch v {
		case BackendHTTP, BackendLangChain:
			cfg.Backend = v
		default:
			return ClientConfig{}, fmt.Errorf("unknown backend %q (known: %s, %s)", v, BackendHTTP, BackendLangChain)
		}
	}

	key, ok := lookup(src, KeyAPIKey)
	if !ok {
		return ClientConfig{}, &MissingCredentialError{Keys: keyNames(src, KeyAPIKey)}
	}
	cfg.APIKey = key

	return cfg, nil
}

// Settings are host-side options that do not affect the wire request.
type Settings struct {
	LogLevel  string
	LogFormat string
	DocsStyle string
}

// ResolveSettings reads host settings from src. Missing values stay empty.
func ResolveSettings(src Source) Settings {
	var s Settings
	s.LogLevel, _ = lookup(src, KeyLogLevel)
	s.LogFormat, _ = lookup(src, KeyLogFormat)
	s.DocsStyle, _ = lookup(src, KeyDocsStyle)
	return s
}

// lookup treats blank values as absent.
func lookup(src Source, key string) (string, bool) {
	if src == nil {
		return "", false
	}
	v, ok := src.Lookup(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// lookupLayer is lookup plus the index of the answering source when src
// is a Chain. Any other source is a single layer 0.
func lookupLayer(src Source, key string) (string, int, bool) {
	chain, ok := src.(Chain)
	if !ok {
		v, ok := lookup(src, key)
		return v, 0, ok
	}
	v, layer, ok := chain.lookupIndex(key)
	if !ok {
		return "", -1, false
	}
	return strings.TrimSpace(v), layer, true
}

func keyNames(src Source, key string) []string {
	namer, ok := src.(KeyNamer)
	if !ok {
		return []string{key}
	}
	names := namer.KeyNames(key)
	if len(names) == 0 {
		return []string{key}
	}
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// sortedKeys returns the keys of m in order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
