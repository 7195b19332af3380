package config

import "strings"

// Provider is a named preset for an OpenAI-compatible endpoint.
type Provider struct {
	Name         string
	BaseURL      string
	DefaultModel string
	// KeyURL is where users obtain an API key.
	KeyURL string
}

// providerRegistry lists the endpoints known to speak the shared
// chat/completions schema.
var providerRegistry = map[string]Provider{
	"openai": {
		Name:         "openai",
		BaseURL:      "https://api.openai.com/v1",
		DefaultModel: "gpt-3.5-turbo",
		KeyURL:       "https://platform.openai.com/api-keys",
	},
	"kilocode": {
		Name:         "kilocode",
		BaseURL:      "https://api.kilocode.ai/v1",
		DefaultModel: "gpt-4",
		KeyURL:       "https://kilocode.ai",
	},
	"groq": {
		Name:         "groq",
		BaseURL:      "https://api.groq.com/openai/v1",
		DefaultModel: "llama3-70b-8192",
		KeyURL:       "https://console.groq.com/keys",
	},
	"together": {
		Name:         "together",
		BaseURL:      "https://api.together.xyz/v1",
		DefaultModel: "meta-llama/Llama-3-70b-chat-hf",
		KeyURL:       "https://api.together.xyz/settings/api-keys",
	},
	"openrouter": {
		Name:         "openrouter",
		BaseURL:      "https://openrouter.ai/api/v1",
		DefaultModel: "openai/gpt-3.5-turbo",
		KeyURL:       "https://openrouter.ai/keys",
	},
}

// LookupProvider finds a preset by case-insensitive name.
func LookupProvider(name string) (Provider, bool) {
	p, ok := providerRegistry[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// ProviderNames returns the preset names in alphabetical order.
func ProviderNames() []string {
	return sortedKeys(providerRegistry)
}

// Providers returns all presets in alphabetical order.
func Providers() []Provider {
	names := ProviderNames()
	out := make([]Provider, 0, len(names))
	for _, n := range names {
		out = append(out, providerRegistry[n])
	}
	return out
}
