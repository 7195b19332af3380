package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/assistant"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/chat"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/config"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/logutil"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/prompt"
)

var errConfig = errors.New("invalid configuration")

// app is the wiring shared by every command that talks to the API.
type app struct {
	workDir   string
	source    config.Source
	files     []*config.KDLSource
	client    config.ClientConfig
	settings  config.Settings
	logger    *slog.Logger
	assistant *assistant.Assistant
}

// flagSource exposes the global flags that were set explicitly.
type flagSource map[string]string

func (f flagSource) Lookup(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

var flagKeys = map[string]string{
	"provider":   config.KeyProvider,
	"endpoint":   config.KeyAPIEndpoint,
	"model":      config.KeyModel,
	"backend":    config.KeyBackend,
	"log-level":  config.KeyLogLevel,
	"log-format": config.KeyLogFormat,
}

func flagsToSource(cmd *cobra.Command) flagSource {
	src := flagSource{}
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		src[key] = f.Value.String()
	}
	return src
}

// loadSources builds the lookup chain: flags, environment, project file, global file.
func loadSources(cmd *cobra.Command) (string, config.Chain, []*config.KDLSource, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return "", nil, nil, err
	}
	chain, files, err := config.LoadDefaultSources(workDir)
	if err != nil {
		return "", nil, nil, fmt.Errorf("%w: %v", errConfig, err)
	}
	return workDir, append(config.Chain{flagsToSource(cmd)}, chain...), files, nil
}

func loadApp(cmd *cobra.Command) (*app, error) {
	workDir, chain, files, err := loadSources(cmd)
	if err != nil {
		return nil, err
	}

	settings := config.ResolveSettings(chain)
	logger, err := logutil.FromSettings(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errConfig, err)
	}
	slog.SetDefault(logger)

	clientCfg, err := config.Resolve(chain)
	if err != nil {
		var missing *config.MissingCredentialError
		if errors.As(err, &missing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errConfig, err)
	}

	registry := prompt.DefaultRegistry()
	if err := applyPromptOverrides(registry, files); err != nil {
		return nil, fmt.Errorf("%w: %v", errConfig, err)
	}

	opts := []chat.Option{chat.WithUserAgent(appName + "/" + appVersion)}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		opts = append(opts, chat.WithTimeout(timeout))
	}
	completer, err := chat.NewCompleter(clientCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errConfig, err)
	}

	logger.Debug("configuration resolved",
		"provider", clientCfg.Provider,
		"endpoint", clientCfg.BaseURL,
		"model", clientCfg.Model,
		"backend", clientCfg.Backend,
		"files", len(files),
	)

	return &app{
		workDir:   workDir,
		source:    chain,
		files:     files,
		client:    clientCfg,
		settings:  settings,
		logger:    logger,
		assistant: assistant.New(completer, prompt.NewBuilder(registry)),
	}, nil
}

// applyPromptOverrides applies file prompts, global first so project files win.
func applyPromptOverrides(registry *prompt.Registry, files []*config.KDLSource) error {
	for i := len(files) - 1; i >= 0; i-- {
		if err := registry.Override(files[i].Prompts()); err != nil {
			return fmt.Errorf("%s: %w", files[i].Path, err)
		}
	}
	return nil
}
