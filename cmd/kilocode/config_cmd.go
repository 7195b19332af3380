package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage kilocode configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a documented config file",
	Long: `Write a documented config file.

By default the file is written to .kilocode.kdl in the current directory.
With --global it is written to the user config directory instead.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	RunE:  runConfigShow,
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List endpoint presets",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tBASE URL\tDEFAULT MODEL\tAPI KEYS")
		for _, p := range config.Providers() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.BaseURL, p.DefaultModel, p.KeyURL)
		}
		w.Flush()
	},
}

func init() {
	configInitCmd.Flags().Bool("global", false, "Write the global config file")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	global, _ := cmd.Flags().GetBool("global")
	force, _ := cmd.Flags().GetBool("force")

	path := config.ProjectConfigFile
	if global {
		path = config.GlobalConfigPath()
		if path == "" {
			return fmt.Errorf("cannot determine the user config directory")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", color.GreenString("✓"), path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	_, chain, files, err := loadSources(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range files {
		if f.Exists {
			fmt.Fprintf(out, "file:      %s\n", f.Path)
		}
	}

	cfg, err := config.Resolve(chain)
	if err != nil {
		if !errors.Is(err, config.ErrMissingCredential) {
			return fmt.Errorf("%w: %v", errConfig, err)
		}
		fmt.Fprintf(out, "api key:   %s\n", color.YellowString("not set"))
		fmt.Fprintln(out, err)
		return nil
	}

	settings := config.ResolveSettings(chain)
	provider := cfg.Provider
	if provider == "" {
		provider = "(none)"
	}
	fmt.Fprintf(out, "provider:  %s\n", provider)
	fmt.Fprintf(out, "endpoint:  %s\n", cfg.BaseURL)
	fmt.Fprintf(out, "model:     %s\n", cfg.Model)
	fmt.Fprintf(out, "backend:   %s\n", cfg.Backend)
	fmt.Fprintf(out, "api key:   %s\n", cfg.MaskedKey())
	if settings.DocsStyle != "" {
		fmt.Fprintf(out, "docs:      %s\n", settings.DocsStyle)
	}
	return nil
}
