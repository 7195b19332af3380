package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/config"
)

const appName = "kilocode"

// Set with -ldflags "-X main.appVersion=..." at release time.
var appVersion = "dev"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "AI coding assistant for OpenAI-compatible endpoints",
	Long: `KiloCode sends your question, optionally with code from a file or stdin,
to an OpenAI-compatible chat completion API and prints the answer.

It can also run as:
  - an MCP server for editors that speak the Model Context Protocol (kilocode mcp)
  - a local WebSocket bridge for editor extensions (kilocode serve)

Configuration is read from KILOCODE_* environment variables, the nearest
.kilocode.kdl file and the global config file, in that order.`,
	Version:       appVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("provider", "", "Endpoint preset (see 'kilocode providers')")
	pf.String("endpoint", "", "API base URL, e.g. https://api.openai.com/v1")
	pf.String("model", "", "Model name")
	pf.String("backend", "", "Completion backend: http or langchain")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	pf.Duration("timeout", 0, "Request timeout (default 60s)")
	registerRootCompletions()

	for _, c := range taskCommands() {
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s %s\n", appName, appVersion))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(err)
		os.Exit(exitCode(err))
	}
}

func printError(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)

	var missing *config.MissingCredentialError
	if errors.As(err, &missing) {
		fmt.Fprintf(os.Stderr, "Set it with: export %s='your-api-key'\n", config.EnvVar(config.KeyAPIKey))
		fmt.Fprintln(os.Stderr, "or run 'kilocode config init' and edit the generated file.")
	}
}

// exitCode distinguishes configuration problems from request failures.
func exitCode(err error) int {
	if errors.Is(err, config.ErrMissingCredential) || errors.Is(err, errConfig) {
		return 2
	}
	return 1
}
