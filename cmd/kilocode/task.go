package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/assistant"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/language"
	"github.com/NexusNoir555/KiloCode-Zed-extension/internal/selection"
)

type taskDef struct {
	use     string
	aliases []string
	short   string
	example string
}

var taskDefs = []taskDef{
	{
		use:     "chat [question...]",
		aliases: []string{"kc", "ask"},
		short:   "Ask a free-form question",
		example: `  kilocode chat how do I read a file line by line in go
  git diff | kilocode chat review this change`,
	},
	{
		use:     "explain [question...]",
		aliases: []string{"kc-explain"},
		short:   "Explain code from --file or stdin",
		example: `  kilocode explain --file main.go --lines 10:40
  kilocode explain --file parser.rs why is this recursive`,
	},
	{
		use:     "generate <description...>",
		aliases: []string{"kc-generate", "gen"},
		short:   "Generate code from a description",
		example: `  kilocode generate --language go an LRU cache with generics`,
	},
	{
		use:     "refactor [instructions...]",
		aliases: []string{"kc-refactor"},
		short:   "Suggest a refactoring of code from --file or stdin",
		example: `  kilocode refactor --file handler.go use early returns`,
	},
	{
		use:     "fix [instructions...]",
		aliases: []string{"kc-fix"},
		short:   "Fix bugs in code from --file or stdin",
		example: `  kilocode fix --file main.go --error "index out of range [3] with length 3"`,
	},
	{
		use:     "docs [instructions...]",
		aliases: []string{"kc-docs"},
		short:   "Generate documentation for code from --file or stdin",
		example: `  kilocode docs --file lib.rs --style rustdoc`,
	},
}

type taskFlags struct {
	file     string
	lines    string
	language string
	errMsg   string
	style    string
	noStdin  bool
}

func taskCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(taskDefs))
	for _, def := range taskDefs {
		cmds = append(cmds, newTaskCommand(def))
	}
	return cmds
}

func newTaskCommand(def taskDef) *cobra.Command {
	flags := &taskFlags{}
	name := strings.Fields(def.use)[0]

	cmd := &cobra.Command{
		Use:     def.use,
		Aliases: def.aliases,
		Short:   def.short,
		Example: def.example,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, name, args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.file, "file", "f", "", "Read code context from this file")
	f.StringVarP(&flags.lines, "lines", "l", "", "Line range within --file, e.g. 10:40")
	f.StringVar(&flags.language, "language", "", "Language hint (default: detected)")
	f.BoolVar(&flags.noStdin, "no-stdin", false, "Do not read code context from piped stdin")
	switch name {
	case "fix":
		f.StringVarP(&flags.errMsg, "error", "e", "", "Compiler or runtime error message")
	case "docs":
		f.StringVar(&flags.style, "style", "", "Documentation style, e.g. rustdoc, godoc, jsdoc")
	}
	registerTaskCompletions(cmd)
	return cmd
}

func runTask(cmd *cobra.Command, name string, args []string, flags *taskFlags) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	lines, err := selection.ParseRange(flags.lines)
	if err != nil {
		return err
	}
	if !lines.IsZero() && flags.file == "" {
		return fmt.Errorf("--lines requires --file")
	}

	code := selection.First{selection.File{Path: flags.file, Lines: lines}}
	if !flags.noStdin {
		code = append(code, selection.Stdin())
	}

	d := assistant.NewDispatcher(a.assistant,
		assistant.WithCodeContext(code),
		assistant.WithLanguageDetector(language.Detector{
			Override: flags.language,
			FilePath: flags.file,
			Dir:      a.workDir,
		}),
		assistant.WithDocsStyle(a.settings.DocsStyle),
	)

	stop := startSpinner(fmt.Sprintf(" %s is thinking...", a.client.Model))
	start := time.Now()
	text, err := d.Dispatch(cmd.Context(), assistant.Command{
		Name:         name,
		Args:         args,
		FilePath:     flags.file,
		ErrorMessage: flags.errMsg,
		Style:        flags.style,
	})
	stop()
	if err != nil {
		a.logger.Debug("command failed", "command", name, "elapsed", time.Since(start), "error", err)
		return err
	}

	a.logger.Debug("command completed", "command", name, "elapsed", time.Since(start))
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

// startSpinner shows progress on stderr when it is a terminal. The returned
// function stops it.
func startSpinner(suffix string) func() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	s.Start()
	return s.Stop
}
