package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/breeze-nav/breeze/internal/config"
	"github.com/breeze-nav/breeze/internal/emit"
	"github.com/breeze-nav/breeze/internal/logger"
	"github.com/breeze-nav/breeze/internal/shellwrap"
)

var version = "dev"

func main() {
	var (
		initShell  string
		configPath string
		showHidden bool
	)

	rootCmd := &cobra.Command{
		Use:     "breeze [directory]",
		Short:   "Interactive directory explorer for your shell",
		Long:    "breeze is a modal terminal directory explorer. The UI draws on stderr;\non exit one result line is printed to stdout for the shell wrapper\n(install it with: eval \"$(breeze --init bash)\").",
		Args:    cobra.MaximumNArgs(1),
		Version: version,
		// stdout belongs to the result protocol.
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initShell != "" {
				return shellwrap.PrintSetup(cmd.OutOrStdout(), initShell)
			}

			startDir, err := resolveStartDir(args)
			if err != nil {
				return err
			}

			if err := logger.Init(); err != nil {
				// Logging is best-effort; the explorer runs without it.
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			}

			cfg, warnings := config.Load(configPath)
			if cmd.Flags().Changed("show-hidden") {
				cfg.Options.ShowHidden = showHidden
			}

			m := newModel(startDir, cfg, warnings)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(os.Stderr))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("terminal failure: %w", err)
			}

			fm, ok := final.(*model)
			if !ok || fm.result == nil {
				return nil
			}
			if err := fm.result.Write(os.Stdout); err != nil {
				return err
			}
			os.Exit(fm.exitCode)
			return nil
		},
	}

	rootCmd.Flags().StringVar(&initShell, "init", "", "print the shell wrapper function and exit (bash, zsh, sh, ksh, fish, or auto to detect from $SHELL)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to the config file")
	rootCmd.Flags().BoolVar(&showHidden, "show-hidden", false, "show hidden files")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "breeze: %v\n", err)
		os.Exit(emit.ExitStartup)
	}
}

// resolveStartDir validates the initial directory argument. This is the
// only fatal filesystem check: everything after the loop starts degrades
// instead of exiting.
func resolveStartDir(args []string) (string, error) {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid start path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("invalid start path %q: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid start path %q: not a directory", dir)
	}
	return abs, nil
}
