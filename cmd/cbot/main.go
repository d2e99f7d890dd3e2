package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cbot/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cbot",
	Short: "CBot scripting runtime",
	Long:  `cbot compiles and runs CBot robot scripts in a simulated world`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			stopProfiling()
			return err
		}
		traceCleanup = func() {
			cleanup()
			stopProfiling()
		}
		return nil
	},
	SilenceUsage: true,
}

// traceCleanup сбрасывает трейсер после выполнения команды, даже с ошибкой.
var traceCleanup func()

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
}

// main executes the root command. A failing command exits with status 1.
func main() {
	err := rootCmd.Execute()
	if traceCleanup != nil {
		traceCleanup()
	}
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor решает по флагу --color, красить ли вывод в f.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	switch colorFlag {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}
