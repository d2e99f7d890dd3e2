package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cbot/internal/diagfmt"
	"cbot/internal/driver"
)

var tokenizeFormat string

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.cbot",
	Short: "Tokenize a CBot script",
	Long: `Tokenize prints every token of a script with its class, text and position.
Lexer errors go to stderr; the token stream is printed regardless.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		res, err := driver.Tokenize(args[0], maxDiagnostics)
		if err != nil {
			return fmt.Errorf("tokenize %s: %w", args[0], err)
		}
		if res.Bag.Len() > 0 {
			diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
				Color:   useColor(cmd, os.Stderr),
				Context: 2,
			})
		}
		out := cmd.OutOrStdout()
		switch tokenizeFormat {
		case "pretty":
			return diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
		case "json":
			return diagfmt.FormatTokensJSON(out, res.Tokens, res.FileSet)
		}
		return fmt.Errorf("unknown format %q (expected pretty|json)", tokenizeFormat)
	},
}

func init() {
	tokenizeCmd.Flags().StringVar(&tokenizeFormat, "format", "pretty", "output format (pretty|json)")
}
