// Package cli is the simple-bible command line. Without a subcommand it
// starts the reader.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"simple-bible/internal/config"
	"simple-bible/internal/logger"
)

// version is set at build time with -ldflags "-X simple-bible/internal/cli.version=...".
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "simple-bible",
	Short: "A terminal Bible reader",
	Long: `simple-bible reads the Bible in the terminal.

It remembers the translation, book, chapter and zoom you left off at and
keeps a history of every chapter you open.

Controls:
  n/→, p/←  - Next / previous chapter
  g         - Go to a reference ("john 3:16")
  /         - Search
  c         - Compare translations
  b         - Books
  H         - History
  t         - Next translation
  +, -      - Zoom
  T         - Next theme
  R         - Reset
  ?         - Toggle help
  q         - Quit`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose || config.New().Verbose)
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logging")
}

// Execute runs the root command and exits 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
