// Command mailmerge extracts email addresses from contact exports and walks
// through them one at a time in the terminal.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/MailMerge/internal/config"
	"github.com/JonMunkholm/MailMerge/internal/logging"
)

var (
	logLevel string
	cfg      *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mailmerge",
	Short: "Extract email addresses from contact exports",
	Long: `mailmerge reads a CSV, TSV or XLSX contacts export, finds the column that
holds email addresses and produces a clean, deduplicated list.

Available subcommands:
  extract - Print the addresses (or the full result as JSON)
  review  - Step through addresses with a composed message per contact
  reset   - Clear sent status and the saved template`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional for the CLI
		_ = godotenv.Overload()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		// stdout carries results; logs go to stderr
		slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: LOG_LEVEL)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
