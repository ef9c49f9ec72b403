package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/MailMerge/internal/core"
)

var (
	keepDuplicates bool
	keepInvalid    bool
	jsonOutput     bool
)

// extractCmd prints the addresses found in a contacts file
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the email addresses found in a contacts file",
	Long: `Extract reads a contacts export and prints one normalized address per line.

The email column is chosen automatically: the Google Contacts header first,
then any "E-mail ... Value" header, then the column with the most valid
addresses. When no column qualifies every cell is scanned.

Use "-" to read CSV from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&keepDuplicates, "keep-duplicates", false, "Keep repeated addresses")
	extractCmd.Flags().BoolVar(&keepInvalid, "keep-invalid", false, "Keep values that are not valid addresses")
	extractCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full result (emails, detectedColumn, stats) as JSON")
}

func optionsFromFlags() core.Options {
	return core.Options{
		RemoveDuplicates: !keepDuplicates,
		RemoveInvalid:    !keepInvalid,
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	name, r, closeFn, err := openInput(cmd, args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	table, _, err := core.ReadTable(name, r, cfg.Upload.MaxFileSize)
	if err != nil {
		return userError(err)
	}
	result, err := core.Extract(table, optionsFromFlags())
	if err != nil {
		return userError(err)
	}

	return writeResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, jsonOutput)
}

// writeResult prints addresses to out and a summary to errOut, or the whole result as JSON.
func writeResult(out, errOut io.Writer, result *core.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for _, e := range result.Emails {
		if _, err := fmt.Fprintln(out, e); err != nil {
			return err
		}
	}

	col := "none (scanned all cells)"
	if result.HasColumn {
		col = fmt.Sprintf("%q", result.DetectedColumn)
	}
	fmt.Fprintf(errOut, "%s addresses from column %s: %s total, %s invalid, %s duplicates, %s empty\n",
		humanize.Comma(int64(result.Stats.Valid)), col,
		humanize.Comma(int64(result.Stats.Total)),
		humanize.Comma(int64(result.Stats.Invalid)),
		humanize.Comma(int64(result.Stats.Duplicates)),
		humanize.Comma(int64(result.Stats.Empty)),
	)
	return nil
}

// openInput opens path, or stdin for "-".
func openInput(cmd *cobra.Command, path string) (string, io.Reader, func() error, error) {
	if path == "-" {
		return "stdin.csv", cmd.InOrStdin(), func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return filepath.Base(path), f, f.Close, nil
}

// userError prefixes a known failure with its friendly message and code.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
}
