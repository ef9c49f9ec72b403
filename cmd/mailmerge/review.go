package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/MailMerge/internal/application"
	"github.com/JonMunkholm/MailMerge/internal/core"
	"github.com/JonMunkholm/MailMerge/internal/store"
)

// clipboardWriteAll is a package-level variable to allow swapping in tests.
var clipboardWriteAll = clipboard.WriteAll

// reviewCmd opens the interactive review screen
var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "Step through addresses with a composed message for each",
	Long: `Review extracts addresses like "extract", then shows them one at a time with
the saved template applied. Sent status and the template are kept in the
configured store (STORE_DRIVER, default sqlite), shared with the web server.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&keepDuplicates, "keep-duplicates", false, "Keep repeated addresses")
	reviewCmd.Flags().BoolVar(&keepInvalid, "keep-invalid", false, "Keep values that are not valid addresses")
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kv, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	service, err := core.NewService(kv, cfg)
	if err != nil {
		return err
	}

	name, r, closeFn, err := openInput(cmd, args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	sess, err := service.Upload(ctx, name, r, optionsFromFlags())
	if err != nil {
		return userError(err)
	}

	// The alt screen owns the terminal until the program exits
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	model := application.New(service, sess.ID, clipboardWriteAll)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("review: %w", err)
	}
	return nil
}
