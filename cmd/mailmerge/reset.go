package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/MailMerge/internal/admin"
	"github.com/JonMunkholm/MailMerge/internal/store"
)

var (
	resetSent     bool
	resetTemplate bool
)

// resetCmd clears persisted review state
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear sent status and/or the saved template",
	Long: `Reset clears state kept in the configured store. With no flags both the
sent list and the template are reset.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetSent, "sent", false, "Forget which addresses were sent")
	resetCmd.Flags().BoolVar(&resetTemplate, "template", false, "Restore the default template")
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kv, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	r := &admin.Resetter{Store: kv}
	switch {
	case resetSent && !resetTemplate:
		err = r.ResetSent(ctx)
	case resetTemplate && !resetSent:
		err = r.ResetTemplate(ctx)
	default:
		err = r.ResetAll(ctx)
	}
	if err != nil {
		return userError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "reset complete")
	return nil
}
