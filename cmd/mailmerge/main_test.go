package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/MailMerge/internal/config"
	"github.com/JonMunkholm/MailMerge/internal/core"
	"github.com/JonMunkholm/MailMerge/internal/store"
)

// execute runs the root command with args, returning stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() {
		keepDuplicates, keepInvalid, jsonOutput, logLevel = false, false, false, ""
		resetSent, resetTemplate = false, false
	})
	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const contacts = "Name,E-mail 1 - Value\nAl,A@x.com\nBo,a@x.com\nCy,not-an-email\nDi,\n"

func TestExtract_PrintsAddresses(t *testing.T) {
	path := writeFile(t, "contacts.csv", contacts)

	out, errOut, err := execute(t, "", "extract", path)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com\n", out)
	assert.Contains(t, errOut, `1 addresses from column "E-mail 1 - Value"`)
	assert.Contains(t, errOut, "3 total, 1 invalid, 1 duplicates, 1 empty")
}

func TestExtract_KeepFlags(t *testing.T) {
	path := writeFile(t, "contacts.csv", contacts)

	out, _, err := execute(t, "", "extract", "--keep-duplicates", "--keep-invalid", path)
	require.NoError(t, err)

	assert.Equal(t, "a@x.com\na@x.com\nnot-an-email\n", out)
}

func TestExtract_JSON(t *testing.T) {
	path := writeFile(t, "contacts.tsv", "Contact\tNote\nbad\thi\n\t\nc@d.com\t\n")

	out, _, err := execute(t, "", "extract", "--json", path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Contact", got["detectedColumn"])
	assert.Equal(t, []any{"c@d.com"}, got["emails"])
	assert.Equal(t, map[string]any{
		"total": float64(2), "valid": float64(1), "invalid": float64(1), "duplicates": float64(0), "empty": float64(1),
	}, got["stats"])
}

func TestExtract_Stdin(t *testing.T) {
	out, _, err := execute(t, "Email\nx@y.org\n", "extract", "-")
	require.NoError(t, err)
	assert.Equal(t, "x@y.org\n", out)
}

func TestExtract_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Name", "Work Email"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Ann", "ann@corp.io"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Ben", "BEN@corp.io"}))
	path := filepath.Join(t.TempDir(), "contacts.xlsx")
	require.NoError(t, f.SaveAs(path))

	out, _, err := execute(t, "", "extract", path)
	require.NoError(t, err)
	assert.Equal(t, "ann@corp.io\nben@corp.io\n", out)
}

func TestExtract_Errors(t *testing.T) {
	empty := writeFile(t, "empty.csv", "Name,Email\n")

	_, _, err := execute(t, "", "extract", empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FILE005")

	_, _, err = execute(t, "", "extract", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}

func TestReset_SentOnly(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", dbPath)

	kv, err := store.Open(ctx, config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: dbPath})
	require.NoError(t, err)
	require.NoError(t, core.NewSentTracker(kv).Mark(ctx, "a@x.com"))
	require.NoError(t, core.NewTemplateRepo(kv).Save(ctx, core.Template{Subject: "kept"}))
	require.NoError(t, kv.Close())

	out, _, err := execute(t, "", "reset", "--sent")
	require.NoError(t, err)
	assert.Equal(t, "reset complete\n", out)

	kv, err = store.Open(ctx, config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: dbPath})
	require.NoError(t, err)
	defer kv.Close()

	sent, err := core.NewSentTracker(kv).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, sent)

	tmpl, err := core.NewTemplateRepo(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", tmpl.Subject)
}
