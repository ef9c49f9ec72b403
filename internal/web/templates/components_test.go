package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/MailMerge/internal/core"
)

func TestReviewCard(t *testing.T) {
	state := &core.SessionState{
		SessionID: "abc",
		FileName:  "contacts.csv",
		Result: &core.Result{
			Emails:         []string{"ann@x.com", "bob@x.com"},
			DetectedColumn: "Email",
			HasColumn:      true,
			Stats:          core.Stats{Total: 3, Valid: 2, Invalid: 1},
		},
		Position:  1,
		Count:     2,
		Current:   "ann@x.com",
		Name:      "<Ann>",
		IsSent:    true,
		SentCount: 1,
		Composed:  core.Template{Subject: "Hi Ann", Body: "Line & more"},
	}

	var buf bytes.Buffer
	require.NoError(t, ReviewCard(state).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "1 of 2 · 1 sent")
	assert.Contains(t, html, "✓ sent")
	assert.Contains(t, html, "&lt;Ann&gt;")
	assert.NotContains(t, html, "<Ann>")
	assert.Contains(t, html, "Line &amp; more")
	assert.Contains(t, html, `hx-post="/api/session/abc/next-unsent"`)
	assert.Contains(t, html, "mailto:ann@x.com?body=Line%20%26%20more&amp;subject=Hi%20Ann")
	assert.Contains(t, html, "Column: Email")
}

func TestReviewCard_NoAddresses(t *testing.T) {
	state := &core.SessionState{FileName: "notes.csv", Result: &core.Result{}}

	var buf bytes.Buffer
	require.NoError(t, ReviewCard(state).Render(context.Background(), &buf))

	assert.Contains(t, buf.String(), "No addresses found in notes.csv.")
	assert.Contains(t, buf.String(), "none, scanned all cells")
	assert.NotContains(t, buf.String(), "<button")
}

func TestErrorAlert(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorAlert("File too large", "Split it", "FILE001").Render(context.Background(), &buf))

	assert.Equal(t, `<div class="alert" role="alert"><strong>File too large</strong> Split it <small>(FILE001)</small></div>`, buf.String())
}

func TestMailtoURL(t *testing.T) {
	got := MailtoURL("a@b.co", core.Template{Subject: "Hello there", Body: "a+b"})
	assert.Equal(t, "mailto:a@b.co?body=a%2Bb&subject=Hello%20there", got)
}
