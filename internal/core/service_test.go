package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/MailMerge/internal/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{
		Upload: config.UploadConfig{MaxFileSize: 1 << 20, SessionTTL: time.Hour},
	}
	svc, err := NewService(NewMemoryStore(), cfg)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

const serviceCSV = "Name,Email\nAnn,ann@x.com\nBob,BOB@x.com\nAnn again,ann@x.com\nNobody,bad\n"

func TestNewService_RequiresStore(t *testing.T) {
	if _, err := NewService(nil, &config.Config{}); err == nil {
		t.Error("NewService(nil) should fail")
	}
}

func TestService_UploadAndState(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	sess, err := svc.Upload(ctx, "contacts.csv", strings.NewReader(serviceCSV), DefaultOptions())
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if svc.SessionCount() != 1 {
		t.Errorf("SessionCount() = %d, want 1", svc.SessionCount())
	}

	state, err := svc.State(ctx, sess.ID)
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}

	want := &SessionState{
		SessionID: sess.ID,
		FileName:  "contacts.csv",
		Result: &Result{
			Emails:         []string{"ann@x.com", "bob@x.com"},
			DetectedColumn: "Email",
			HasColumn:      true,
			Stats:          Stats{Total: 4, Valid: 2, Invalid: 1, Duplicates: 1},
		},
		Position: 1,
		Count:    2,
		Current:  "ann@x.com",
		Name:     "Ann",
		Composed: Template{Subject: "Hello Ann", Body: "Hi Ann,\n\n"},
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("State() mismatch (-want +got):\n%s", diff)
	}
}

func TestService_UploadErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Upload(ctx, "empty.csv", strings.NewReader("Name,Email\n"), DefaultOptions())
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("header-only upload error = %v, want ErrEmptyFile", err)
	}

	svc.maxFileSize = 8
	_, err = svc.Upload(ctx, "big.csv", strings.NewReader(serviceCSV), DefaultOptions())
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("oversized upload error = %v, want ErrFileTooLarge", err)
	}

	if svc.SessionCount() != 0 {
		t.Errorf("failed uploads should not open sessions, have %d", svc.SessionCount())
	}
}

func TestService_SessionNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.State(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("State() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.ToggleSent(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ToggleSent() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Compose(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Compose() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.NextUnsent(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("NextUnsent() error = %v, want ErrSessionNotFound", err)
	}
}

func TestService_SentFlow(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	sess, err := svc.Upload(ctx, "contacts.csv", strings.NewReader(serviceCSV), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	sent, err := svc.ToggleSent(ctx, sess.ID)
	if err != nil || !sent {
		t.Fatalf("ToggleSent() = %v, %v, want true", sent, err)
	}

	state, _ := svc.State(ctx, sess.ID)
	if !state.IsSent || state.SentCount != 1 {
		t.Errorf("IsSent = %v, SentCount = %d, want true, 1", state.IsSent, state.SentCount)
	}

	moved, err := svc.NextUnsent(ctx, sess.ID)
	if err != nil || !moved {
		t.Fatalf("NextUnsent() = %v, %v, want true", moved, err)
	}
	state, _ = svc.State(ctx, sess.ID)
	if state.Current != "bob@x.com" || state.IsSent {
		t.Errorf("after NextUnsent current = %q sent = %v, want unsent bob", state.Current, state.IsSent)
	}

	// Sent status is global: a second upload sees ann as already sent.
	other, _ := svc.Upload(ctx, "again.csv", strings.NewReader(serviceCSV), DefaultOptions())
	state, _ = svc.State(ctx, other.ID)
	if !state.IsSent || state.SentCount != 1 {
		t.Errorf("second session IsSent = %v, SentCount = %d, want true, 1", state.IsSent, state.SentCount)
	}

	emails, _ := svc.SentEmails(ctx)
	if diff := cmp.Diff([]string{"ann@x.com"}, emails); diff != "" {
		t.Errorf("SentEmails() mismatch (-want +got):\n%s", diff)
	}

	sent, _ = svc.ToggleSent(ctx, other.ID)
	if sent {
		t.Error("second toggle should unmark")
	}

	_, _ = svc.ToggleSent(ctx, sess.ID) // bob
	if err := svc.ResetSent(ctx); err != nil {
		t.Fatal(err)
	}
	emails, _ = svc.SentEmails(ctx)
	if len(emails) != 0 {
		t.Errorf("SentEmails() after reset = %v, want empty", emails)
	}
}

func TestService_TemplateAndCompose(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	got, err := svc.Template(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultTemplate, got); diff != "" {
		t.Errorf("Template() mismatch (-want +got):\n%s", diff)
	}

	if err := svc.SaveTemplate(ctx, Template{Subject: "To {{email}}", Body: "Dear {{name}}"}); err != nil {
		t.Fatal(err)
	}

	sess, _ := svc.Upload(ctx, "contacts.csv", strings.NewReader(serviceCSV), DefaultOptions())
	sess.Next()

	composed, err := svc.Compose(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := Template{Subject: "To bob@x.com", Body: "Dear Bob"}
	if diff := cmp.Diff(want, composed); diff != "" {
		t.Errorf("Compose() mismatch (-want +got):\n%s", diff)
	}
}

func TestService_NoEmails(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	sess, err := svc.Upload(ctx, "plain.csv", strings.NewReader("Notes\nhello\nworld\n"), DefaultOptions())
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	state, err := svc.State(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Count != 0 || state.Position != 0 || state.Current != "" {
		t.Errorf("empty state = %+v", state)
	}
	if state.Result.HasColumn {
		t.Error("no column should be detected")
	}

	if _, err := svc.ToggleSent(ctx, sess.ID); !errors.Is(err, ErrNoEmails) {
		t.Errorf("ToggleSent() error = %v, want ErrNoEmails", err)
	}
	if _, err := svc.Compose(ctx, sess.ID); !errors.Is(err, ErrNoEmails) {
		t.Errorf("Compose() error = %v, want ErrNoEmails", err)
	}
}

func TestService_CloseAndSweep(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	a, _ := svc.Upload(ctx, "a.csv", strings.NewReader(serviceCSV), DefaultOptions())
	b, _ := svc.Upload(ctx, "b.csv", strings.NewReader(serviceCSV), DefaultOptions())

	svc.CloseSession(a.ID)
	svc.CloseSession("unknown")
	if _, err := svc.Session(a.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("closed session still present: %v", err)
	}

	if n := svc.sweepSessions(time.Now()); n != 0 {
		t.Errorf("sweepSessions(now) removed %d, want 0", n)
	}
	if n := svc.sweepSessions(time.Now().Add(2 * time.Hour)); n != 1 {
		t.Errorf("sweepSessions(+2h) removed %d, want 1", n)
	}
	if _, err := svc.Session(b.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Error("idle session should have been swept")
	}
}

func TestService_SweepDisabled(t *testing.T) {
	svc := newTestService(t)
	svc.sessionTTL = 0

	_, _ = svc.Upload(context.Background(), "a.csv", strings.NewReader(serviceCSV), DefaultOptions())
	if n := svc.sweepSessions(time.Now().Add(24 * time.Hour)); n != 0 {
		t.Errorf("sweepSessions() with zero TTL removed %d, want 0", n)
	}
}

func TestService_SweeperStopsOnCancel(t *testing.T) {
	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.StartSessionSweeper(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
