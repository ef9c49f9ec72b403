package application

import "github.com/JonMunkholm/MailMerge/internal/core"

// DoneMsg reports a finished action in the status line.
type DoneMsg string

// ErrMsg reports a failed action; the model shows its mapped user message.
type ErrMsg struct{ Err error }

// stateMsg carries a fresh session snapshot after any change.
type stateMsg struct {
	state  *core.SessionState
	status string
}
