// Package core provides the business logic for the mail merge review flow.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the upload size limit
//	          Action: Export fewer rows or split the file
//	          Patterns: "file too large"
//
//	FILE002 - Invalid CSV: File could not be read as CSV or TSV
//	          Action: Export the sheet again as comma- or tab-separated text
//	          Patterns: "invalid csv"
//
//	FILE003 - Invalid XLSX: File could not be read as an Excel workbook
//	          Action: Save the workbook again or export it as CSV
//	          Patterns: "invalid xlsx"
//
//	FILE004 - No file: No file was selected
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The file has no data rows
//	          Patterns: "empty file"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session expired: Review session not found
//	         Patterns: "session not found"
//
//	SES002 - No emails: The session has no addresses to review
//	         Patterns: "no emails"
//
// # Template Errors (TPL001-TPL099)
//
//	TPL001 - Invalid template: Saved or submitted template is malformed
//	         Patterns: "invalid template"
//
// # Store Errors (DB001-DB099)
//
//	DB001 - Connection refused: Unable to reach the database
//	DB002 - Timeout: Operation timed out
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled     Patterns: "context canceled"
//	REQ002 - Request timed out     Patterns: "context deadline exceeded"
//	REQ003 - Bad position          Patterns: "invalid index"
//	RATE001 - Too many requests    Patterns: "rate limit"
//	RATE002 - Uploads busy         Patterns: "too many concurrent uploads"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the application logs for
// the original technical error when users report ERR000.
//
// Patterns are matched case-insensitively using strings.Contains and the first
// match wins, so specific patterns come before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the upload size limit",
			Action:  "Export fewer rows or split the file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File could not be read as CSV or TSV",
			Action:  "Export the sheet again as comma- or tab-separated text",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid xlsx",
		msg: UserMessage{
			Message: "File could not be read as an Excel workbook",
			Action:  "Save the workbook again or export it as CSV",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a CSV, TSV or XLSX contacts export",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file has no data rows",
			Action:  "Upload an export with a header row and at least one contact",
			Code:    "FILE005",
		},
	},

	// Session errors
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Review session not found",
			Action:  "The session may have expired. Upload the file again",
			Code:    "SES001",
		},
	},
	{
		pattern: "no emails",
		msg: UserMessage{
			Message: "There are no addresses to review",
			Action:  "Check that the file contains an email column",
			Code:    "SES002",
		},
	},

	// Template errors
	{
		pattern: "invalid template",
		msg: UserMessage{
			Message: "The template could not be read",
			Action:  "Save the subject and body again",
			Code:    "TPL001",
		},
	},

	// Store errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},

	// Request errors. "context deadline exceeded" must precede the generic timeout.
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid index",
		msg: UserMessage{
			Message: "That position is not a number",
			Action:  "Enter the row number to jump to",
			Code:    "REQ003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "Other uploads are still being processed",
			Action:  "Wait a few seconds and upload again",
			Code:    "RATE002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a display string: "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
