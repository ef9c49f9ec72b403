package templates

import (
	"net/url"
	"strings"

	"github.com/JonMunkholm/MailMerge/internal/core"
)

// htmxConfig makes htmx swap 4xx/5xx bodies so error alerts reach the page.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

type navButton struct {
	action string
	label  string
}

// navButtons are the review actions, in display order.
var navButtons = []navButton{
	{"prev", "← Prev"},
	{"next", "Next →"},
	{"next-unsent", "Next unsent"},
	{"sent", "Toggle sent"},
}

// sessionAction is the API path for an action on a session.
func sessionAction(sessionID, action string) string {
	return "/api/session/" + url.PathEscape(sessionID) + "/" + action
}

// MailtoURL builds a mailto link prefilled with the composed message.
func MailtoURL(email string, msg core.Template) string {
	q := url.Values{}
	q.Set("subject", msg.Subject)
	q.Set("body", msg.Body)
	// Mail clients expect %20, not the + that form encoding produces
	return "mailto:" + email + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}
