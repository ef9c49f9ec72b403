package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Placeholder tokens recognised by ApplyTemplate.
const (
	TokenEmail = "{{email}}"
	TokenName  = "{{name}}"
)

// TemplateKey is the store key holding the JSON-encoded Template.
const TemplateKey = "emailTemplate"

// ErrInvalidTemplate is returned when a stored or submitted template cannot be decoded.
var ErrInvalidTemplate = errors.New("invalid template")

// DefaultTemplate is used until the user saves their own.
var DefaultTemplate = Template{
	Subject: "Hello {{name}}",
	Body:    "Hi {{name}},\n\n",
}

// ApplyTemplate substitutes placeholders in both subject and body.
//
// {{email}} is replaced only when v.Email is provided; otherwise the token is
// left in place. {{name}} is replaced with v.Name, or removed when absent.
func ApplyTemplate(t Template, v Values) Template {
	return Template{
		Subject: substitute(t.Subject, v),
		Body:    substitute(t.Body, v),
	}
}

func substitute(s string, v Values) string {
	if v.Email != nil {
		s = strings.ReplaceAll(s, TokenEmail, *v.Email)
	}
	name := ""
	if v.Name != nil {
		name = *v.Name
	}
	return strings.ReplaceAll(s, TokenName, name)
}

// TemplateRepo persists the user's template in a Store.
type TemplateRepo struct {
	store Store
}

// NewTemplateRepo creates a repository backed by store.
func NewTemplateRepo(store Store) *TemplateRepo {
	return &TemplateRepo{store: store}
}

// Load returns the saved template, or DefaultTemplate when none has been saved.
func (r *TemplateRepo) Load(ctx context.Context) (Template, error) {
	raw, ok, err := r.store.Get(ctx, TemplateKey)
	if err != nil {
		return Template{}, fmt.Errorf("load template: %w", err)
	}
	if !ok || raw == "" {
		return DefaultTemplate, nil
	}

	var t Template
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	return t, nil
}

// Save stores t, replacing any previous template.
func (r *TemplateRepo) Save(ctx context.Context, t Template) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal template: %w", err)
	}
	if err := r.store.Set(ctx, TemplateKey, string(raw)); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}
