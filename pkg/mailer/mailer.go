// Package mailer sends transactional and campaign email.
package mailer

import (
	"context"
	"errors"
	"fmt"
)

// Message is one outbound email
type Message struct {
	To          string
	FromEmail   string
	FromName    string
	Subject     string
	Preheader   string
	HTMLContent string
	Tags        map[string]string
}

// Validate checks the fields every provider requires
func (m *Message) Validate() error {
	switch {
	case m.To == "":
		return errors.New("recipient is required")
	case m.FromEmail == "":
		return errors.New("sender is required")
	case m.Subject == "":
		return errors.New("subject is required")
	}
	return nil
}

// From renders the From header
func (m *Message) From() string {
	if m.FromName == "" {
		return m.FromEmail
	}
	return fmt.Sprintf("%s <%s>", m.FromName, m.FromEmail)
}

// Sender represents an email transport
type Sender interface {
	// Send delivers msg and returns the provider message id
	Send(ctx context.Context, msg *Message) (string, error)
}

// withPreheader prepends the hidden preview text most clients show next to the subject
func withPreheader(msg *Message) string {
	if msg.Preheader == "" {
		return msg.HTMLContent
	}
	return `<div style="display:none;max-height:0;overflow:hidden;">` + msg.Preheader + `</div>` + msg.HTMLContent
}
