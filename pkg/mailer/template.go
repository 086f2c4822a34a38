package mailer

import (
	"fmt"

	"github.com/osteele/liquid"
)

// Renderer expands liquid merge tags such as {{ first_name }} in subjects and bodies
type Renderer struct {
	engine *liquid.Engine
}

// NewRenderer creates a Renderer with the default filter
func NewRenderer() *Renderer {
	engine := liquid.NewEngine()

	// {{ first_name | default: "there" }}
	engine.RegisterFilter("default", func(value interface{}, fallback string) interface{} {
		if value == nil {
			return fallback
		}
		if s := fmt.Sprintf("%v", value); s == "" {
			return fallback
		}
		return value
	})

	return &Renderer{engine: engine}
}

// Render expands tpl with vars. Missing variables render empty.
func (r *Renderer) Render(tpl string, vars map[string]interface{}) (string, error) {
	out, err := r.engine.ParseAndRenderString(tpl, vars)
	if err != nil {
		return "", fmt.Errorf("template error: %w", err)
	}
	return out, nil
}

// Personalize renders the subject and body of msg in place
func (r *Renderer) Personalize(msg *Message, vars map[string]interface{}) error {
	subject, err := r.Render(msg.Subject, vars)
	if err != nil {
		return err
	}
	body, err := r.Render(msg.HTMLContent, vars)
	if err != nil {
		return err
	}
	msg.Subject, msg.HTMLContent = subject, body
	return nil
}
