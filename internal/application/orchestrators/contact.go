package orchestrators

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"academia/internal/adapters/email"
)

// ContactInput is a public contact-form submission.
type ContactInput struct {
	Name    string `validate:"required,max=200"`
	Email   string `validate:"required,email"`
	Message string `validate:"required,max=2000"`
}

// ContactDeps holds dependencies for the contact enquiry.
type ContactDeps struct {
	Sender email.Sender
	From   string // configured sender address
	To     string // gym inbox
}

// ExecuteContactEnquiry validates a contact-form submission and forwards it
// to the gym inbox with reply-to pointing at the enquirer.
func ExecuteContactEnquiry(ctx context.Context, input ContactInput, deps ContactDeps) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("invalid contact submission: %w", err)
	}

	body := fmt.Sprintf("<p><strong>%s</strong> (%s) escribió:</p><p>%s</p>",
		html.EscapeString(input.Name),
		html.EscapeString(input.Email),
		html.EscapeString(input.Message))

	_, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{deps.To},
		From:    deps.From,
		Subject: "Consulta desde el sitio web: " + input.Name,
		HTML:    body,
		ReplyTo: input.Email,
	})
	if err != nil {
		slog.Error("contact_enquiry_failed", "from", input.Email, "error", err.Error())
		return err
	}
	slog.Info("contact_enquiry_sent", "from", input.Email)
	return nil
}
