package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Mailer sends transactional email through the SendGrid v3 API. Endpoint is
// overridable for tests.
type Mailer struct {
	APIKey     string
	FromEmail  string
	FromName   string
	HTTPClient *http.Client
	Endpoint   string
}

func NewMailer(apiKey, fromEmail string) *Mailer {
	return &Mailer{
		APIKey:    strings.TrimSpace(apiKey),
		FromEmail: strings.TrimSpace(fromEmail),
		FromName:  "TuneDrop",
		Endpoint:  "https://api.sendgrid.com/v3/mail/send",
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendGridEmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPersonalization struct {
	To      []sendGridEmailAddress `json:"to"`
	Subject string                 `json:"subject"`
}

type sendGridMailSendRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridEmailAddress      `json:"from"`
	Content          []sendGridContent         `json:"content"`
}

func (m *Mailer) SendReleaseStatusEmail(ctx context.Context, to, releaseTitle, status, reason string) error {
	subject := fmt.Sprintf("Release update: %s", releaseTitle)
	body := fmt.Sprintf("Your release %q is now %q.\n", releaseTitle, status)
	if strings.TrimSpace(reason) != "" {
		body += fmt.Sprintf("\nReason: %s\n", reason)
	}
	return m.send(ctx, to, subject, body)
}

func (m *Mailer) SendAppealDecisionEmail(ctx context.Context, to string, approved bool, message string) error {
	subject := "Your account appeal was denied"
	body := "After review, your account appeal has been denied.\n"
	if approved {
		subject = "Your account has been reinstated"
		body = "Good news: your appeal was approved and your account is active again.\n"
	}
	if strings.TrimSpace(message) != "" {
		body += "\n" + strings.TrimSpace(message) + "\n"
	}
	return m.send(ctx, to, subject, body)
}

func (m *Mailer) SendTicketReplyEmail(ctx context.Context, to, reference, message string) error {
	subject := fmt.Sprintf("Re: support ticket %s", reference)
	body := strings.TrimSpace(message)
	if body == "" {
		body = "(empty message)"
	}
	return m.send(ctx, to, subject, body+"\n")
}

func (m *Mailer) SendInvitationEmail(ctx context.Context, to, kind, token string) error {
	subject := "You have been invited to TuneDrop"
	body := fmt.Sprintf(
		"You have been invited to join TuneDrop as a %s.\n\nYour invitation code: %s\n",
		kind, token,
	)
	return m.send(ctx, to, subject, body)
}

// SendUserEmail is the generic admin-to-user email.
func (m *Mailer) SendUserEmail(ctx context.Context, to, subject, body string) error {
	return m.send(ctx, to, subject, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, plain string) error {
	if m == nil {
		return fmt.Errorf("mailer not configured")
	}
	if m.APIKey == "" {
		return fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if m.FromEmail == "" {
		return fmt.Errorf("missing EMAIL_FROM")
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("missing recipient")
	}

	reqBody := sendGridMailSendRequest{
		Personalizations: []sendGridPersonalization{
			{
				To:      []sendGridEmailAddress{{Email: strings.TrimSpace(to)}},
				Subject: subject,
			},
		},
		From: sendGridEmailAddress{
			Email: m.FromEmail,
			Name:  m.FromName,
		},
		Content: []sendGridContent{
			{Type: "text/plain", Value: plain},
		},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.Endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := m.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// SendGrid returns 202 Accepted on success.
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid mail send http %d", resp.StatusCode)
	}
	return nil
}
