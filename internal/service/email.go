package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/onegoal/onegoal/internal/markdown"
	"github.com/resend/resend-go/v2"
)

//go:embed emails/*.md
var emailFS embed.FS

const (
	emailWelcome         = "welcome"
	emailAccountDeleted  = "account_deleted"
	emailCheckInReminder = "checkin_reminder"
	emailStreakMilestone = "streak_milestone"
	emailDeadlineWarning = "deadline_warning"
	emailGoalCompleted   = "goal_completed"
)

// Mailer delivers the transactional emails the services trigger.
type Mailer interface {
	SendWelcome(email, name string) error
	SendAccountDeleted(email, name string) error
	SendCheckInReminder(email, name string) error
	SendStreakMilestone(email, name string, streak int) error
	SendDeadlineWarning(email, name, goalTitle string, daysLeft, progress int) error
	SendGoalCompleted(email, name, goalTitle string) error
}

type renderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
	parser    *markdown.Parser
	templates *template.Template
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) (*EmailService, error) {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	templates, err := template.ParseFS(emailFS, "emails/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
		parser:    markdown.NewParser(),
		templates: templates,
	}, nil
}

func (s *EmailService) SendWelcome(email, name string) error {
	return s.send(emailWelcome, email, map[string]any{"Name": name})
}

func (s *EmailService) SendAccountDeleted(email, name string) error {
	return s.send(emailAccountDeleted, email, map[string]any{"Name": name})
}

func (s *EmailService) SendCheckInReminder(email, name string) error {
	return s.send(emailCheckInReminder, email, map[string]any{"Name": name})
}

func (s *EmailService) SendStreakMilestone(email, name string, streak int) error {
	return s.send(emailStreakMilestone, email, map[string]any{"Name": name, "Streak": streak})
}

func (s *EmailService) SendDeadlineWarning(email, name, goalTitle string, daysLeft, progress int) error {
	return s.send(emailDeadlineWarning, email, map[string]any{
		"Name":      name,
		"GoalTitle": goalTitle,
		"DaysLeft":  daysLeft,
		"Progress":  progress,
	})
}

func (s *EmailService) SendGoalCompleted(email, name, goalTitle string) error {
	return s.send(emailGoalCompleted, email, map[string]any{"Name": name, "GoalTitle": goalTitle})
}

func (s *EmailService) send(emailType, to string, data map[string]any) error {
	msg, err := s.render(emailType, data)
	if err != nil {
		return err
	}

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", emailType, "to", to, "subject", msg.Subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", emailType, err)
	}

	slog.Info("email sent", "type", emailType, "to", to)
	return nil
}

// render fills the Markdown template, then converts it to HTML. The subject
// comes from the template's front matter.
func (s *EmailService) render(emailType string, data map[string]any) (*renderedEmail, error) {
	data["AppName"] = s.appName
	data["AppURL"] = s.appURL

	var buf bytes.Buffer
	err := s.templates.ExecuteTemplate(&buf, emailType+".md", data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s template: %w", emailType, err)
	}

	html, meta, err := s.parser.ParseWithFrontmatter(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to render %s email: %w", emailType, err)
	}

	subject, _ := meta["subject"].(string)
	if subject == "" {
		subject = s.appName
	}

	return &renderedEmail{
		Subject: subject,
		HTML:    string(html),
		Text:    markdown.StripFrontmatter(buf.String()),
	}, nil
}
