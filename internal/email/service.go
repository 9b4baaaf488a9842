package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	TemplateWelcome               = "welcome"
	TemplateTrialExpiring         = "trial-expiring"
	TemplatePaymentSuccess        = "payment-success"
	TemplateSubscriptionCancelled = "subscription-cancelled"
	TemplatePaymentFailed         = "payment-failed"
)

// TrialDays is quoted in the welcome email.
const TrialDays = 14

// Notifier sends the application's transactional emails. Every method
// reports success and never fails the caller.
type Notifier interface {
	SendWelcome(ctx context.Context, to, firstName string) bool
	SendTrialExpiring(ctx context.Context, to, firstName string, daysRemaining int) bool
	SendPaymentSuccess(ctx context.Context, to, firstName string, amount float64, planName string) bool
	SendSubscriptionCancelled(ctx context.Context, to, firstName string, endDate time.Time) bool
	SendPaymentFailed(ctx context.Context, to, firstName string) bool
}

// Service renders templates and hands them to a Sender
type Service struct {
	sender  Sender
	from    string
	baseURL string
	tmpl    *template.Template
	logger  *logger.Logger
}

// NewService creates an email service. baseURL is the frontend used for links.
func NewService(sender Sender, from, fromName, baseURL string, log *logger.Logger) *Service {
	s := &Service{
		sender:  sender,
		from:    formatFrom(from, fromName),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		log.ErrorWithErr(err, "Failed to parse email templates, using plain text")
	} else {
		s.tmpl = tmpl
	}
	return s
}

func formatFrom(addr, name string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

type templateData struct {
	FirstName     string
	TrialDays     int
	DaysRemaining int
	Amount        string
	Plan          string
	EndDate       string
	URL           string
}

func (s *Service) SendWelcome(ctx context.Context, to, firstName string) bool {
	data := templateData{FirstName: firstName, TrialDays: TrialDays, URL: s.baseURL + "/login"}
	return s.send(ctx, to, TemplateWelcome, "Welcome to Flowvera - Your Trial Has Started!", data)
}

func (s *Service) SendTrialExpiring(ctx context.Context, to, firstName string, daysRemaining int) bool {
	data := templateData{FirstName: firstName, DaysRemaining: daysRemaining, URL: s.baseURL + "/subscription"}
	subject := fmt.Sprintf("Your Flowvera Trial Expires in %d Days", daysRemaining)
	return s.send(ctx, to, TemplateTrialExpiring, subject, data)
}

func (s *Service) SendPaymentSuccess(ctx context.Context, to, firstName string, amount float64, planName string) bool {
	data := templateData{
		FirstName: firstName,
		Amount:    fmt.Sprintf("%.2f", amount),
		Plan:      planName,
		URL:       s.baseURL + "/dashboard",
	}
	return s.send(ctx, to, TemplatePaymentSuccess, "Payment Successful - Thank You!", data)
}

func (s *Service) SendSubscriptionCancelled(ctx context.Context, to, firstName string, endDate time.Time) bool {
	data := templateData{
		FirstName: firstName,
		EndDate:   endDate.Format("January 2, 2006"),
		URL:       s.baseURL + "/subscription",
	}
	return s.send(ctx, to, TemplateSubscriptionCancelled, "Subscription Cancelled", data)
}

func (s *Service) SendPaymentFailed(ctx context.Context, to, firstName string) bool {
	data := templateData{FirstName: firstName, URL: s.baseURL + "/subscription"}
	return s.send(ctx, to, TemplatePaymentFailed, "Payment Failed - Action Required", data)
}

func (s *Service) send(ctx context.Context, to, name, subject string, data templateData) bool {
	if data.FirstName == "" {
		data.FirstName = "there"
	}

	msg := Message{
		From:     s.from,
		To:       to,
		Subject:  subject,
		Tag:      name,
		HTMLBody: s.render(name, data),
		TextBody: plainText(name, data),
	}

	log := s.logger.WithFields(map[string]interface{}{
		"to":       to,
		"template": name,
		"provider": s.sender.Name(),
	})

	if err := s.sender.Send(ctx, msg); err != nil {
		metrics.RecordEmail(name, false)
		log.WithError(err).Warn("Email not delivered")
		return false
	}
	metrics.RecordEmail(name, true)
	log.Info("Email sent")
	return true
}

// render returns the HTML body, or "" when the template is unavailable.
func (s *Service) render(name string, data templateData) string {
	if s.tmpl == nil || s.tmpl.Lookup(name+".html") == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name+".html", data); err != nil {
		s.logger.WithError(err).Warnf("Failed to render email template %s", name)
		return ""
	}
	return buf.String()
}

func plainText(name string, d templateData) string {
	switch name {
	case TemplateWelcome:
		return fmt.Sprintf("Welcome to Flowvera, %s!\n\nYour free trial has started. You have %d days to explore all features.\n\n%s",
			d.FirstName, d.TrialDays, d.URL)
	case TemplateTrialExpiring:
		return fmt.Sprintf("Hi %s,\n\nYour free trial expires in %d days. Upgrade to continue using Flowvera.\n\n%s",
			d.FirstName, d.DaysRemaining, d.URL)
	case TemplatePaymentSuccess:
		return fmt.Sprintf("Hi %s,\n\nYour payment of $%s for the %s plan was successful. Thank you for subscribing to Flowvera!\n\n%s",
			d.FirstName, d.Amount, d.Plan, d.URL)
	case TemplateSubscriptionCancelled:
		return fmt.Sprintf("Hi %s,\n\nYour subscription has been cancelled. Your access will continue until %s.\n\n%s",
			d.FirstName, d.EndDate, d.URL)
	case TemplatePaymentFailed:
		return fmt.Sprintf("Hi %s,\n\nWe could not process your latest payment. Please update your billing details.\n\n%s",
			d.FirstName, d.URL)
	}
	return fmt.Sprintf("Hi %s,\n\nYou have a new notification from Flowvera.", d.FirstName)
}

var _ Notifier = (*Service)(nil)
