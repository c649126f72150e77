package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/scafhq/attendance-engine/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService sends punch receipts to workers. Delivery is
// best-effort: callers must treat a failure as non-fatal.
type EmailService interface {
	SendReceipt(to, workerName, date, timeOfDay, label, area string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type receiptEmailData struct {
	WorkerName string
	Date       string
	Time       string
	Label      string
	Area       string
}

// SendReceipt sends a punch confirmation to the worker.
func (s *emailServiceImpl) SendReceipt(to, workerName, date, timeOfDay, label, area string) error {
	data := receiptEmailData{
		WorkerName: workerName,
		Date:       date,
		Time:       timeOfDay,
		Label:      label,
		Area:       area,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "receipt.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Comprobante de Marca - %s - %s", label, date), body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	// One attempt only: receipts are sent from inside the engine loop
	// and must never stall a reconciliation pass.
	if err := smtp.SendMail(addr, auth, from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}
