package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/utils"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const birthdayBody = `Parabéns pelo seu aniversário!

Hoje é um dia especial e queremos aproveitar este momento para lhe desejar muitas felicidades, saúde, conquistas e alegrias em sua vida!

Que seu novo ciclo seja repleto de realizações e que você continue sendo essa pessoa tão importante para todos nós.

Aproveite seu dia ao máximo!

Feliz Aniversário!

Atenciosamente,
Grupo Locar
`

// Mailer sends one plain text message
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer delivers mail through an SMTP relay with STARTTLS
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer from the SMTP settings
func NewSMTPMailer(cfg *config.Config) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		return nil, models.ErrSMTPNotConfigured
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}, nil
}

// Send implements Mailer
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Grupo Locar")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send e-mail: %w", err)
	}
	return nil
}

// BirthdaySource finds employees born on a given day
type BirthdaySource interface {
	Birthdays(ctx context.Context, date time.Time) ([]models.Employee, error)
}

// BirthdayReport summarizes one greeting run
type BirthdayReport struct {
	Date     string   `json:"date"`
	Found    int      `json:"found"`
	Sent     []string `json:"sent"`
	NoEmail  []string `json:"noEmail"`
	Failures []string `json:"failures"`
}

// BirthdayService e-mails birthday greetings to employees
type BirthdayService struct {
	source BirthdaySource
	mailer Mailer
	logger *logging.SafeLogger
	now    func() time.Time
}

// NewBirthdayService creates a new birthday service
func NewBirthdayService(source BirthdaySource, mailer Mailer, logger *logging.SafeLogger) *BirthdayService {
	return &BirthdayService{source: source, mailer: mailer, logger: logger.Named("birthdays"), now: time.Now}
}

// SendGreetings greets the employees whose birthday falls daysAhead days from today.
// A failed message is reported and the remaining ones are still sent.
func (s *BirthdayService) SendGreetings(ctx context.Context, daysAhead int) (*BirthdayReport, error) {
	target := s.now().AddDate(0, 0, daysAhead)
	employees, err := s.source.Birthdays(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to find birthdays: %w", err)
	}

	report := &BirthdayReport{
		Date:     target.In(utils.BrazilLocation).Format("02/01"),
		Found:    len(employees),
		Sent:     []string{},
		NoEmail:  []string{},
		Failures: []string{},
	}
	if len(employees) == 0 {
		s.logger.Info("no birthdays", zap.String("date", report.Date))
		return report, nil
	}

	for _, e := range employees {
		email := strings.TrimSpace(e.Email)
		if email == "" {
			report.NoEmail = append(report.NoEmail, e.Nome)
			continue
		}
		subject := fmt.Sprintf("Feliz Aniversário, %s!", e.Nome)
		if err := s.mailer.Send(ctx, email, subject, birthdayBody); err != nil {
			s.logger.Error("failed to send birthday e-mail", zap.String("nome", utils.MaskName(e.Nome)), zap.Error(err))
			report.Failures = append(report.Failures, e.Nome)
			continue
		}
		report.Sent = append(report.Sent, e.Nome)
		s.logger.Info("birthday e-mail sent", zap.String("nome", utils.MaskName(e.Nome)))
	}
	return report, nil
}
