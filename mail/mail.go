/*
Package mail delivers a computed month by SMTP.

PURPOSE:
  After a month is computed the CLI can send the rendered documents to the
  employee or the department: a short text summary as body and the month
  file, the spreadsheet and the calendar as attachments.

SEE ALSO:
  - render: Produces the attachments
  - config/config.go: MailConfig
*/
package mail

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	gomail "github.com/wneessen/go-mail"
	"github.com/warp/timesheet/config"
	"github.com/warp/timesheet/generic"
	"go.uber.org/zap"
)

// Attachment is one rendered document.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Report is everything needed to build one message.
type Report struct {
	To          []string
	Subject     string // defaults to Subject(period)
	Employee    string
	Schedule    *generic.Schedule
	Attachments []Attachment
}

var bodyTemplate = template.Must(template.New("body").Parse(`Hallo {{.Employee}},

anbei der Arbeitszeitnachweis für {{.Period}} ({{.Department}}).

Soll:                {{.WorkingTime}}
Übertrag Vormonat:   {{.TransferIn}}
Urlaub:              {{.Credited}}
Gearbeitet:          {{.Worked}}
Übertrag Folgemonat: {{.TransferOut}}
{{- if .Warnings}}

Hinweise:
{{- range .Warnings}}
- {{.}}
{{- end}}
{{- end}}
`))

type bodyData struct {
	Employee    string
	Period      string
	Department  string
	WorkingTime string
	TransferIn  string
	Credited    string
	Worked      string
	TransferOut string
	Warnings    []string
}

// Subject returns the default subject line for a month.
func Subject(period generic.MonthPeriod) string {
	return "Arbeitszeitnachweis " + period.String()
}

// ExpandSubject fills the {year:04}, {year:02} and {month:02} placeholders.
func ExpandSubject(tmpl string, period generic.MonthPeriod) string {
	return strings.NewReplacer(
		"{year:04}", fmt.Sprintf("%04d", period.Year),
		"{year:02}", fmt.Sprintf("%02d", period.Year%100),
		"{month:02}", fmt.Sprintf("%02d", int(period.Month)),
	).Replace(tmpl)
}

// BuildMessage assembles the message without sending it.
func BuildMessage(from string, r Report) (*gomail.Msg, error) {
	if len(r.To) == 0 {
		return nil, fmt.Errorf("mail: no recipients")
	}
	s := r.Schedule

	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("mail: from: %w", err)
	}
	if err := m.To(r.To...); err != nil {
		return nil, fmt.Errorf("mail: to: %w", err)
	}
	subject := r.Subject
	if subject == "" {
		subject = Subject(s.Period)
	}
	m.Subject(ExpandSubject(subject, s.Period))
	m.SetDate()

	data := bodyData{
		Employee:    r.Employee,
		Period:      s.Period.String(),
		Department:  s.Department,
		WorkingTime: s.WorkingTime.String(),
		TransferIn:  s.Transfer.In.String(),
		Credited:    s.Credited.String(),
		Worked:      s.Worked().String(),
		TransferOut: s.Transfer.Out.String(),
	}
	for _, w := range s.Warnings {
		data.Warnings = append(data.Warnings, w.Error())
	}
	for _, v := range s.Violations {
		data.Warnings = append(data.Warnings, v.String())
	}
	if err := m.SetBodyTextTemplate(bodyTemplate, data); err != nil {
		return nil, fmt.Errorf("mail: body: %w", err)
	}

	for _, a := range r.Attachments {
		m.AttachReadSeeker(a.Name, bytes.NewReader(a.Data),
			gomail.WithFileContentType(gomail.ContentType(a.ContentType)))
	}
	return m, nil
}

// =============================================================================
// SENDER
// =============================================================================

// Sender sends reports over SMTP.
type Sender struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

func NewSender(cfg config.MailConfig, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{cfg: cfg, logger: logger}
}

func (s *Sender) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTimeout(time.Duration(s.cfg.Timeout) * time.Second),
	}
	if s.cfg.TLS {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password))
	}
	return gomail.NewClient(s.cfg.Host, opts...)
}

// Send builds and delivers the report.
func (s *Sender) Send(ctx context.Context, r Report) error {
	if !s.cfg.Enabled() {
		return fmt.Errorf("mail: no SMTP host configured")
	}
	m, err := BuildMessage(s.cfg.From, r)
	if err != nil {
		return err
	}
	c, err := s.client()
	if err != nil {
		return fmt.Errorf("mail: client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	s.logger.Info("timesheet mailed",
		zap.Strings("to", r.To),
		zap.Stringer("month", r.Schedule.Period),
		zap.Int("attachments", len(r.Attachments)))
	return nil
}
