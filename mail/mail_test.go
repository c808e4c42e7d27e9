package mail_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet/config"
	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/mail"
	"go.uber.org/zap"
)

func schedule() *generic.Schedule {
	return &generic.Schedule{
		Period:      generic.MonthPeriod{Year: 2025, Month: time.February},
		Department:  "IPD",
		WorkingTime: generic.MustParseWorkDuration("40:00"),
		Committed:   generic.MustParseWorkDuration("6:40"),
		Dynamic:     generic.MustParseWorkDuration("30:00"),
		Transfer:    generic.TransferBalance{Out: -generic.MustParseWorkDuration("3:20")},
		Warnings: []generic.UnderAllocation{{
			Label:     "Vorbereitung",
			Requested: generic.MustParseWorkDuration("33:20"),
			Placed:    generic.MustParseWorkDuration("30:00"),
			Reason:    generic.ReasonMonthExhausted,
		}},
	}
}

func TestBuildMessage(t *testing.T) {
	// GIVEN: A computed month with one warning and two attachments
	// WHEN: Building the message
	// THEN: Headers, summary and attachment names are present

	m, err := mail.BuildMessage("timesheet@example.org", mail.Report{
		To:       []string{"ada@example.org"},
		Employee: "Ada",
		Schedule: schedule(),
		Attachments: []mail.Attachment{
			{Name: "2025-02.json", ContentType: "application/json", Data: []byte(`{"year":2025}`)},
			{Name: "2025-02.ics", ContentType: "text/calendar", Data: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")},
		},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Subject: Arbeitszeitnachweis 2025-02")
	assert.Contains(t, raw, "<ada@example.org>")
	assert.Contains(t, raw, `filename="2025-02.json"`)
	assert.Contains(t, raw, `filename="2025-02.ics"`)
	assert.Contains(t, raw, "36:40")
	assert.Contains(t, raw, "-03:20")
	assert.Contains(t, raw, "Vorbereitung")
}

func TestBuildMessage_Invalid(t *testing.T) {
	_, err := mail.BuildMessage("timesheet@example.org", mail.Report{Schedule: schedule()})
	assert.Error(t, err)

	_, err = mail.BuildMessage("not an address", mail.Report{To: []string{"ada@example.org"}, Schedule: schedule()})
	assert.Error(t, err)
}

func TestSender_RequiresHost(t *testing.T) {
	s := mail.NewSender(config.MailConfig{}, zap.NewNop())
	err := s.Send(context.Background(), mail.Report{To: []string{"ada@example.org"}, Schedule: schedule()})
	assert.ErrorContains(t, err, "no SMTP host")
}

func TestExpandSubject(t *testing.T) {
	feb := generic.MonthPeriod{Year: 2025, Month: time.February}

	assert.Equal(t, "Stundenzettel 2025-02", mail.ExpandSubject("Stundenzettel {year:04}-{month:02}", feb))
	assert.Equal(t, "HiWi 02/25", mail.ExpandSubject("HiWi {month:02}/{year:02}", feb))
	assert.Equal(t, "no placeholders", mail.ExpandSubject("no placeholders", feb))
}

func TestBuildMessage_CustomSubject(t *testing.T) {
	m, err := mail.BuildMessage("timesheet@example.org", mail.Report{
		To:       []string{"ada@example.org"},
		Subject:  "Stundenzettel {month:02}/{year:04}",
		Schedule: schedule(),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: Stundenzettel 02/2025")
}
