package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timesheet/config"
	"github.com/warp/timesheet/generic"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timesheet.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "timesheet.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Mail.Enabled())

	opts, err := cfg.Scheduler.Options()
	require.NoError(t, err)
	assert.Equal(t, generic.MustParseTimeOfDay("10:00"), opts.Anchor)
	assert.Equal(t, generic.MustParseTimeOfDay("22:00"), opts.LatestEnd)
	assert.Equal(t, generic.MustParseWorkDuration("6:00"), opts.DailyLimit)
	assert.Equal(t, generic.GermanHolidays{}, opts.Calendar)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	// GIVEN: A file setting the port and daily limit, and an env override
	// WHEN: Loading
	// THEN: The environment wins over the file, the file over defaults

	path := writeConfig(t, `
[server]
port = 9000

[scheduler]
daily_limit = "4:00"
allow_saturday = true
`)
	t.Setenv("TIMESHEET_SERVER_PORT", "9100")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	opts, err := cfg.Scheduler.Options()
	require.NoError(t, err)
	assert.Equal(t, generic.MustParseWorkDuration("4:00"), opts.DailyLimit)
	assert.True(t, opts.AllowSaturday)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"port":        "[server]\nport = 0\n",
		"format":      "[log]\nformat = \"xml\"\n",
		"mail from":   "[mail]\nhost = \"smtp.example.org\"\n",
		"anchor":      "[scheduler]\nanchor = \"ten\"\n",
		"window":      "[scheduler]\nanchor = \"22:00\"\nlatest_end = \"10:00\"\n",
		"calendar":    "[scheduler]\ncalendar = \"mars\"\n",
		"daily limit": "[scheduler]\ndaily_limit = \"0:00\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
