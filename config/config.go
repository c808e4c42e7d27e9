/*
Package config loads the application configuration.

PRECEDENCE:
  environment (TIMESHEET_*) > config file > defaults

  TIMESHEET_SERVER_PORT=9000 overrides server.port,
  TIMESHEET_SCHEDULER_DAILY_LIMIT=4:00 overrides scheduler.daily_limit.

SEE ALSO:
  - timesheet/allocator.go: Options built from the scheduler section
  - cmd/server/main.go, cmd/timesheet/main.go: Callers
*/
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/timesheet"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Mail      MailConfig      `mapstructure:"mail"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	// Path of the SQLite file, ":memory:" for a throwaway database.
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	TLS      bool   `mapstructure:"tls"`
	Timeout  int    `mapstructure:"timeout"` // seconds
}

// Enabled reports whether an SMTP host is configured.
func (m MailConfig) Enabled() bool { return m.Host != "" }

// SchedulerConfig holds allocator options as H:MM strings.
type SchedulerConfig struct {
	Anchor           string `mapstructure:"anchor"`
	LatestEnd        string `mapstructure:"latest_end"`
	DailyLimit       string `mapstructure:"daily_limit"`
	AllowSaturday    bool   `mapstructure:"allow_saturday"`
	MixWithCommitted bool   `mapstructure:"mix_with_committed"`
	MixWithAbsences  bool   `mapstructure:"mix_with_absences"`
	Calendar         string `mapstructure:"calendar"`
	Strict           bool   `mapstructure:"strict"`
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("db.path", "timesheet.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("mail.port", 465)
	v.SetDefault("mail.tls", true)
	v.SetDefault("mail.timeout", 10)

	defaults := timesheet.DefaultOptions()
	v.SetDefault("scheduler.anchor", defaults.Anchor.String())
	v.SetDefault("scheduler.latest_end", defaults.LatestEnd.String())
	v.SetDefault("scheduler.daily_limit", defaults.DailyLimit.String())
	v.SetDefault("scheduler.allow_saturday", defaults.AllowSaturday)
	v.SetDefault("scheduler.mix_with_committed", defaults.MixWithCommitted)
	v.SetDefault("scheduler.mix_with_absences", defaults.MixWithAbsences)
	v.SetDefault("scheduler.calendar", "de")
	v.SetDefault("scheduler.strict", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("timesheet")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TIMESHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be within 1-65535, got %d", c.Server.Port)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Mail.Enabled() && c.Mail.From == "" {
		return fmt.Errorf("config: mail.from is required when mail.host is set")
	}
	if _, err := c.Scheduler.Options(); err != nil {
		return err
	}
	return nil
}

// Options converts the scheduler section into allocator options.
func (s SchedulerConfig) Options() (timesheet.Options, error) {
	opts := timesheet.DefaultOptions()
	var err error
	if opts.Anchor, err = generic.ParseTimeOfDay(s.Anchor); err != nil {
		return opts, fmt.Errorf("config: scheduler.anchor: %w", err)
	}
	if opts.LatestEnd, err = generic.ParseTimeOfDay(s.LatestEnd); err != nil {
		return opts, fmt.Errorf("config: scheduler.latest_end: %w", err)
	}
	if opts.DailyLimit, err = generic.ParseWorkDuration(s.DailyLimit); err != nil {
		return opts, fmt.Errorf("config: scheduler.daily_limit: %w", err)
	}
	if opts.Anchor >= opts.LatestEnd {
		return opts, fmt.Errorf("config: scheduler.anchor %s must be before latest_end %s", opts.Anchor, opts.LatestEnd)
	}
	if !opts.DailyLimit.IsPositive() {
		return opts, fmt.Errorf("config: scheduler.daily_limit must be positive")
	}
	cal := generic.LookupCalendar(s.Calendar)
	if cal == nil {
		return opts, fmt.Errorf("config: unknown scheduler.calendar %q (known: %s)",
			s.Calendar, strings.Join(generic.ListCalendars(), ", "))
	}
	opts.Calendar = cal
	opts.AllowSaturday = s.AllowSaturday
	opts.MixWithCommitted = s.MixWithCommitted
	opts.MixWithAbsences = s.MixWithAbsences
	return opts, nil
}
