/*
main.go - Command line entry point

PURPOSE:
  Computes one month from the TOML documents an employee maintains and
  writes the rendered documents next to the month file. "send" also mails
  them.

COMMANDS:
  timesheet make -global global.toml -month 2025-02.toml [-out dir]
  timesheet send -global global.toml -month 2025-02.toml -subject "..." recipient@example.org

COMMON FLAGS:
  -config    Config file (scheduler, db, log, mail settings)
  -out       Output directory (default: <month dir>/out)
  -formats   Comma separated: month,global,ics,xlsx (default: all)
  -employee  Record the month under this employee in the configured db;
             a month without [transfer] starts from the previous record
  -strict    Fail on working-time rule violations

SEND FLAGS:
  -subject   Subject template, {year:04} {year:02} {month:02} are replaced
  -keep      Keep the written files after sending

SEE ALSO:
  - factory/factory.go: Document schema
  - render: Output formats
  - mail/mail.go: Delivery
*/
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/warp/timesheet/config"
	"github.com/warp/timesheet/factory"
	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/logging"
	"github.com/warp/timesheet/mail"
	"github.com/warp/timesheet/render"
	"github.com/warp/timesheet/store/sqlite"
	"github.com/warp/timesheet/timesheet"
	"go.uber.org/zap"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "timesheet: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage: timesheet make|send [flags]")

// options holds the parsed flags of one invocation.
type options struct {
	command    string
	configPath string
	globalPath string
	monthPath  string
	outDir     string
	formats    []string
	employee   string
	strict     bool
	subject    string
	keep       bool
	recipients []string
}

func parseArgs(args []string) (options, error) {
	if len(args) == 0 {
		return options{}, errUsage
	}
	opts := options{command: args[0]}
	if opts.command != "make" && opts.command != "send" {
		return opts, fmt.Errorf("unknown command %q: %w", opts.command, errUsage)
	}

	fs := flag.NewFlagSet(opts.command, flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Config file")
	fs.StringVar(&opts.globalPath, "global", "", "Path to the global file")
	fs.StringVar(&opts.monthPath, "month", "", "Path to the month file")
	fs.StringVar(&opts.outDir, "out", "", "Output directory (default: <month dir>/out)")
	formats := fs.String("formats", "month,global,ics,xlsx", "Documents to write")
	fs.StringVar(&opts.employee, "employee", "", "Record the month under this employee")
	fs.BoolVar(&opts.strict, "strict", false, "Fail on working-time rule violations")
	if opts.command == "send" {
		fs.StringVar(&opts.subject, "subject", "", "Subject template")
		fs.BoolVar(&opts.keep, "keep", false, "Keep the written files after sending")
	}
	err := fs.Parse(args[1:])
	if err != nil {
		return opts, err
	}

	if opts.globalPath == "" || opts.monthPath == "" {
		return opts, errors.New("-global and -month are required")
	}
	if opts.formats, err = parseFormats(*formats); err != nil {
		return opts, err
	}
	if opts.outDir == "" {
		opts.outDir = filepath.Join(filepath.Dir(opts.monthPath), "out")
	}
	if opts.command == "send" {
		opts.recipients = fs.Args()
		if len(opts.recipients) == 0 {
			return opts, errors.New("send: missing recipient")
		}
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	schedOpts, err := cfg.Scheduler.Options()
	if err != nil {
		return err
	}
	engine := timesheet.NewEngine(schedOpts, logger)
	engine.Strict = cfg.Scheduler.Strict || opts.strict

	global, _, input, err := factory.New().LoadFiles(opts.globalPath, opts.monthPath)
	if err != nil {
		return err
	}

	var (
		svc   *timesheet.Service
		store *sqlite.Store
	)
	if opts.employee != "" {
		if store, err = sqlite.New(cfg.Database.Path); err != nil {
			return err
		}
		defer store.Close()
		svc = timesheet.NewService(engine, store, logger)
	}

	var schedule *generic.Schedule
	if svc != nil {
		schedule, err = svc.Prepare(ctx, opts.employee, input)
	} else {
		schedule, err = engine.Compute(input)
	}
	if err != nil {
		return err
	}

	for _, label := range render.OverflowingLabels(schedule) {
		logger.Warn("label longer than the form allows",
			zap.String("label", label),
			zap.Int("max", render.MaxLabelLength))
	}
	printSummary(stdout, schedule)

	docs, err := renderDocuments(opts.formats, global, schedule)
	if err != nil {
		return err
	}
	if svc != nil {
		if _, err := svc.Record(ctx, opts.employee, schedule); err != nil {
			return err
		}
	}
	written, err := writeDocuments(opts.outDir, docs)
	if err != nil {
		return err
	}
	for _, w := range written {
		fmt.Fprintf(stdout, "wrote %s\n", w.path)
	}

	if opts.command != "send" {
		return nil
	}
	report := mail.Report{
		To:       opts.recipients,
		Subject:  opts.subject,
		Employee: global.About.Name,
		Schedule: schedule,
	}
	for _, w := range written {
		report.Attachments = append(report.Attachments, w.attachment)
	}
	if err := mail.NewSender(cfg.Mail, logger).Send(ctx, report); err != nil {
		return err
	}
	if !opts.keep {
		for _, w := range written {
			if err := os.Remove(w.path); err != nil {
				return err
			}
		}
	}
	return nil
}

func printSummary(w io.Writer, s *generic.Schedule) {
	fmt.Fprintf(w, "%s %s\n", s.Period, s.Department)
	fmt.Fprintf(w, "  working time   %8s\n", s.WorkingTime)
	fmt.Fprintf(w, "  transfer in    %8s\n", s.Transfer.In)
	fmt.Fprintf(w, "  holiday        %8s\n", s.Credited)
	fmt.Fprintf(w, "  committed      %8s\n", s.Committed)
	fmt.Fprintf(w, "  dynamic        %8s\n", s.Dynamic)
	fmt.Fprintf(w, "  transfer out   %8s\n", s.Transfer.Out)
	for _, u := range s.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", u.Error())
	}
	for _, v := range s.Violations {
		fmt.Fprintf(w, "  violation: %s\n", v)
	}
}

var knownFormats = map[string]bool{"month": true, "global": true, "ics": true, "xlsx": true}

func parseFormats(list string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !knownFormats[f] {
			return nil, fmt.Errorf("unknown format %q", f)
		}
		out = append(out, f)
	}
	return out, nil
}

// renderDocuments renders every requested format in memory.
func renderDocuments(formats []string, global *factory.GlobalDocument, s *generic.Schedule) ([]mail.Attachment, error) {
	base := s.Period.String()

	var out []mail.Attachment
	for _, format := range formats {
		var (
			doc  mail.Attachment
			data []byte
			err  error
		)
		switch format {
		case "month":
			doc = mail.Attachment{Name: base + ".json", ContentType: "application/json"}
			data, err = encodeJSON(render.NewMonthFile(s))
		case "global":
			doc = mail.Attachment{Name: base + ".global.json", ContentType: "application/json"}
			data, err = encodeJSON(render.NewGlobalFile(global.About.Name, global.About.StaffID, s))
		case "ics":
			doc = mail.Attachment{Name: base + ".ics", ContentType: "text/calendar"}
			data = []byte(render.ICal(s, render.ICalOptions{Name: global.About.Name}))
		case "xlsx":
			doc = mail.Attachment{Name: base + ".xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}
			var buf *bytes.Buffer
			if buf, err = render.XLSX(s, global.About.Name); err == nil {
				data = buf.Bytes()
			}
		default:
			err = errors.New("unknown format")
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		doc.Data = data
		out = append(out, doc)
	}
	return out, nil
}

type writtenFile struct {
	path       string
	attachment mail.Attachment
}

func writeDocuments(dir string, docs []mail.Attachment) ([]writtenFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var out []writtenFile
	for _, doc := range docs {
		path := filepath.Join(dir, doc.Name)
		if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
			return nil, err
		}
		out = append(out, writtenFile{path: path, attachment: doc})
	}
	return out, nil
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := render.WriteJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
