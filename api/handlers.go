/*
handlers.go - HTTP API handlers for the timesheet engine

PURPOSE:
  Exposes month computation and the recorded month history via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  factory (documents) and the timesheet service (engine + store).

ENDPOINTS:
  Months:
    POST   /api/months/compute                        Compute a month from TOML documents
    POST   /api/months/validate                       Check TOML documents only

  History:
    GET    /api/employees/{employee}/months           Recorded months
    GET    /api/employees/{employee}/months/{month}   Latest record of a month
    GET    /api/employees/{employee}/months/{month}/history  Every record
    GET    /api/employees/{employee}/statement?from=&to=     Transfer chain

  Calendars:
    GET    /api/calendars                             Registered holiday calendars
    GET    /api/calendars/{name}/{year}               Public holidays of a year

COMPUTE FORMATS (?format=):
  json (default)  ComputeResponse
  month           Month file for the external validator
  global          Global file for the external validator
  ics             iCalendar
  xlsx            Spreadsheet

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body, invalid documents
  - 404: Month never recorded, unknown calendar
  - 409: Duplicate record
  - 422: Conflicts, holiday placement, missing contract, rule violations
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/warp/timesheet/factory"
	"github.com/warp/timesheet/generic"
	"github.com/warp/timesheet/render"
	"github.com/warp/timesheet/timesheet"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// maxBodyBytes bounds the size of a compute request.
const maxBodyBytes = 1 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *timesheet.Service
	Factory *factory.Factory
	Logger  *zap.Logger

	// Location is the wall-clock zone of iCalendar exports.
	Location *time.Location
}

// NewHandler creates a new handler around the service.
func NewHandler(svc *timesheet.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Service:  svc,
		Factory:  factory.New(),
		Logger:   logger,
		Location: time.UTC,
	}
}

// =============================================================================
// MONTH HANDLERS
// =============================================================================

// Compute builds and computes a month, optionally recording it.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	format, err := outputFormat(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown format", err)
		return
	}
	req, global, ok := h.decodeDocuments(w, r)
	if !ok {
		return
	}
	month, err := h.Factory.ParseMonth([]byte(req.Month))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	input, err := h.Factory.Build(global, month)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	schedule, err := h.Service.Prepare(r.Context(), req.Employee, input)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	// Documents are rendered before recording so a failed render leaves
	// nothing behind.
	var doc document
	if format != formatJSON {
		if doc, err = h.render(format, global, schedule); err != nil {
			h.writeDomainError(w, r, err)
			return
		}
	}

	var recordID string
	if req.Record {
		rec, err := h.Service.Record(r.Context(), req.Employee, schedule)
		if err != nil {
			h.writeDomainError(w, r, err)
			return
		}
		recordID = rec.ID
	}

	switch {
	case format == formatJSON:
		writeJSON(w, http.StatusOK, ComputeResponse{Schedule: toScheduleDTO(schedule), RecordID: recordID})
	case doc.filename == "":
		w.Header().Set("Content-Type", doc.contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(doc.body)
	default:
		writeAttachment(w, doc.contentType, doc.filename, doc.body)
	}
}

// =============================================================================
// OUTPUT FORMATS
// =============================================================================

const formatJSON = "json"

var formats = map[string]bool{formatJSON: true, "month": true, "global": true, "ics": true, "xlsx": true}

// document is a rendered schedule. An empty filename is served inline.
type document struct {
	contentType string
	filename    string
	body        []byte
}

func outputFormat(r *http.Request) (string, error) {
	format := r.URL.Query().Get("format")
	if format == "" {
		return formatJSON, nil
	}
	if !formats[format] {
		return "", fmt.Errorf("format %q", format)
	}
	return format, nil
}

func (h *Handler) render(format string, global *factory.GlobalDocument, s *generic.Schedule) (document, error) {
	name := s.Period.String()
	switch format {
	case "month":
		return jsonDocument(render.NewMonthFile(s))
	case "global":
		return jsonDocument(render.NewGlobalFile(global.About.Name, global.About.StaffID, s))
	case "ics":
		body := render.ICal(s, render.ICalOptions{Name: global.About.Name, Location: h.Location})
		return document{contentType: "text/calendar; charset=utf-8", filename: name + ".ics", body: []byte(body)}, nil
	case "xlsx":
		buf, err := render.XLSX(s, global.About.Name)
		if err != nil {
			return document{}, fmt.Errorf("render %s.xlsx: %w", name, err)
		}
		return document{
			contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			filename:    name + ".xlsx",
			body:        buf.Bytes(),
		}, nil
	}
	return document{}, fmt.Errorf("format %q", format)
}

func jsonDocument(v any) (document, error) {
	var buf bytes.Buffer
	if err := render.WriteJSON(&buf, v); err != nil {
		return document{}, err
	}
	return document{contentType: "application/json", body: buf.Bytes()}, nil
}

// ValidateDocuments checks both documents and the contract selection
// without computing.
func (h *Handler) ValidateDocuments(w http.ResponseWriter, r *http.Request) {
	req, global, ok := h.decodeDocuments(w, r)
	if !ok {
		return
	}
	month, err := h.Factory.ParseMonth([]byte(req.Month))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	input, err := h.Factory.Build(global, month)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if _, err := timesheet.SelectContract(input.Contracts, input.Department, input.Period); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeDocuments(w http.ResponseWriter, r *http.Request) (ComputeRequest, *factory.GlobalDocument, bool) {
	var req ComputeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return req, nil, false
	}
	if err := h.Factory.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return req, nil, false
	}
	global, err := h.Factory.ParseGlobal([]byte(req.Global))
	if err != nil {
		h.writeDomainError(w, r, err)
		return req, nil, false
	}
	return req, global, true
}

// =============================================================================
// HISTORY HANDLERS
// =============================================================================

// ListMonths returns the months recorded for an employee.
func (h *Handler) ListMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.Service.Months(r.Context(), chi.URLParam(r, "employee"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = m.String()
	}
	writeJSON(w, http.StatusOK, out)
}

// GetMonth returns the latest record of a month with its entries.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	period, ok := monthParam(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.Latest(r.Context(), chi.URLParam(r, "employee"), period)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec, true))
}

// GetMonthHistory returns every record of a month, oldest first.
func (h *Handler) GetMonthHistory(w http.ResponseWriter, r *http.Request) {
	period, ok := monthParam(w, r)
	if !ok {
		return
	}
	recs, err := h.Service.History(r.Context(), chi.URLParam(r, "employee"), period)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if len(recs) == 0 {
		h.writeDomainError(w, r, generic.ErrMonthNotFound)
		return
	}
	out := make([]RecordDTO, len(recs))
	for i, rec := range recs {
		out[i] = toRecordDTO(rec, false)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetStatement replays the transfer chain between two months.
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := generic.ParseMonthPeriod(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from", err)
		return
	}
	to, err := generic.ParseMonthPeriod(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to", err)
		return
	}
	if to.First().Before(from.First()) {
		writeError(w, http.StatusBadRequest, "Invalid range", fmt.Errorf("%s is before %s", to, from))
		return
	}
	st, err := h.Service.Statement(r.Context(), chi.URLParam(r, "employee"), from, to)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatementDTO(st))
}

func monthParam(w http.ResponseWriter, r *http.Request) (generic.MonthPeriod, bool) {
	period, err := generic.ParseMonthPeriod(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return period, false
	}
	return period, true
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, generic.ListCalendars())
}

func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cal := generic.LookupCalendar(name)
	if cal == nil {
		writeError(w, http.StatusNotFound, "Calendar not found", fmt.Errorf("calendar %q", name))
		return
	}
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	dto := CalendarDTO{Name: name, Year: year, Holidays: []PublicHolidayDTO{}}
	for _, ph := range cal.Holidays(year) {
		dto.Holidays = append(dto.Holidays, PublicHolidayDTO{Date: ph.Date.String(), Name: ph.Name})
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, factory.ErrInvalidDocument):
		writeError(w, http.StatusBadRequest, "Invalid document", err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Month not found", err)
	case errors.Is(err, generic.ErrDuplicateRecord):
		writeError(w, http.StatusConflict, "Duplicate record", err)
	case generic.IsClientError(err):
		writeError(w, http.StatusUnprocessableEntity, "Month cannot be computed", err)
	default:
		h.Logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
