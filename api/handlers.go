/*
handlers.go - HTTP API handlers for the flexitime engine

PURPOSE:
  Exposes the attendance engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                     List all employees
    POST   /api/employees                     Create employee (+ materialize span)
    GET    /api/employees/{id}                Get employee details
    PUT    /api/employees/{id}                Update employee (+ replay)
    DELETE /api/employees/{id}                Delete employee (+ purge records)
    GET    /api/employees/{id}/balance        Running balance as of today

  Records:
    GET    /api/employees/{id}/records        List records (optional from/to)
    GET    /api/employees/{id}/records/{date} Get one day
    PUT    /api/employees/{id}/records/{date} Edit one day (+ replay later days)
    POST   /api/employees/{id}/materialize    Ensure a record span

  Clocking:
    POST   /api/clock                         Bulk clock-in/out for today

  Models:
    GET    /api/models                        List work-time models
    POST   /api/models                        Create/update model (validated)
    DELETE /api/models/{name}                 Delete model

  Reference lists:
    GET    /api/lists/{name}                  Rank or unit list ("ranks"/"units")
    PUT    /api/lists/{name}                  Replace the list wholesale

  Statuses:
    GET    /api/statuses                      Configured status labels

  Preview:
    GET    /api/preview/net                   Ad-hoc net minutes calculation

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate employee)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/warp/flexitime-engine/flexitime"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine    *flexitime.Engine
	Employees flexitime.EmployeeStore
	Models    flexitime.ModelStore
	Lists     flexitime.ReferenceStore
	Log       logrus.FieldLogger
}

// NewHandler creates a new handler around the engine and its stores.
func NewHandler(engine *flexitime.Engine, employees flexitime.EmployeeStore, models flexitime.ModelStore, lists flexitime.ReferenceStore, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{Engine: engine, Employees: employees, Models: models, Lists: lists, Log: log}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Employees.Employees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns one employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	emp, err := h.Employees.Employee(r.Context(), id)
	if err != nil {
		writeStoreError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee creates an employee and materializes their record span.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp := flexitime.Employee{
		ID:        req.ID,
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Model:     req.Model,
		Rank:      req.Rank,
		Unit:      req.Unit,
	}
	if err := h.Engine.CreateEmployee(r.Context(), emp); err != nil {
		switch {
		case errors.Is(err, flexitime.ErrDuplicateEmployee):
			writeError(w, http.StatusConflict, "Employee already exists", err)
		case flexitime.IsClientError(err):
			writeError(w, http.StatusBadRequest, "Invalid employee", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		}
		return
	}

	created, err := h.Employees.Employee(r.Context(), req.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(created))
}

// UpdateEmployee updates master data and replays the employee's records.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = id

	emp := flexitime.Employee{
		ID:        req.ID,
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Model:     req.Model,
		Rank:      req.Rank,
		Unit:      req.Unit,
	}
	if err := h.Engine.UpdateEmployee(r.Context(), emp); err != nil {
		writeStoreError(w, "Failed to update employee", err)
		return
	}

	updated, err := h.Employees.Employee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read back employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(updated))
}

// DeleteEmployee removes an employee and purges their records.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Engine.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBalance returns the running balance as of today.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	bal, err := h.Engine.Balance(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read balance", err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{
		EmployeeID: id,
		Balance:    flexitime.FormatSigned(bal.Minutes),
		Defaulted:  bal.Defaulted,
	})
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// ListRecords returns an employee's records, optionally bounded by the
// from/to query parameters (inclusive, "2006-01-02").
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var from, to flexitime.Date
	if s := r.URL.Query().Get("from"); s != "" {
		d, err := flexitime.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
		from = d
	}
	if s := r.URL.Query().Get("to"); s != "" {
		d, err := flexitime.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
		to = d
	}

	records, err := h.Engine.Records(r.Context(), id, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}

	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRecord returns one day's record.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	date, err := flexitime.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	rec, err := h.Engine.Record(r.Context(), id, date)
	if err != nil {
		writeStoreError(w, "Failed to get record", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// UpdateRecord edits one day and replays the following days.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	date, err := flexitime.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	var req UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := h.Engine.UpdateRecord(r.Context(), id, date, flexitime.RecordUpdate{
		Status: req.Status,
		Start:  req.Start,
		End:    req.End,
	})
	if err != nil {
		if flexitime.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid record edit", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update record", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// Materialize ensures a record span exists for an employee.
func (h *Handler) Materialize(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MaterializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var added int
	var err error
	if req.From == "" && req.To == "" {
		added, err = h.Engine.EnsureDefault(r.Context(), id)
	} else {
		var from, to flexitime.Date
		if from, err = flexitime.ParseDate(req.From); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
		if to, err = flexitime.ParseDate(req.To); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
		added, err = h.Engine.EnsureRange(r.Context(), id, from, to)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to materialize records", err)
		return
	}
	writeJSON(w, http.StatusOK, MaterializeResponse{Added: added})
}

// =============================================================================
// CLOCKING
// =============================================================================

// Clock sets today's clock-in or clock-out for a batch of employees.
func (h *Handler) Clock(w http.ResponseWriter, r *http.Request) {
	var req ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.EmployeeIDs) == 0 {
		writeError(w, http.StatusBadRequest, "No employees given", nil)
		return
	}
	at, ok := flexitime.ParseClock(req.At)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid clock time", flexitime.ErrInvalidClock)
		return
	}

	var res flexitime.ClockResult
	var err error
	switch req.Direction {
	case "in":
		res, err = h.Engine.SetClockIn(r.Context(), req.EmployeeIDs, at, req.Overwrite)
	case "out":
		res, err = h.Engine.SetClockOut(r.Context(), req.EmployeeIDs, at, req.Overwrite)
	default:
		writeError(w, http.StatusBadRequest, "Direction must be \"in\" or \"out\"", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set clock times", err)
		return
	}
	writeJSON(w, http.StatusOK, ClockResponse{Changed: res.Changed, Skipped: res.Skipped})
}

// =============================================================================
// MODEL HANDLERS
// =============================================================================

// ListModels returns all work-time models.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.Models.Models(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list models", err)
		return
	}
	dtos := make([]ModelDTO, len(models))
	for i, m := range models {
		dtos[i] = toModelDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveModel creates or updates a work-time model.
func (h *Handler) SaveModel(w http.ResponseWriter, r *http.Request) {
	var dto ModelDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	m, err := dto.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid model hours", err)
		return
	}
	if err := m.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Model validation failed", err)
		return
	}
	if err := h.Models.SaveModel(r.Context(), m); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save model", err)
		return
	}
	writeJSON(w, http.StatusCreated, toModelDTO(m))
}

// DeleteModel removes a work-time model. Employees that still reference
// it fall back to the default schedule on the next replay.
func (h *Handler) DeleteModel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Models.DeleteModel(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete model", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REFERENCE LISTS
// =============================================================================

// referenceListName resolves and validates the list name route
// parameter. Only the built-in lists exist.
func referenceListName(r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	switch name {
	case flexitime.ListRanks, flexitime.ListUnits:
		return name, true
	}
	return name, false
}

// GetReferenceList returns a reference list's values in order.
func (h *Handler) GetReferenceList(w http.ResponseWriter, r *http.Request) {
	name, ok := referenceListName(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown reference list", nil)
		return
	}
	values, err := h.Lists.ReferenceList(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get reference list", err)
		return
	}
	if values == nil {
		values = []string{}
	}
	writeJSON(w, http.StatusOK, ReferenceListDTO{Name: name, Values: values})
}

// SaveReferenceList replaces a reference list wholesale. Blank entries
// are dropped.
func (h *Handler) SaveReferenceList(w http.ResponseWriter, r *http.Request) {
	name, ok := referenceListName(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown reference list", nil)
		return
	}

	var dto ReferenceListDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	values := make([]string, 0, len(dto.Values))
	for _, v := range dto.Values {
		v = strings.TrimSpace(v)
		if v != "" {
			values = append(values, v)
		}
	}
	if err := h.Lists.ReplaceReferenceList(r.Context(), name, values); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save reference list", err)
		return
	}
	writeJSON(w, http.StatusOK, ReferenceListDTO{Name: name, Values: values})
}

// =============================================================================
// STATUSES AND PREVIEW
// =============================================================================

// ListStatuses returns the configured status labels with their rules.
func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	rules := h.Engine.Rules()
	labels := rules.Labels()
	dtos := make([]StatusDTO, len(labels))
	for i, l := range labels {
		dtos[i] = StatusDTO{Label: l, Rule: rules.Kind(l).String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PreviewNet computes net working minutes for ad-hoc clock times.
func (h *Handler) PreviewNet(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	net, ok := flexitime.NetMinutes(start, end)
	writeJSON(w, http.StatusOK, NetPreviewDTO{
		Start:      start,
		End:        end,
		NetMinutes: net,
		Computable: ok,
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

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

func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case flexitime.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case flexitime.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
