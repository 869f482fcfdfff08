/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/flexitime-engine/flexitime"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Model     string `json:"model,omitempty"`
	Rank      string `json:"rank,omitempty"`
	Unit      string `json:"unit,omitempty"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID        string `json:"id"`
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Model     string `json:"model,omitempty"`
	Rank      string `json:"rank,omitempty"`
	Unit      string `json:"unit,omitempty"`
}

func toEmployeeDTO(e flexitime.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:        e.ID,
		LastName:  e.LastName,
		FirstName: e.FirstName,
		Model:     e.Model,
		Rank:      e.Rank,
		Unit:      e.Unit,
	}
}

// =============================================================================
// RECORDS
// =============================================================================

// RecordDTO represents one attendance day in API responses. Cell fields
// are raw text; blank means not set.
type RecordDTO struct {
	Date        string `json:"date"`
	Status      string `json:"status"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	Balance     string `json:"balance,omitempty"`
	Vacation    string `json:"vacation,omitempty"`
	SpecialDuty string `json:"special_duty,omitempty"`
	Overtime    string `json:"overtime,omitempty"`
}

// UpdateRecordRequest is a partial edit of one day; omitted fields are
// left unchanged.
type UpdateRecordRequest struct {
	Status *string `json:"status,omitempty"`
	Start  *string `json:"start,omitempty"`
	End    *string `json:"end,omitempty"`
}

func toRecordDTO(r flexitime.Record) RecordDTO {
	return RecordDTO{
		Date:        r.Date.String(),
		Status:      r.Status,
		Start:       r.Start,
		End:         r.End,
		Balance:     r.Balance,
		Vacation:    r.Vacation,
		SpecialDuty: r.SpecialDuty,
		Overtime:    r.Overtime,
	}
}

// MaterializeRequest asks for a record span to be ensured. Empty bounds
// select the default span (today through December 31).
type MaterializeRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// MaterializeResponse reports how many records were added.
type MaterializeResponse struct {
	Added int `json:"added"`
}

// =============================================================================
// CLOCKING
// =============================================================================

// ClockRequest sets today's clock-in or clock-out for several employees.
type ClockRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	Direction   string   `json:"direction"` // "in" or "out"
	At          string   `json:"at"`        // "HH:MM"
	Overwrite   bool     `json:"overwrite,omitempty"`
}

// ClockResponse reports the outcome per the whole batch.
type ClockResponse struct {
	Changed int `json:"changed"`
	Skipped int `json:"skipped"`
}

// =============================================================================
// MODELS
// =============================================================================

// ModelDTO represents a work-time model. Hours are decimal strings to
// avoid float drift in clients.
type ModelDTO struct {
	Name   string    `json:"name"`
	Weekly string    `json:"weekly_hours"`
	Days   [5]string `json:"daily_hours"` // Mon..Fri
}

func toModelDTO(m flexitime.WorkTimeModel) ModelDTO {
	dto := ModelDTO{Name: m.Name, Weekly: m.Weekly.String()}
	for i, d := range m.Days {
		dto.Days[i] = d.String()
	}
	return dto
}

func (dto ModelDTO) toModel() (flexitime.WorkTimeModel, error) {
	m := flexitime.WorkTimeModel{Name: dto.Name}
	var err error
	if m.Weekly, err = decimal.NewFromString(dto.Weekly); err != nil {
		return m, err
	}
	for i, s := range dto.Days {
		if m.Days[i], err = decimal.NewFromString(s); err != nil {
			return m, err
		}
	}
	return m, nil
}

// =============================================================================
// STATUSES AND PREVIEWS
// =============================================================================

// StatusDTO describes one configured status label.
type StatusDTO struct {
	Label string `json:"label"`
	Rule  string `json:"rule"`
}

// ReferenceListDTO is an ordered reference list (ranks or units).
type ReferenceListDTO struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// NetPreviewDTO is the result of an ad-hoc net working time calculation.
type NetPreviewDTO struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	NetMinutes int    `json:"net_minutes"`
	Computable bool   `json:"computable"`
}

// BalanceDTO is an employee's running balance as of today.
type BalanceDTO struct {
	EmployeeID string `json:"employee_id"`
	Balance    string `json:"balance"`
	Defaulted  bool   `json:"defaulted"` // true when no parseable balance cell exists yet
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
