package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Case is the registry's wire representation of a single case. Only id and
// logical_timestamp are guaranteed; everything else is optional and round
// trips as sent by the registry.
type Case struct {
	ID               int64   `json:"id"`
	LogicalTimestamp int64   `json:"logical_timestamp"`
	UUID             *string `json:"uuid,omitempty"`
	ResourceURI      *string `json:"resource_uri,omitempty"`

	Number     *string  `json:"number,omitempty"`
	Name       *string  `json:"name,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	HourBudget *float64 `json:"hour_budget,omitempty"`

	CaseState *string `json:"case_state,omitempty"`
	CaseGroup *string `json:"case_group,omitempty"`
	Priority  *string `json:"priority,omitempty"`
	Parent    *string `json:"parent,omitempty"`

	Customer          *string  `json:"customer,omitempty"`
	CustomerName      *string  `json:"customer_name,omitempty"`
	CustomerAddress   *string  `json:"customer_address,omitempty"`
	CustomerCity      *string  `json:"customer_city,omitempty"`
	CustomerZipCode   *string  `json:"customer_zip_code,omitempty"`
	CustomerPhone     *string  `json:"customer_phone,omitempty"`
	CustomerLatitude  *float64 `json:"customer_latitude,omitempty"`
	CustomerLongitude *float64 `json:"customer_longitude,omitempty"`

	Department     *string `json:"department,omitempty"`
	DepartmentID   *int64  `json:"department_id,omitempty"`
	DepartmentName *string `json:"department_name,omitempty"`

	Responsible     *string `json:"responsible,omitempty"`
	ResponsibleID   *int64  `json:"responsible_id,omitempty"`
	ResponsibleName *string `json:"responsible_name,omitempty"`
	CoResponsible   *string `json:"co_responsible,omitempty"`

	CreationDate *string `json:"creation_date,omitempty"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`

	Active          *bool `json:"active,omitempty"`
	Billable        *bool `json:"billable,omitempty"`
	GeofenceCheckin *bool `json:"geofence_checkin,omitempty"`
}

// CaseCreate is the payload for registering a new case. Customer, Number
// and Name are required by the registry, the rest is optional.
type CaseCreate struct {
	Customer string `json:"customer"`
	Number   string `json:"number"`
	Name     string `json:"name"`

	Notes           *string  `json:"notes,omitempty"`
	HourBudget      *float64 `json:"hour_budget,omitempty"`
	CaseState       *string  `json:"case_state,omitempty"`
	CaseGroup       *string  `json:"case_group,omitempty"`
	Priority        *string  `json:"priority,omitempty"`
	Department      *string  `json:"department,omitempty"`
	Responsible     *string  `json:"responsible,omitempty"`
	CoResponsible   *string  `json:"co_responsible,omitempty"`
	StartDate       *string  `json:"start_date,omitempty"`
	EndDate         *string  `json:"end_date,omitempty"`
	Active          *bool    `json:"active,omitempty"`
	Billable        *bool    `json:"billable,omitempty"`
	GeofenceCheckin *bool    `json:"geofence_checkin,omitempty"`
}

// Validate checks the fields the registry requires on creation.
func (c CaseCreate) Validate() error {
	var messages []string
	if c.Customer == "" {
		messages = append(messages, "customer is required")
	}
	if c.Number == "" {
		messages = append(messages, "number is required")
	}
	if c.Name == "" {
		messages = append(messages, "name is required")
	}
	if len(messages) == 0 {
		return nil
	}
	return &Error{
		Status:   http.StatusBadRequest,
		Title:    "Bad Request",
		Detail:   "Missing required fields",
		Messages: messages,
	}
}

// CaseUpdate is the payload for changing an existing case. Every field is
// optional; absent fields keep their registry value.
type CaseUpdate struct {
	Customer        *string  `json:"customer,omitempty"`
	Number          *string  `json:"number,omitempty"`
	Name            *string  `json:"name,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	HourBudget      *float64 `json:"hour_budget,omitempty"`
	CaseState       *string  `json:"case_state,omitempty"`
	CaseGroup       *string  `json:"case_group,omitempty"`
	Priority        *string  `json:"priority,omitempty"`
	Department      *string  `json:"department,omitempty"`
	Responsible     *string  `json:"responsible,omitempty"`
	CoResponsible   *string  `json:"co_responsible,omitempty"`
	StartDate       *string  `json:"start_date,omitempty"`
	EndDate         *string  `json:"end_date,omitempty"`
	Active          *bool    `json:"active,omitempty"`
	Billable        *bool    `json:"billable,omitempty"`
	GeofenceCheckin *bool    `json:"geofence_checkin,omitempty"`
}

// pageMeta is the pagination block of a listing response. Next carries the
// URL of the following page and is null on the last one.
type pageMeta struct {
	Limit      int     `json:"limit"`
	Next       *string `json:"next"`
	Offset     int     `json:"offset"`
	Previous   *string `json:"previous"`
	TotalCount int     `json:"total_count"`
}

type pageEnvelope struct {
	Meta    pageMeta          `json:"meta"`
	Objects []json.RawMessage `json:"objects"`
}

// recordKeys peeks the merge keys out of a raw listing object.
type recordKeys struct {
	ID               int64 `json:"id"`
	LogicalTimestamp int64 `json:"logical_timestamp"`
}

func decodeCase(data []byte) (*Case, error) {
	var out Case
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	return &out, nil
}
