package org

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/scitech-butterfly/aasira/core"
)

// Event is a single activity published by an organization.
// Day, Date and Time are free-form display strings (eg. "Every Sunday",
// "Oct 26th", "10:00 AM").
type Event struct {
	ID    string `json:"id"`
	Title string `json:"title" validate:"required"`
	Day   string `json:"day"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

type Organization struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Events      []Event   `json:"events"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewOrganization contains information needed to publish an Organization.
type NewOrganization struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Events      []Event `json:"events" validate:"omitempty,dive"`
}

func (no *NewOrganization) Validate(validate *validator.Validate, _ ut.Translator) error {
	no.Name = core.CleanString(no.Name)
	no.Description = core.CleanString(no.Description)
	return validate.Struct(no)
}

// UpdateOrganization defines what may be modified on an existing Organization.
// A nil Events leaves the event list untouched.
type UpdateOrganization struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Events      []Event `json:"events" validate:"omitempty,dive"`
}

func (uo *UpdateOrganization) Validate(orig Organization, validate *validator.Validate) error {
	name := core.CleanString(uo.Name)
	if name != "" {
		uo.Name = name
	} else {
		uo.Name = orig.Name
	}
	uo.Description = core.CleanString(uo.Description)
	if uo.Description == "" {
		uo.Description = orig.Description
	}
	return validate.Struct(uo)
}
