package models

import (
	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/fields"
	"github.com/Ramsey-B/fern/pkg/formdata"
	"github.com/Ramsey-B/fern/pkg/schema"
)

type CreateConfigRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type RenameConfigRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type SaveConfigRequest struct {
	aggregate.Aggregate
}

type SetActiveVersionRequest struct {
	Version int `json:"version" validate:"required,min=1"`
}

type FieldRequest struct {
	fields.Descriptor
}

type ValidateFormRequest struct {
	FormData formdata.Data `json:"form_data"`
	// Version defaults to the active version.
	Version int `json:"version" validate:"min=0"`
}

// ConfigDetail is a definition with the aggregate of one of its versions.
type ConfigDetail struct {
	ConfigDefinition
	Version int                 `json:"version"`
	Fields  []fields.Descriptor `json:"fields"`
	aggregate.Aggregate
}

type ValidateFormResponse struct {
	Version int `json:"version"`
	schema.ValidationResult
}
