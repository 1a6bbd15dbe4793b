package repositories

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/formdata"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/schema"
	"github.com/Ramsey-B/fern/pkg/uihints"
)

const (
	definitionsTable = "config_definitions"
	versionsTable    = "config_versions"

	definitionNameConstraint = "config_definitions_brand_name_key"
	versionNumberConstraint  = "config_versions_config_version_key"
)

var (
	definitionStruct = database.NewStruct(new(DefinitionRow))
	versionStruct    = database.NewStruct(new(VersionRow))
)

type DefinitionRow struct {
	ID             uuid.UUID `db:"id"`
	BrandID        uuid.UUID `db:"brand_id"`
	Name           string    `db:"name"`
	CurrentVersion int       `db:"current_version"`
	ActiveVersion  int       `db:"active_version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type VersionRow struct {
	ID        uuid.UUID                     `db:"id"`
	ConfigID  uuid.UUID                     `db:"config_id"`
	Version   int                           `db:"version"`
	Schema    database.JSONB[schema.Schema] `db:"json_schema"`
	UIHints   database.JSONB[uihints.Hints] `db:"ui_schema"`
	FormData  database.JSONB[formdata.Data] `db:"form_data"`
	CreatedAt time.Time                     `db:"created_at"`
}

func FromDefinition(d models.ConfigDefinition) *DefinitionRow {
	return &DefinitionRow{
		ID:             d.ID,
		BrandID:        d.BrandID,
		Name:           d.Name,
		CurrentVersion: d.CurrentVersion,
		ActiveVersion:  d.ActiveVersion,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func ToDefinition(row *DefinitionRow) models.ConfigDefinition {
	return models.ConfigDefinition{
		ID:             row.ID,
		BrandID:        row.BrandID,
		Name:           row.Name,
		CurrentVersion: row.CurrentVersion,
		ActiveVersion:  row.ActiveVersion,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func FromVersion(v models.ConfigVersion) *VersionRow {
	return &VersionRow{
		ID:        v.ID,
		ConfigID:  v.ConfigID,
		Version:   v.Version,
		Schema:    database.NewJSONB(v.Schema),
		UIHints:   database.NewJSONB(v.UIHints),
		FormData:  database.NewJSONB(v.FormData),
		CreatedAt: v.CreatedAt,
	}
}

func ToVersion(row *VersionRow) models.ConfigVersion {
	return models.ConfigVersion{
		ID:        row.ID,
		ConfigID:  row.ConfigID,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		Aggregate: aggregate.Aggregate{
			Schema:   row.Schema.Data,
			UIHints:  row.UIHints.Data,
			FormData: row.FormData.Data,
		}.Clone(),
	}
}
