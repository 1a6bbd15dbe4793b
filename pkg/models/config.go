package models

import (
	"time"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/google/uuid"
)

// ConfigDefinition is the named identity of a configuration within a brand.
type ConfigDefinition struct {
	ID             uuid.UUID `json:"id"`
	BrandID        uuid.UUID `json:"brand_id"`
	Name           string    `json:"name"`
	CurrentVersion int       `json:"current_version"`
	// ActiveVersion is the version exposed to consumers. It need not be the latest.
	ActiveVersion int       `json:"active_version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ConfigVersion is one immutable snapshot of a definition's aggregate.
type ConfigVersion struct {
	ID        uuid.UUID `json:"id"`
	ConfigID  uuid.UUID `json:"config_id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	aggregate.Aggregate
}

// SavedVersion is returned by every operation that appends a version.
type SavedVersion struct {
	Definition ConfigDefinition `json:"definition"`
	Version    ConfigVersion    `json:"version"`
}

// VersionList backs the version selector.
type VersionList struct {
	ConfigID       uuid.UUID       `json:"config_id"`
	CurrentVersion int             `json:"current_version"`
	ActiveVersion  int             `json:"active_version"`
	Versions       []ConfigVersion `json:"versions"`
}
