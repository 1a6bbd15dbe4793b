package repositories

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/google/uuid"
)

// Mutation derives the next aggregate from the latest stored one.
type Mutation func(current aggregate.Aggregate) (aggregate.Aggregate, error)

// ConfigStore keeps every brand's definitions and their version history.
// Every method is scoped to the brand on the context.
type ConfigStore interface {
	// CreateDefinition stores a new definition with an empty version 1 marked active.
	CreateDefinition(ctx context.Context, name string) (*models.SavedVersion, error)
	GetDefinition(ctx context.Context, id uuid.UUID) (*models.ConfigDefinition, error)
	GetDefinitionByName(ctx context.Context, name string) (*models.ConfigDefinition, error)
	ListDefinitions(ctx context.Context) ([]models.ConfigDefinition, error)
	// RenameDefinition changes the display name only. No version is created.
	RenameDefinition(ctx context.Context, id uuid.UUID, name string) (*models.ConfigDefinition, error)
	DeleteDefinition(ctx context.Context, id uuid.UUID) error

	// SaveVersion appends agg as the next version. The active pointer is unchanged.
	SaveVersion(ctx context.Context, id uuid.UUID, agg aggregate.Aggregate) (*models.SavedVersion, error)
	// MutateLatest reads the latest aggregate, applies fn and appends the result as one atomic step.
	MutateLatest(ctx context.Context, id uuid.UUID, fn Mutation) (*models.SavedVersion, error)
	// ListVersions returns versions newest first.
	ListVersions(ctx context.Context, id uuid.UUID) ([]models.ConfigVersion, error)
	GetVersion(ctx context.Context, id uuid.UUID, version int) (*models.ConfigVersion, error)
	// SetActiveVersion moves the active pointer. It fails when version does not exist.
	SetActiveVersion(ctx context.Context, id uuid.UUID, version int) (*models.ConfigDefinition, error)
}
