package configdefinition

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Create registers a new, empty definition. Version 1 is created and made active.
func (s *Service) Create(ctx context.Context, name string) (*models.SavedVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.Create")
	defer span.End()

	saved, err := s.store.CreateDefinition(ctx, name)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"config_id": saved.Definition.ID,
		"name":      saved.Definition.Name,
	}).Info("Created config definition")

	s.cacheVersion(saved.Version)
	s.publish(ctx, kafka.ConfigEvent{
		Type:          kafka.EventConfigCreated,
		BrandID:       saved.Definition.BrandID.String(),
		ConfigID:      saved.Definition.ID.String(),
		Name:          saved.Definition.Name,
		Version:       saved.Version.Version,
		ActiveVersion: saved.Definition.ActiveVersion,
	})
	return saved, nil
}

// Get returns the definition with its latest version.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.ConfigDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.Get")
	defer span.End()

	def, err := s.store.GetDefinition(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, def, def.CurrentVersion)
}

func (s *Service) GetByName(ctx context.Context, name string) (*models.ConfigDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.GetByName")
	defer span.End()

	def, err := s.store.GetDefinitionByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, def, def.CurrentVersion)
}

func (s *Service) List(ctx context.Context) ([]models.ConfigDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.List")
	defer span.End()

	return s.store.ListDefinitions(ctx)
}

// Rename changes only the display name. No version is created.
func (s *Service) Rename(ctx context.Context, id uuid.UUID, name string) (*models.ConfigDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.Rename")
	defer span.End()

	def, err := s.store.RenameDefinition(ctx, id, name)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"config_id": id,
		"name":      def.Name,
	}).Info("Renamed config definition")

	s.publish(ctx, kafka.ConfigEvent{
		Type:          kafka.EventConfigRenamed,
		BrandID:       def.BrandID.String(),
		ConfigID:      def.ID.String(),
		Name:          def.Name,
		ActiveVersion: def.ActiveVersion,
	})
	return def, nil
}

// Delete removes the definition and every version of it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.Delete")
	defer span.End()

	def, err := s.store.GetDefinition(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDefinition(ctx, id); err != nil {
		return err
	}

	if s.versions != nil {
		for v := 1; v <= def.CurrentVersion; v++ {
			s.versions.Remove(versionKey{configID: id, version: v})
		}
	}

	s.logger.WithContext(ctx).WithField("config_id", id).Info("Deleted config definition")
	s.publish(ctx, kafka.ConfigEvent{
		Type:     kafka.EventConfigDeleted,
		BrandID:  def.BrandID.String(),
		ConfigID: def.ID.String(),
		Name:     def.Name,
	})
	return nil
}

func (s *Service) detail(ctx context.Context, def *models.ConfigDefinition, version int) (*models.ConfigDetail, error) {
	ver, err := s.version(ctx, def.ID, version)
	if err != nil {
		return nil, err
	}
	return &models.ConfigDetail{
		ConfigDefinition: *def,
		Version:          ver.Version,
		Fields:           ver.Describe(),
		Aggregate:        ver.Aggregate,
	}, nil
}
