package configdefinition

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	ferrors "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/schema"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Save appends agg as the next version. The active version is unchanged.
func (s *Service) Save(ctx context.Context, id uuid.UUID, agg aggregate.Aggregate) (*models.SavedVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.Save")
	defer span.End()

	if agg.Schema.Type != "" && agg.Schema.Type != schema.TypeObject {
		return nil, ferrors.ToHTTP(ferrors.NewValidationError("", "schema type must be %q", schema.TypeObject))
	}
	agg = agg.Normalize()

	saved, err := s.allocate(ctx, "save", id, func(ctx context.Context) (*models.SavedVersion, error) {
		return s.store.SaveVersion(ctx, id, agg)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"config_id": id,
		"version":   saved.Version.Version,
	}).Info("Saved config version")
	return saved, nil
}

func (s *Service) ListVersions(ctx context.Context, id uuid.UUID) (*models.VersionList, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.ListVersions")
	defer span.End()

	def, err := s.store.GetDefinition(ctx, id)
	if err != nil {
		return nil, err
	}
	versions, err := s.store.ListVersions(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.VersionList{
		ConfigID:       id,
		CurrentVersion: def.CurrentVersion,
		ActiveVersion:  def.ActiveVersion,
		Versions:       versions,
	}, nil
}

// GetVersion returns one stored version. Versions are immutable so they are served from cache when possible.
func (s *Service) GetVersion(ctx context.Context, id uuid.UUID, version int) (*models.ConfigVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.GetVersion")
	defer span.End()

	// brand scoping is enforced by the definition lookup before any cache read
	if _, err := s.store.GetDefinition(ctx, id); err != nil {
		return nil, err
	}
	ver, err := s.version(ctx, id, version)
	if err != nil {
		return nil, err
	}
	return &ver, nil
}

// SetActive points consumers at an existing version. Version content is never changed.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, version int) (*models.ConfigDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.SetActive")
	defer span.End()

	if version < 1 {
		return nil, ferrors.ToHTTP(ferrors.NewVersionLookupError(version))
	}

	def, err := s.store.SetActiveVersion(ctx, id, version)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"config_id":      id,
		"active_version": version,
	}).Info("Set active config version")

	s.publish(ctx, kafka.ConfigEvent{
		Type:          kafka.EventVersionActivate,
		BrandID:       def.BrandID.String(),
		ConfigID:      def.ID.String(),
		Name:          def.Name,
		Version:       def.CurrentVersion,
		ActiveVersion: def.ActiveVersion,
	})
	return def, nil
}

// GetActive returns the definition with the version it exposes to consumers.
func (s *Service) GetActive(ctx context.Context, id uuid.UUID) (*models.ConfigDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.GetActive")
	defer span.End()

	def, err := s.store.GetDefinition(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, def, def.ActiveVersion)
}

// Export projects one version into a standalone document. Version 0 exports the latest.
func (s *Service) Export(ctx context.Context, id uuid.UUID, version int) (aggregate.Document, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.Export")
	defer span.End()

	def, err := s.store.GetDefinition(ctx, id)
	if err != nil {
		return aggregate.Document{}, err
	}
	if version == 0 {
		version = def.CurrentVersion
	}
	ver, err := s.version(ctx, id, version)
	if err != nil {
		return aggregate.Document{}, err
	}
	return aggregate.Export(def.Name, ver.Aggregate), nil
}

// Validate checks form data against one version's schema. Version 0 uses the active version.
func (s *Service) Validate(ctx context.Context, id uuid.UUID, req models.ValidateFormRequest) (*models.ValidateFormResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.Validate")
	defer span.End()

	def, err := s.store.GetDefinition(ctx, id)
	if err != nil {
		return nil, err
	}
	version := req.Version
	if version == 0 {
		version = def.ActiveVersion
	}
	ver, err := s.version(ctx, id, version)
	if err != nil {
		return nil, err
	}

	result := schema.NewValidator(ver.Schema).Validate(req.FormData)
	return &models.ValidateFormResponse{Version: version, ValidationResult: result}, nil
}

func (s *Service) version(ctx context.Context, id uuid.UUID, version int) (models.ConfigVersion, error) {
	key := versionKey{configID: id, version: version}
	if s.versions != nil {
		if v, ok := s.versions.Get(key); ok {
			metrics.ActiveCacheTotal.WithLabelValues("hit").Inc()
			return cloneVersion(v), nil
		}
		metrics.ActiveCacheTotal.WithLabelValues("miss").Inc()
	}

	ver, err := s.store.GetVersion(ctx, id, version)
	if err != nil {
		return models.ConfigVersion{}, err
	}
	s.cacheVersion(*ver)
	return *ver, nil
}
