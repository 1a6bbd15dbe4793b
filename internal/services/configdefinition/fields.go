package configdefinition

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/fields"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// AddField adds one field to the latest version and saves the result as a new version.
func (s *Service) AddField(ctx context.Context, id uuid.UUID, d fields.Descriptor) (*models.SavedVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.AddField")
	defer span.End()

	return s.editField(ctx, "add_field", id, func(sess *aggregate.Session) error {
		return sess.AddField(d)
	})
}

// UpdateField replaces the field called previousName with d. d.Name may differ to rename it.
func (s *Service) UpdateField(ctx context.Context, id uuid.UUID, previousName string, d fields.Descriptor) (*models.SavedVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.UpdateField")
	defer span.End()

	return s.editField(ctx, "update_field", id, func(sess *aggregate.Session) error {
		return sess.UpdateField(previousName, d)
	})
}

func (s *Service) DeleteField(ctx context.Context, id uuid.UUID, name string) (*models.SavedVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.DeleteField")
	defer span.End()

	return s.editField(ctx, "delete_field", id, func(sess *aggregate.Session) error {
		return sess.DeleteField(name)
	})
}

// ListFields describes the fields of the latest version.
func (s *Service) ListFields(ctx context.Context, id uuid.UUID) ([]fields.Descriptor, error) {
	ctx, span := tracing.StartSpan(ctx, "configdefinition.ListFields")
	defer span.End()

	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail.Fields, nil
}

// editField applies edit to the latest aggregate inside the store's atomic step, so
// concurrent edits on one definition never overwrite each other.
func (s *Service) editField(ctx context.Context, op string, id uuid.UUID, edit func(*aggregate.Session) error) (*models.SavedVersion, error) {
	saved, err := s.allocate(ctx, op, id, func(ctx context.Context) (*models.SavedVersion, error) {
		return s.store.MutateLatest(ctx, id, func(current aggregate.Aggregate) (aggregate.Aggregate, error) {
			sess := aggregate.NewSession(current, 0)
			if err := edit(sess); err != nil {
				return aggregate.Aggregate{}, err
			}
			return sess.Current(), nil
		})
	})
	if err != nil {
		metrics.FieldEditsTotal.WithLabelValues(op, metrics.StatusError).Inc()
		return nil, err
	}
	metrics.FieldEditsTotal.WithLabelValues(op, metrics.StatusSuccess).Inc()

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"config_id": id,
		"operation": op,
		"version":   saved.Version.Version,
	}).Info("Edited config field")
	return saved, nil
}
