package repositories

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const uniqueViolation = pq.ErrorCode("23505")

// PostgresConfigStore is the ConfigStore backed by Postgres. Version numbers are allocated
// while holding a row lock on the definition, and the (config_id, version) unique
// constraint reports any writer that slipped past the lock.
type PostgresConfigStore struct {
	*Repository
}

func NewPostgresConfigStore(db database.DB, logger ectologger.Logger) *PostgresConfigStore {
	return &PostgresConfigStore{
		Repository: NewRepository(db, logger),
	}
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
}

func (r *PostgresConfigStore) CreateDefinition(ctx context.Context, name string) (*models.SavedVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.CreateDefinition")
	defer span.End()

	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, BadRequest("config name is required")
	}

	now := time.Now().UTC()
	def := models.ConfigDefinition{
		ID:             uuid.New(),
		BrandID:        brandID,
		Name:           name,
		CurrentVersion: 1,
		ActiveVersion:  1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	ver := models.ConfigVersion{
		ID:        uuid.New(),
		ConfigID:  def.ID,
		Version:   1,
		CreatedAt: now,
		Aggregate: aggregate.New(),
	}

	err = database.WithTx(ctx, r.db, func(ctx context.Context, tx database.Tx) error {
		query, args := definitionStruct.InsertInto(definitionsTable, FromDefinition(def)).Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err, definitionNameConstraint) {
				return Conflict("config %q already exists", name)
			}
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"brand_id": brandID,
				"name":     name,
			}).Error("failed to create config definition")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create config")
		}
		return r.insertVersion(ctx, tx, ver)
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"config_id": def.ID,
		"brand_id":  brandID,
	}).Debugf("Created %s", definitionsTable)
	return &models.SavedVersion{Definition: def, Version: ver}, nil
}

func (r *PostgresConfigStore) GetDefinition(ctx context.Context, id uuid.UUID) (*models.ConfigDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.GetDefinition")
	defer span.End()

	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}

	sb := definitionStruct.SelectFrom(definitionsTable)
	sb.Where(sb.Equal("brand_id", brandID), sb.Equal("id", id))
	return r.getDefinition(ctx, r.db, sb, id.String())
}

func (r *PostgresConfigStore) GetDefinitionByName(ctx context.Context, name string) (*models.ConfigDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.GetDefinitionByName")
	defer span.End()

	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}

	sb := definitionStruct.SelectFrom(definitionsTable)
	sb.Where(sb.Equal("brand_id", brandID), sb.Equal("name", strings.TrimSpace(name)))
	return r.getDefinition(ctx, r.db, sb, name)
}

type getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

func (r *PostgresConfigStore) getDefinition(ctx context.Context, q getter, sb *database.SelectBuilder, key string) (*models.ConfigDefinition, error) {
	query, args := sb.Build()
	var row DefinitionRow
	err := q.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("config %s does not exist", key)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("config", key).Error("failed to get config definition")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get config")
	}
	def := ToDefinition(&row)
	return &def, nil
}

func (r *PostgresConfigStore) ListDefinitions(ctx context.Context) ([]models.ConfigDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.ListDefinitions")
	defer span.End()

	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}

	sb := definitionStruct.SelectFrom(definitionsTable)
	sb.Where(sb.Equal("brand_id", brandID))
	sb.OrderBy("name")

	query, args := sb.Build()
	var rows []DefinitionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("brand_id", brandID).Error("failed to list config definitions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list configs")
	}

	defs := make([]models.ConfigDefinition, 0, len(rows))
	for i := range rows {
		defs = append(defs, ToDefinition(&rows[i]))
	}
	return defs, nil
}

func (r *PostgresConfigStore) RenameDefinition(ctx context.Context, id uuid.UUID, name string) (*models.ConfigDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.RenameDefinition")
	defer span.End()

	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, BadRequest("config name is required")
	}

	ub := database.NewUpdateBuilder()
	ub.Update(definitionsTable).
		Set(
			ub.Assign("name", name),
			ub.Assign("updated_at", time.Now().UTC()),
		).
		Where(ub.Equal("brand_id", brandID), ub.Equal("id", id))
	ub.SQL("RETURNING id, brand_id, name, current_version, active_version, created_at, updated_at")

	query, args := ub.Build()
	var row DefinitionRow
	err = r.db.GetContext(ctx, &row, query, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, NotFound("config %s does not exist", id)
	case isUniqueViolation(err, definitionNameConstraint):
		return nil, Conflict("config %q already exists", name)
	case err != nil:
		r.logger.WithContext(ctx).WithError(err).WithField("config_id", id).Error("failed to rename config definition")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to rename config")
	}

	def := ToDefinition(&row)
	return &def, nil
}

func (r *PostgresConfigStore) DeleteDefinition(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.DeleteDefinition")
	defer span.End()

	brandID, err := GetBrandID(ctx)
	if err != nil {
		return err
	}

	db := database.NewDeleteBuilder()
	db.DeleteFrom(definitionsTable).Where(db.Equal("brand_id", brandID), db.Equal("id", id))

	query, args := db.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("config_id", id).Error("failed to delete config definition")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete config")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return NotFound("config %s does not exist", id)
	}

	r.logger.WithContext(ctx).WithField("config_id", id).Debugf("Deleted %s", definitionsTable)
	return nil
}

func (r *PostgresConfigStore) SaveVersion(ctx context.Context, id uuid.UUID, agg aggregate.Aggregate) (*models.SavedVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.SaveVersion")
	defer span.End()

	agg = agg.Normalize()
	return r.appendVersion(ctx, id, func(_ *DefinitionRow, _ database.Tx) (aggregate.Aggregate, error) {
		return agg, nil
	})
}

func (r *PostgresConfigStore) MutateLatest(ctx context.Context, id uuid.UUID, fn Mutation) (*models.SavedVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.MutateLatest")
	defer span.End()

	return r.appendVersion(ctx, id, func(def *DefinitionRow, tx database.Tx) (aggregate.Aggregate, error) {
		latest, err := r.selectVersion(ctx, tx, def.ID, def.CurrentVersion)
		if err != nil {
			return aggregate.Aggregate{}, err
		}
		return fn(latest.Aggregate)
	})
}

// appendVersion locks the definition, derives the next aggregate and stores it as current_version+1.
func (r *PostgresConfigStore) appendVersion(ctx context.Context, id uuid.UUID, next func(*DefinitionRow, database.Tx) (aggregate.Aggregate, error)) (*models.SavedVersion, error) {
	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}

	var saved models.SavedVersion
	err = database.WithTx(ctx, r.db, func(ctx context.Context, tx database.Tx) error {
		row, err := r.lockDefinition(ctx, tx, brandID, id)
		if err != nil {
			return err
		}

		agg, err := next(row, tx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		ver := models.ConfigVersion{
			ID:        uuid.New(),
			ConfigID:  row.ID,
			Version:   row.CurrentVersion + 1,
			CreatedAt: now,
			Aggregate: agg,
		}
		if err := r.insertVersion(ctx, tx, ver); err != nil {
			return err
		}

		ub := database.NewUpdateBuilder()
		ub.Update(definitionsTable).
			Set(
				ub.Assign("current_version", ver.Version),
				ub.Assign("updated_at", now),
			).
			Where(ub.Equal("id", row.ID))
		query, args := ub.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithField("config_id", row.ID).Error("failed to advance current version")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save config")
		}

		row.CurrentVersion = ver.Version
		row.UpdatedAt = now
		saved = models.SavedVersion{Definition: ToDefinition(row), Version: ver}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"config_id": id,
		"version":   saved.Version.Version,
	}).Debugf("Created %s", versionsTable)
	return &saved, nil
}

func (r *PostgresConfigStore) lockDefinition(ctx context.Context, tx database.Tx, brandID, id uuid.UUID) (*DefinitionRow, error) {
	sb := definitionStruct.SelectFrom(definitionsTable)
	sb.Where(sb.Equal("brand_id", brandID), sb.Equal("id", id))
	sb.ForUpdate()

	def, err := r.getDefinition(ctx, tx, sb, id.String())
	if err != nil {
		return nil, err
	}
	return FromDefinition(*def), nil
}

func (r *PostgresConfigStore) insertVersion(ctx context.Context, tx database.Tx, ver models.ConfigVersion) error {
	query, args := versionStruct.InsertInto(versionsTable, FromVersion(ver)).Build()
	_, err := tx.ExecContext(ctx, query, args...)
	if isUniqueViolation(err, versionNumberConstraint) {
		r.logger.WithContext(ctx).WithFields(map[string]any{
			"config_id": ver.ConfigID,
			"version":   ver.Version,
		}).Warn("version number already taken")
		return ErrVersionConflict
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("config_id", ver.ConfigID).Error("failed to insert config version")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save config")
	}
	return nil
}

func (r *PostgresConfigStore) ListVersions(ctx context.Context, id uuid.UUID) ([]models.ConfigVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.ListVersions")
	defer span.End()

	if _, err := r.GetDefinition(ctx, id); err != nil {
		return nil, err
	}

	sb := versionStruct.SelectFrom(versionsTable)
	sb.Where(sb.Equal("config_id", id))
	sb.OrderBy("version").Desc()

	query, args := sb.Build()
	var rows []VersionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("config_id", id).Error("failed to list config versions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list versions")
	}

	versions := make([]models.ConfigVersion, 0, len(rows))
	for i := range rows {
		versions = append(versions, ToVersion(&rows[i]))
	}
	return versions, nil
}

func (r *PostgresConfigStore) GetVersion(ctx context.Context, id uuid.UUID, version int) (*models.ConfigVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.GetVersion")
	defer span.End()

	if _, err := r.GetDefinition(ctx, id); err != nil {
		return nil, err
	}
	return r.selectVersion(ctx, r.db, id, version)
}

func (r *PostgresConfigStore) selectVersion(ctx context.Context, q getter, id uuid.UUID, version int) (*models.ConfigVersion, error) {
	sb := versionStruct.SelectFrom(versionsTable)
	sb.Where(sb.Equal("config_id", id), sb.Equal("version", version))

	query, args := sb.Build()
	var row VersionRow
	err := q.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("version %d of config %s does not exist", version, id)
	}
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"config_id": id,
			"version":   version,
		}).Error("failed to get config version")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get version")
	}
	v := ToVersion(&row)
	return &v, nil
}

func (r *PostgresConfigStore) SetActiveVersion(ctx context.Context, id uuid.UUID, version int) (*models.ConfigDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "PostgresConfigStore.SetActiveVersion")
	defer span.End()

	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}

	var def models.ConfigDefinition
	err = database.WithTx(ctx, r.db, func(ctx context.Context, tx database.Tx) error {
		row, err := r.lockDefinition(ctx, tx, brandID, id)
		if err != nil {
			return err
		}
		if _, err := r.selectVersion(ctx, tx, id, version); err != nil {
			return err
		}

		now := time.Now().UTC()
		ub := database.NewUpdateBuilder()
		ub.Update(definitionsTable).
			Set(
				ub.Assign("active_version", version),
				ub.Assign("updated_at", now),
			).
			Where(ub.Equal("id", id))
		query, args := ub.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithField("config_id", id).Error("failed to set active version")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to set active version")
		}

		row.ActiveVersion = version
		row.UpdatedAt = now
		def = ToDefinition(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"config_id": id,
		"version":   version,
	}).Info("Activated config version")
	return &def, nil
}
