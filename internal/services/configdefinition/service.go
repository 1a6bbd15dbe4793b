package configdefinition

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	ferrors "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/repositories"
)

// Locker serializes version-allocating operations on one definition across instances.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Publisher announces committed changes.
type Publisher interface {
	Publish(ctx context.Context, evt kafka.ConfigEvent) error
}

type noopLocker struct{}

func (noopLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, kafka.ConfigEvent) error { return nil }

type Options struct {
	// Locker is optional. The store alone keeps version numbers gap-free.
	Locker    Locker
	Publisher Publisher
	// CacheSize bounds the version cache. Zero disables it.
	CacheSize int
	// MaxRetries is how many times a version conflict is retried before returning 409.
	MaxRetries int
}

type versionKey struct {
	configID uuid.UUID
	version  int
}

type Service struct {
	store      repositories.ConfigStore
	locker     Locker
	publisher  Publisher
	versions   *lru.Cache[versionKey, models.ConfigVersion]
	logger     ectologger.Logger
	maxRetries int
}

func NewService(store repositories.ConfigStore, logger ectologger.Logger, opts Options) (*Service, error) {
	s := &Service{
		store:      store,
		locker:     opts.Locker,
		publisher:  opts.Publisher,
		logger:     logger,
		maxRetries: opts.MaxRetries,
	}
	if s.locker == nil {
		s.locker = noopLocker{}
	}
	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	if s.maxRetries < 0 {
		s.maxRetries = 0
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[versionKey, models.ConfigVersion](opts.CacheSize)
		if err != nil {
			return nil, err
		}
		s.versions = cache
	}
	return s, nil
}

func lockKey(id uuid.UUID) string {
	return "config:" + id.String()
}

// allocate runs fn under the definition lock and retries it while another writer wins the version race.
func (s *Service) allocate(ctx context.Context, op string, id uuid.UUID, fn func(ctx context.Context) (*models.SavedVersion, error)) (*models.SavedVersion, error) {
	var saved *models.SavedVersion

	err := s.locker.WithLock(ctx, lockKey(id), func(ctx context.Context) error {
		for attempt := 0; ; attempt++ {
			start := time.Now()
			var err error
			saved, err = fn(ctx)
			metrics.StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

			if !errors.Is(err, repositories.ErrVersionConflict) {
				return err
			}
			if attempt >= s.maxRetries {
				metrics.VersionConflictsTotal.WithLabelValues("exhausted").Inc()
				s.logger.WithContext(ctx).WithFields(map[string]any{
					"config_id": id,
					"attempts":  attempt + 1,
				}).Warn("Gave up allocating config version")
				return httperror.NewHTTPError(http.StatusConflict, "config was modified concurrently, try again")
			}
			metrics.VersionConflictsTotal.WithLabelValues("retried").Inc()
			s.logger.WithContext(ctx).WithFields(map[string]any{
				"config_id": id,
				"attempt":   attempt + 1,
			}).Debug("Version conflict, retrying")
		}
	})
	if errors.Is(err, redis.ErrLockNotAcquired) {
		return nil, httperror.NewHTTPError(http.StatusConflict, "config is being edited by another request")
	}
	if err != nil {
		return nil, ferrors.ToHTTP(err)
	}

	metrics.VersionsCreatedTotal.WithLabelValues(op).Inc()
	s.cacheVersion(saved.Version)
	s.publish(ctx, kafka.ConfigEvent{
		Type:          kafka.EventVersionCreated,
		ConfigID:      id.String(),
		BrandID:       saved.Definition.BrandID.String(),
		Name:          saved.Definition.Name,
		Version:       saved.Version.Version,
		ActiveVersion: saved.Definition.ActiveVersion,
	})
	return saved, nil
}

// publish never fails the caller. The write it describes is already committed.
func (s *Service) publish(ctx context.Context, evt kafka.ConfigEvent) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(evt.Type, metrics.StatusError).Inc()
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"config_id":  evt.ConfigID,
			"event_type": evt.Type,
		}).Error("Failed to publish config event")
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(evt.Type, metrics.StatusSuccess).Inc()
}

func (s *Service) cacheVersion(v models.ConfigVersion) {
	if s.versions == nil {
		return
	}
	s.versions.Add(versionKey{configID: v.ConfigID, version: v.Version}, cloneVersion(v))
}

func cloneVersion(v models.ConfigVersion) models.ConfigVersion {
	v.Aggregate = v.Aggregate.Clone()
	return v
}
