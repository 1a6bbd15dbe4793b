package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type memoryDefinition struct {
	mu       sync.Mutex
	def      models.ConfigDefinition
	versions []models.ConfigVersion
	deleted  bool
}

// MemoryConfigStore is a ConfigStore held in process memory. Each definition has its own
// mutex, so version allocation is serialized per definition and not across the store.
type MemoryConfigStore struct {
	mu          sync.RWMutex
	definitions map[uuid.UUID]*memoryDefinition
	names       map[uuid.UUID]map[string]uuid.UUID
	logger      ectologger.Logger
	now         func() time.Time
}

func NewMemoryConfigStore(logger ectologger.Logger) *MemoryConfigStore {
	return &MemoryConfigStore{
		definitions: map[uuid.UUID]*memoryDefinition{},
		names:       map[uuid.UUID]map[string]uuid.UUID{},
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryConfigStore) CreateDefinition(ctx context.Context, name string) (*models.SavedVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "MemoryConfigStore.CreateDefinition")
	defer span.End()

	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, BadRequest("config name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[brandID][name]; ok {
		return nil, Conflict("config %q already exists", name)
	}

	now := s.now()
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

	s.definitions[def.ID] = &memoryDefinition{def: def, versions: []models.ConfigVersion{ver}}
	if s.names[brandID] == nil {
		s.names[brandID] = map[string]uuid.UUID{}
	}
	s.names[brandID][name] = def.ID

	s.logger.WithContext(ctx).WithField("config_id", def.ID).Debug("Created config definition")
	return &models.SavedVersion{Definition: def, Version: cloneVersion(ver)}, nil
}

// lookup returns the locked entry for id. The caller must unlock it.
func (s *MemoryConfigStore) lookup(ctx context.Context, id uuid.UUID) (*memoryDefinition, error) {
	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	entry, ok := s.definitions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, NotFound("config %s does not exist", id)
	}

	entry.mu.Lock()
	if entry.deleted || entry.def.BrandID != brandID {
		entry.mu.Unlock()
		return nil, NotFound("config %s does not exist", id)
	}
	return entry, nil
}

func (s *MemoryConfigStore) GetDefinition(ctx context.Context, id uuid.UUID) (*models.ConfigDefinition, error) {
	entry, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	def := entry.def
	return &def, nil
}

func (s *MemoryConfigStore) GetDefinitionByName(ctx context.Context, name string) (*models.ConfigDefinition, error) {
	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	id, ok := s.names[brandID][strings.TrimSpace(name)]
	s.mu.RUnlock()
	if !ok {
		return nil, NotFound("config %s does not exist", name)
	}
	return s.GetDefinition(ctx, id)
}

func (s *MemoryConfigStore) ListDefinitions(ctx context.Context) ([]models.ConfigDefinition, error) {
	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	ids := make([]uuid.UUID, 0, len(s.names[brandID]))
	for _, id := range s.names[brandID] {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	defs := make([]models.ConfigDefinition, 0, len(ids))
	for _, id := range ids {
		def, err := s.GetDefinition(ctx, id)
		if err != nil {
			continue
		}
		defs = append(defs, *def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

func (s *MemoryConfigStore) RenameDefinition(ctx context.Context, id uuid.UUID, name string) (*models.ConfigDefinition, error) {
	brandID, err := GetBrandID(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, BadRequest("config name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.definitions[id]
	if !ok || entry.def.BrandID != brandID {
		return nil, NotFound("config %s does not exist", id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if other, taken := s.names[brandID][name]; taken && other != id {
		return nil, Conflict("config %q already exists", name)
	}
	delete(s.names[brandID], entry.def.Name)
	s.names[brandID][name] = id
	entry.def.Name = name
	entry.def.UpdatedAt = s.now()

	def := entry.def
	return &def, nil
}

func (s *MemoryConfigStore) DeleteDefinition(ctx context.Context, id uuid.UUID) error {
	brandID, err := GetBrandID(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.definitions[id]
	if !ok || entry.def.BrandID != brandID {
		return NotFound("config %s does not exist", id)
	}

	entry.mu.Lock()
	entry.deleted = true
	entry.versions = nil
	entry.mu.Unlock()

	delete(s.definitions, id)
	delete(s.names[brandID], entry.def.Name)
	return nil
}

func (s *MemoryConfigStore) SaveVersion(ctx context.Context, id uuid.UUID, agg aggregate.Aggregate) (*models.SavedVersion, error) {
	agg = agg.Normalize()
	return s.MutateLatest(ctx, id, func(aggregate.Aggregate) (aggregate.Aggregate, error) {
		return agg, nil
	})
}

func (s *MemoryConfigStore) MutateLatest(ctx context.Context, id uuid.UUID, fn Mutation) (*models.SavedVersion, error) {
	ctx, span := tracing.StartSpan(ctx, "MemoryConfigStore.MutateLatest")
	defer span.End()

	entry, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	latest := entry.versions[len(entry.versions)-1]
	next, err := fn(latest.Aggregate.Clone())
	if err != nil {
		return nil, err
	}

	now := s.now()
	ver := models.ConfigVersion{
		ID:        uuid.New(),
		ConfigID:  id,
		Version:   entry.def.CurrentVersion + 1,
		CreatedAt: now,
		Aggregate: next.Clone(),
	}
	entry.versions = append(entry.versions, ver)
	entry.def.CurrentVersion = ver.Version
	entry.def.UpdatedAt = now

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"config_id": id,
		"version":   ver.Version,
	}).Debug("Created config version")
	return &models.SavedVersion{Definition: entry.def, Version: cloneVersion(ver)}, nil
}

func (s *MemoryConfigStore) ListVersions(ctx context.Context, id uuid.UUID) ([]models.ConfigVersion, error) {
	entry, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	out := make([]models.ConfigVersion, 0, len(entry.versions))
	for i := len(entry.versions) - 1; i >= 0; i-- {
		out = append(out, cloneVersion(entry.versions[i]))
	}
	return out, nil
}

func (s *MemoryConfigStore) GetVersion(ctx context.Context, id uuid.UUID, version int) (*models.ConfigVersion, error) {
	entry, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	v, ok := entry.version(version)
	if !ok {
		return nil, NotFound("version %d of config %s does not exist", version, id)
	}
	return &v, nil
}

func (s *MemoryConfigStore) SetActiveVersion(ctx context.Context, id uuid.UUID, version int) (*models.ConfigDefinition, error) {
	entry, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	if _, ok := entry.version(version); !ok {
		return nil, NotFound("version %d of config %s does not exist", version, id)
	}
	entry.def.ActiveVersion = version
	entry.def.UpdatedAt = s.now()

	def := entry.def
	return &def, nil
}

// version relies on versions being stored gap-free from 1.
func (e *memoryDefinition) version(version int) (models.ConfigVersion, bool) {
	if version < 1 || version > len(e.versions) {
		return models.ConfigVersion{}, false
	}
	return cloneVersion(e.versions[version-1]), true
}

func cloneVersion(v models.ConfigVersion) models.ConfigVersion {
	v.Aggregate = v.Aggregate.Clone()
	return v
}
