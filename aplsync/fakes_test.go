package aplsync

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/storage"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/repository"
	"github.com/jackc/pgx/v5"
)

// memCatalog is an in-memory CatalogRepository. Individual codes can be
// forced to fail to exercise per-record error isolation.
type memCatalog struct {
	mu         sync.Mutex
	entries    map[string]repository.CatalogEntry // by ID
	failCreate map[string]bool                    // by code
	failUpdate map[string]bool                    // by code
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		entries:    make(map[string]repository.CatalogEntry),
		failCreate: make(map[string]bool),
		failUpdate: make(map[string]bool),
	}
}

var errForcedFailure = errors.New("forced repository failure")

func (m *memCatalog) Snapshot(ctx context.Context, jurisdiction string) ([]repository.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []repository.CatalogEntry
	for _, e := range m.entries {
		if e.Jurisdiction == jurisdiction {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memCatalog) Create(ctx context.Context, arg repository.CreateCatalogEntryParams) (repository.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreate[arg.Code] {
		return repository.CatalogEntry{}, errForcedFailure
	}

	e := repository.CatalogEntry{
		ID:           arg.ID,
		Code:         arg.Code,
		Jurisdiction: arg.Jurisdiction,
		Name:         arg.Name,
		Brand:        arg.Brand,
		Size:         arg.Size,
		Category:     arg.Category,
		Subcategory:  arg.Subcategory,
		Active:       arg.Active,
		CreatedAt:    arg.CreatedAt,
		UpdatedAt:    arg.UpdatedAt,
	}
	m.entries[e.ID] = e
	return e, nil
}

func (m *memCatalog) UpdateFields(ctx context.Context, arg repository.UpdateCatalogEntryFieldsParams) (repository.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[arg.ID]
	if !ok {
		return repository.CatalogEntry{}, pgx.ErrNoRows
	}
	if m.failUpdate[e.Code] {
		return repository.CatalogEntry{}, errForcedFailure
	}

	e.Name = arg.Name
	e.Brand = arg.Brand
	e.Size = arg.Size
	e.Category = arg.Category
	e.Subcategory = arg.Subcategory
	e.Active = arg.Active
	e.UpdatedAt = arg.UpdatedAt
	m.entries[e.ID] = e
	return e, nil
}

func (m *memCatalog) Deactivate(ctx context.Context, arg repository.DeactivateCatalogEntryParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[arg.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	e.Active = false
	e.UpdatedAt = arg.UpdatedAt
	m.entries[e.ID] = e
	return nil
}

func (m *memCatalog) CountActive(ctx context.Context, jurisdiction string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, e := range m.entries {
		if e.Jurisdiction == jurisdiction && e.Active {
			n++
		}
	}
	return n, nil
}

func (m *memCatalog) byCode(code string) (repository.CatalogEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.Code == code {
			return e, true
		}
	}
	return repository.CatalogEntry{}, false
}

func (m *memCatalog) seed(jurisdiction, code, name, brand string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := jurisdiction + "-" + code
	m.entries[id] = repository.CatalogEntry{
		ID:           id,
		Code:         code,
		Jurisdiction: jurisdiction,
		Name:         name,
		Brand:        textOf(brand),
		Active:       active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// memChanges is an in-memory ChangeRepository.
type memChanges struct {
	mu      sync.Mutex
	records []repository.ProductChange
}

func (m *memChanges) Record(ctx context.Context, arg repository.CreateProductChangeParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, repository.ProductChange{
		ID:           arg.ID,
		SyncJobID:    arg.SyncJobID,
		Code:         arg.Code,
		ChangeType:   arg.ChangeType,
		FieldChanges: arg.FieldChanges,
		CreatedAt:    arg.CreatedAt,
	})
	return nil
}

func (m *memChanges) byType(changeType string) []repository.ProductChange {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []repository.ProductChange
	for _, c := range m.records {
		if c.ChangeType == changeType {
			out = append(out, c)
		}
	}
	return out
}

// memJobs is an in-memory SyncJobRepository.
type memJobs struct {
	mu   sync.Mutex
	jobs map[string]repository.SyncJob
}

func newMemJobs() *memJobs {
	return &memJobs{jobs: make(map[string]repository.SyncJob)}
}

func (m *memJobs) Create(ctx context.Context, arg repository.CreateSyncJobParams) (repository.SyncJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j := repository.SyncJob{
		ID:             arg.ID,
		SourceConfigID: arg.SourceConfigID,
		Status:         arg.Status,
		TriggerType:    arg.TriggerType,
		StartedAt:      arg.StartedAt,
		CreatedAt:      arg.CreatedAt,
	}
	m.jobs[j.ID] = j
	return j, nil
}

func (m *memJobs) MarkRunning(ctx context.Context, arg repository.MarkSyncJobRunningParams) (repository.SyncJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[arg.ID]
	if !ok {
		return repository.SyncJob{}, pgx.ErrNoRows
	}
	j.Status = "running"
	j.ContentFingerprint = arg.ContentFingerprint
	j.ArchivePath = arg.ArchivePath
	m.jobs[j.ID] = j
	return j, nil
}

func (m *memJobs) Complete(ctx context.Context, arg repository.CompleteSyncJobParams) (repository.SyncJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[arg.ID]
	if !ok {
		return repository.SyncJob{}, pgx.ErrNoRows
	}
	j.Status = "completed"
	j.RowsProcessed = arg.RowsProcessed
	j.RecordsAdded = arg.RecordsAdded
	j.RecordsUpdated = arg.RecordsUpdated
	j.RecordsRemoved = arg.RecordsRemoved
	j.RecordsUnchanged = arg.RecordsUnchanged
	j.RecordsReactivated = arg.RecordsReactivated
	j.ValidationErrors = arg.ValidationErrors
	j.Warning = arg.Warning
	j.ContentFingerprint = arg.ContentFingerprint
	j.CompletedAt = arg.CompletedAt
	j.DurationMs = arg.DurationMs
	m.jobs[j.ID] = j
	return j, nil
}

func (m *memJobs) Fail(ctx context.Context, arg repository.FailSyncJobParams) (repository.SyncJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[arg.ID]
	if !ok {
		return repository.SyncJob{}, pgx.ErrNoRows
	}
	j.Status = "failed"
	j.ErrorMessage = arg.ErrorMessage
	j.ErrorDetail = arg.ErrorDetail
	j.CompletedAt = arg.CompletedAt
	j.DurationMs = arg.DurationMs
	m.jobs[j.ID] = j
	return j, nil
}

func (m *memJobs) GetByID(ctx context.Context, id string) (repository.SyncJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return repository.SyncJob{}, pgx.ErrNoRows
	}
	return j, nil
}

// memHealth is an in-memory SourceHealthRepository.
type memHealth struct {
	mu   sync.Mutex
	rows map[string]repository.SourceHealth
}

func newMemHealth() *memHealth {
	return &memHealth{rows: make(map[string]repository.SourceHealth)}
}

func (m *memHealth) Get(ctx context.Context, sourceConfigID string) (repository.SourceHealth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.rows[sourceConfigID]
	if !ok {
		return repository.SourceHealth{}, pgx.ErrNoRows
	}
	return h, nil
}

func (m *memHealth) Upsert(ctx context.Context, arg repository.UpsertSourceHealthParams) (repository.SourceHealth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := repository.SourceHealth{
		SourceConfigID:      arg.SourceConfigID,
		LastJobID:           arg.LastJobID,
		LastAttemptAt:       arg.LastAttemptAt,
		LastSuccessAt:       arg.LastSuccessAt,
		LastFingerprint:     arg.LastFingerprint,
		ConsecutiveFailures: arg.ConsecutiveFailures,
		TotalRuns:           arg.TotalRuns,
		TotalFailures:       arg.TotalFailures,
		CurrentRecordCount:  arg.CurrentRecordCount,
		BaselineRecordCount: arg.BaselineRecordCount,
		Healthy:             arg.Healthy,
		Message:             arg.Message,
		UpdatedAt:           arg.UpdatedAt,
	}
	m.rows[h.SourceConfigID] = h
	return h, nil
}

func (m *memHealth) GetAll(ctx context.Context) ([]repository.SourceHealth, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []repository.SourceHealth
	for _, h := range m.rows {
		out = append(out, h)
	}
	return out, nil
}

// memSources is an in-memory SourceConfigRepository.
type memSources struct {
	mu      sync.Mutex
	sources map[string]repository.SourceConfig
}

func newMemSources() *memSources {
	return &memSources{sources: make(map[string]repository.SourceConfig)}
}

func (m *memSources) GetByID(ctx context.Context, id string) (repository.SourceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sources[id]
	if !ok {
		return repository.SourceConfig{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *memSources) GetByKey(ctx context.Context, jurisdiction, dataSource string) (repository.SourceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sources {
		if s.Jurisdiction == jurisdiction && s.DataSource == dataSource {
			return s, nil
		}
	}
	return repository.SourceConfig{}, pgx.ErrNoRows
}

func (m *memSources) GetEnabled(ctx context.Context) ([]repository.SourceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []repository.SourceConfig
	for _, s := range m.sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memSources) GetAll(ctx context.Context) ([]repository.SourceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []repository.SourceConfig
	for _, s := range m.sources {
		out = append(out, s)
	}
	return out, nil
}

func (m *memSources) Create(ctx context.Context, arg repository.CreateSourceConfigParams) (repository.SourceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := repository.SourceConfig{
		ID:                 arg.ID,
		Jurisdiction:       arg.Jurisdiction,
		DataSource:         arg.DataSource,
		FetchURL:           arg.FetchURL,
		Format:             arg.Format,
		ColumnMapping:      arg.ColumnMapping,
		Schedule:           arg.Schedule,
		Enabled:            arg.Enabled,
		MinExpectedRecords: arg.MinExpectedRecords,
		MaxChangeRate:      arg.MaxChangeRate,
		CreatedAt:          arg.CreatedAt,
		UpdatedAt:          arg.UpdatedAt,
	}
	m.sources[s.ID] = s
	return s, nil
}

func (m *memSources) Update(ctx context.Context, arg repository.UpdateSourceConfigParams) (repository.SourceConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sources[arg.ID]
	if !ok {
		return repository.SourceConfig{}, pgx.ErrNoRows
	}
	s.FetchURL = arg.FetchURL
	s.Format = arg.Format
	s.ColumnMapping = arg.ColumnMapping
	s.Schedule = arg.Schedule
	s.Enabled = arg.Enabled
	s.MinExpectedRecords = arg.MinExpectedRecords
	s.MaxChangeRate = arg.MaxChangeRate
	s.UpdatedAt = arg.UpdatedAt
	m.sources[s.ID] = s
	return s, nil
}

func (m *memSources) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sources, id)
	return nil
}

// fakeFetcher serves canned payloads per URL.
type fakeFetcher struct {
	mu      sync.Mutex
	bodies  map[string][]byte
	err     error
	fetches int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: make(map[string][]byte)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (FetchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetches++
	if f.err != nil {
		return FetchResult{}, f.err
	}

	body, ok := f.bodies[url]
	if !ok {
		return FetchResult{}, ErrFetchFailed
	}
	return FetchResult{
		Body:        body,
		Fingerprint: Fingerprint(body),
		ContentType: "text/csv",
	}, nil
}

// fakeLocker grants every acquire unless told otherwise.
type fakeLocker struct {
	mu       sync.Mutex
	denied   bool
	held     map[string]string
	releases int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]string)}
}

func (l *fakeLocker) AcquireSyncLock(ctx context.Context, jurisdiction, dataSource, owner string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.denied {
		return false, nil
	}
	key := jurisdiction + ":" + dataSource
	if _, taken := l.held[key]; taken {
		return false, nil
	}
	l.held[key] = owner
	return true, nil
}

func (l *fakeLocker) ReleaseSyncLock(ctx context.Context, jurisdiction, dataSource, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := jurisdiction + ":" + dataSource
	if l.held[key] == owner {
		delete(l.held, key)
		l.releases++
	}
	return nil
}

// fakePublisher collects published payloads per subject.
type fakePublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{messages: make(map[string][][]byte)}
}

func (p *fakePublisher) PublishSync(ctx context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages[subject] = append(p.messages[subject], data)
	return nil
}

func (p *fakePublisher) count(subject string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.messages[subject])
}

// fakeArchive is the in-memory storage service with switchable upload
// failure for the best-effort archival contract.
type fakeArchive struct {
	*storage.MemoryStorage
	mu         sync.Mutex
	failUpload bool
	uploads    int
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{MemoryStorage: storage.NewMemoryStorage()}
}

func (a *fakeArchive) Upload(ctx context.Context, bucket, objectName string, content []byte, contentType string) (string, error) {
	a.mu.Lock()
	a.uploads++
	fail := a.failUpload
	a.mu.Unlock()

	if fail {
		return "", errForcedFailure
	}
	return a.MemoryStorage.Upload(ctx, bucket, objectName, content, contentType)
}

// fakeCache records invalidated jurisdictions.
type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *fakeCache) InvalidateCatalogCache(ctx context.Context, jurisdiction string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invalidated = append(c.invalidated, jurisdiction)
	return nil
}
