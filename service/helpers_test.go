package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skydrive-cloud/sky-drive-service/config"
	"github.com/skydrive-cloud/sky-drive-service/entity"
	"github.com/skydrive-cloud/sky-drive-service/infra/produce"
	"github.com/skydrive-cloud/sky-drive-service/repository"
	"github.com/skydrive-cloud/sky-drive-service/service"
)

type fakeBlobStore struct {
	mu         sync.Mutex
	uploaded   map[string]string // key -> content type
	removed    []string
	failRemove bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploaded: make(map[string]string)}
}

func (f *fakeBlobStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, contentType string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded[key] = contentType
	return "etag-" + key, nil
}

func (f *fakeBlobStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRemove {
		return errors.New("object store unreachable")
	}
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeBlobStore) PresignedGet(_ context.Context, key string, expiry time.Duration) (*url.URL, error) {
	return url.Parse(fmt.Sprintf("http://blobs.local/%s?expires=%d", key, int(expiry.Seconds())))
}

func (f *fakeBlobStore) removedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

type fakeCleanupQueue struct {
	mu   sync.Mutex
	msgs []produce.BlobCleanupMessage
}

func (f *fakeCleanupQueue) PublishBlobCleanup(_ context.Context, msg produce.BlobCleanupMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return nil
}

type memCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{store: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.store[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = raw
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.store, k)
	}
	return nil
}

type testEnv struct {
	svc   *service.Service
	repo  *repository.Repository
	blobs *fakeBlobStore
	queue *fakeCleanupQueue
	cache *memCache
	cfg   *config.EnvConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, entity.Migrate(db))

	cfg := &config.EnvConfig{}
	cfg.Storage.LimitBytes = 107374182400
	cfg.Storage.CDNBaseURL = "https://cdn.test/sky-drive"

	env := &testEnv{
		repo:  repository.InitRepository(db),
		blobs: newFakeBlobStore(),
		queue: &fakeCleanupQueue{},
		cache: newMemCache(),
		cfg:   cfg,
	}
	env.svc = service.InitService(cfg, env.repo, env.blobs, env.queue, env.cache, slog.New(slog.DiscardHandler))
	return env
}

func (e *testEnv) mustCreateFolder(t *testing.T, ownerID uuid.UUID, name string, parentID *uuid.UUID) *entity.Entry {
	t.Helper()
	folder, err := e.svc.CreateFolder(context.Background(), ownerID, name, parentID)
	require.NoError(t, err)
	return folder
}

func (e *testEnv) mustUpload(t *testing.T, ownerID uuid.UUID, parentID *uuid.UUID, name string, size int64, contentType, body string) *entity.Entry {
	t.Helper()
	file, err := e.svc.UploadFile(context.Background(), ownerID, parentID, name, size, contentType, strings.NewReader(body))
	require.NoError(t, err)
	return file
}
