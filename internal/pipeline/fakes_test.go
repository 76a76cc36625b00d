package pipeline_test

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"CatalogForge/internal/catalog"
	"CatalogForge/internal/pipeline/storage"
	types "CatalogForge/pkg"
)

func retryCfg() types.RetryConfig {
	return types.RetryConfig{MaxAttempts: 1, InitialIntervalSec: 0.001, BackoffCoefficient: 2}
}

// fakeStorage keeps uploaded objects in memory and rejects duplicate
// keys the way the real backends do.
type fakeStorage struct {
	objects      map[string][]byte
	contentTypes map[string]string
	failWith     map[string]error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
		failWith:     make(map[string]error),
	}
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	if err, ok := f.failWith[key]; ok {
		return err
	}
	if _, ok := f.objects[key]; ok {
		return storage.ErrKeyExists
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.contentTypes[key] = contentType
	return nil
}

type fakeExtractor struct {
	checkErr   error
	extractErr error
	extracted  int
}

func (f *fakeExtractor) Check() error {
	return f.checkErr
}

func (f *fakeExtractor) ExtractFrame(ctx context.Context, inputFile, outputFile string) error {
	if f.extractErr != nil {
		return f.extractErr
	}
	f.extracted++
	return os.WriteFile(outputFile, []byte("frame"), 0644)
}

// fakeCatalog is an in-memory stand-in for the Postgres store, keyed by
// the same natural keys.
type fakeCatalog struct {
	adminID     uuid.UUID
	adminErr    error
	channels    map[string]*catalog.Channel
	sections    map[string]*catalog.Section
	episodes    map[string]*catalog.Episode
	videoCounts map[uuid.UUID]int

	channelCreates int
	sectionCreates int
	episodeCreates int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		adminID:     uuid.New(),
		channels:    make(map[string]*catalog.Channel),
		sections:    make(map[string]*catalog.Section),
		episodes:    make(map[string]*catalog.Episode),
		videoCounts: make(map[uuid.UUID]int),
	}
}

func (f *fakeCatalog) GetAdminUserID(ctx context.Context) (uuid.UUID, error) {
	if f.adminErr != nil {
		return uuid.Nil, f.adminErr
	}
	return f.adminID, nil
}

func (f *fakeCatalog) GetChannelBySlug(ctx context.Context, slug string) (*catalog.Channel, error) {
	if ch, ok := f.channels[slug]; ok {
		return ch, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) CreateChannel(ctx context.Context, ch catalog.Channel) (*catalog.Channel, error) {
	ch.ID = uuid.New()
	f.channels[ch.Slug] = &ch
	f.channelCreates++
	return &ch, nil
}

func sectionKey(channelID uuid.UUID, slug string) string {
	return fmt.Sprintf("%s/%s", channelID, slug)
}

func (f *fakeCatalog) GetSection(ctx context.Context, channelID uuid.UUID, slug string) (*catalog.Section, error) {
	if sec, ok := f.sections[sectionKey(channelID, slug)]; ok {
		return sec, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) CreateSection(ctx context.Context, sec catalog.Section) (*catalog.Section, error) {
	sec.ID = uuid.New()
	f.sections[sectionKey(sec.ChannelID, sec.Slug)] = &sec
	f.sectionCreates++
	return &sec, nil
}

func (f *fakeCatalog) GetEpisodeBySlug(ctx context.Context, slug string) (*catalog.Episode, error) {
	if ep, ok := f.episodes[slug]; ok {
		return ep, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) CreateEpisode(ctx context.Context, ep catalog.Episode) (*catalog.Episode, error) {
	ep.ID = uuid.New()
	f.episodes[ep.Slug] = &ep
	f.episodeCreates++
	return &ep, nil
}

func (f *fakeCatalog) UpdateChannelVideoCount(ctx context.Context, channelID uuid.UUID, count int) error {
	f.videoCounts[channelID] = count
	return nil
}
