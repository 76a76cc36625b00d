package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"CatalogForge/internal/catalog"
	"CatalogForge/internal/pipeline"
	types "CatalogForge/pkg"
)

const fixtureHeader = "Channel Name,Channel Slug,Channel Description,Channel Category," +
	"Section Name,Section Slug,Section Order,Episode Number,Episode Title,Episode Slug," +
	"Episode Description,File Name,Required Tier Level,Is First Episode,Season Number,Tags"

// Two channels; channel A's second episode has no source video on disk.
var fixtureRows = []string{
	`Channel A,channel-a,All about A,education,Getting Started,getting-started,1,1,A One,a-one,First episode,,0,true,1,"intro, basics"`,
	`Channel A,channel-a,,,Getting Started,getting-started,1,2,A Two,a-two,Missing video,,0,false,1,`,
	`Channel A,channel-a,,,Extras,extras,2,3,A Three,a-three,Third episode,,1,false,1,extras`,
	`Channel B,channel-b,All about B,arts,,,,1,B One,b-one,,,0,true,1,`,
	`Channel B,channel-b,,,,,,2,B Two,b-two,,,0,false,1,`,
}

type workflowEnv struct {
	cat       *fakeCatalog
	store     *fakeStorage
	extractor *fakeExtractor
	wf        *pipeline.Workflow

	videosRoot string
	coversRoot string
}

func newWorkflowEnv(t *testing.T, spreadsheet string) *workflowEnv {
	t.Helper()
	dir := t.TempDir()

	sheetPath := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(sheetPath, []byte(spreadsheet), 0644))

	env := &workflowEnv{
		cat:        newFakeCatalog(),
		store:      newFakeStorage(),
		extractor:  &fakeExtractor{},
		videosRoot: filepath.Join(dir, "videos"),
		coversRoot: filepath.Join(dir, "covers"),
	}
	require.NoError(t, os.MkdirAll(env.videosRoot, 0755))
	require.NoError(t, os.MkdirAll(env.coversRoot, 0755))

	cfg := types.IngestConfig{
		SpreadsheetPath: sheetPath,
		VideosRoot:      env.videosRoot,
		CoversRoot:      env.coversRoot,
		Retry:           retryCfg(),
	}
	env.wf = pipeline.NewWorkflow(env.cat, newTestUploader(env.store), env.extractor, zap.NewNop(), cfg)
	return env
}

func (env *workflowEnv) addVideo(t *testing.T, dir, name string) {
	t.Helper()
	touch(t, filepath.Join(env.videosRoot, dir, name))
}

func (env *workflowEnv) addCover(t *testing.T, name string) {
	t.Helper()
	touch(t, filepath.Join(env.coversRoot, name))
}

func fixtureSpreadsheet() string {
	return fixtureHeader + "\n" + strings.Join(fixtureRows, "\n") + "\n"
}

func seedFixtureAssets(t *testing.T, env *workflowEnv) {
	env.addVideo(t, "1-channel-a", "01-a-one.mp4")
	env.addVideo(t, "1-channel-a", "03-a-three.mp4")
	env.addVideo(t, "channel-b", "01-b-one.mp4")
	env.addVideo(t, "channel-b", "02-b-two.mov")
	env.addCover(t, "1.jpg")
	env.addCover(t, "2.png")
}

func TestRunTwoChannelScenario(t *testing.T) {
	env := newWorkflowEnv(t, fixtureSpreadsheet())
	seedFixtureAssets(t, env)

	require.NoError(t, env.wf.Run(context.Background()))

	// 2 channels, 2 sections (both on channel A), 4 of 5 episodes:
	// a-two is skipped for its missing source video.
	assert.Equal(t, 2, env.cat.channelCreates)
	assert.Equal(t, 2, env.cat.sectionCreates)
	assert.Equal(t, 4, env.cat.episodeCreates)
	assert.NotContains(t, env.cat.episodes, "a-two")

	chA := env.cat.channels["channel-a"]
	chB := env.cat.channels["channel-b"]
	require.NotNil(t, chA)
	require.NotNil(t, chB)

	// Cover art resolved by discovery index, keyed by slug in the store
	require.NotNil(t, chA.CoverImageURL)
	assert.Equal(t, "https://cdn.example.org/covers/channel-a.jpg", *chA.CoverImageURL)
	require.NotNil(t, chB.CoverImageURL)
	assert.Equal(t, "https://cdn.example.org/covers/channel-b.png", *chB.CoverImageURL)

	// Reconciled count is the declared row count, so channel A reads 3
	// even though only 2 episodes were inserted.
	assert.Equal(t, 3, env.cat.videoCounts[chA.ID])
	assert.Equal(t, 2, env.cat.videoCounts[chB.ID])

	aOne := env.cat.episodes["a-one"]
	require.NotNil(t, aOne)
	assert.Equal(t, "https://cdn.example.org/videos/a-one.mp4", aOne.VideoURL)
	require.NotNil(t, aOne.ThumbnailURL)
	assert.Equal(t, "https://cdn.example.org/thumbnails/a-one.jpg", *aOne.ThumbnailURL)
	assert.Equal(t, chA.ID, aOne.ChannelID)
	assert.Equal(t, []string{"intro", "basics"}, aOne.Tags)
	assert.True(t, aOne.IsFirstEpisode)
	assert.Equal(t, 1, aOne.EpisodeNumber)

	gettingStarted := env.cat.sections[sectionKey(chA.ID, "getting-started")]
	require.NotNil(t, gettingStarted)
	require.NotNil(t, aOne.SectionID)
	assert.Equal(t, gettingStarted.ID, *aOne.SectionID)

	// Partial-failure isolation: a-three follows the failed a-two row
	aThree := env.cat.episodes["a-three"]
	require.NotNil(t, aThree)
	assert.Equal(t, 1, aThree.RequiredTierLevel)

	bTwo := env.cat.episodes["b-two"]
	require.NotNil(t, bTwo)
	assert.Equal(t, "https://cdn.example.org/videos/b-two.mov", bTwo.VideoURL)
	assert.Nil(t, bTwo.SectionID)
}

func TestRunIsIdempotent(t *testing.T) {
	env := newWorkflowEnv(t, fixtureSpreadsheet())
	seedFixtureAssets(t, env)

	require.NoError(t, env.wf.Run(context.Background()))
	objects := len(env.store.objects)

	require.NoError(t, env.wf.Run(context.Background()))

	assert.Equal(t, 2, env.cat.channelCreates)
	assert.Equal(t, 2, env.cat.sectionCreates)
	assert.Equal(t, 4, env.cat.episodeCreates)
	assert.Equal(t, objects, len(env.store.objects))
}

func TestRunResumesAfterMissingAssetAppears(t *testing.T) {
	env := newWorkflowEnv(t, fixtureSpreadsheet())
	seedFixtureAssets(t, env)

	require.NoError(t, env.wf.Run(context.Background()))
	require.NotContains(t, env.cat.episodes, "a-two")

	env.addVideo(t, "1-channel-a", "02-a-two.mp4")
	require.NoError(t, env.wf.Run(context.Background()))

	assert.Contains(t, env.cat.episodes, "a-two")
	assert.Equal(t, 5, env.cat.episodeCreates)
	// Everything else was an idempotency skip
	assert.Equal(t, 2, env.cat.channelCreates)
	assert.Equal(t, 2, env.cat.sectionCreates)
}

func TestRunThumbnailSoftFailure(t *testing.T) {
	env := newWorkflowEnv(t, fixtureSpreadsheet())
	seedFixtureAssets(t, env)
	env.extractor.extractErr = errors.New("no decodable frame")

	require.NoError(t, env.wf.Run(context.Background()))

	bOne := env.cat.episodes["b-one"]
	require.NotNil(t, bOne)
	assert.NotEmpty(t, bOne.VideoURL)
	assert.Nil(t, bOne.ThumbnailURL)

	for key := range env.store.objects {
		assert.NotContains(t, key, "thumbnails/")
	}
}

func TestRunMissingExtractorIsFatalBeforeWrites(t *testing.T) {
	env := newWorkflowEnv(t, fixtureSpreadsheet())
	seedFixtureAssets(t, env)
	env.extractor.checkErr = errors.New("ffmpeg not found")

	require.Error(t, env.wf.Run(context.Background()))

	assert.Zero(t, env.cat.channelCreates)
	assert.Empty(t, env.store.objects)
}

func TestRunMissingAdminIsFatal(t *testing.T) {
	env := newWorkflowEnv(t, fixtureSpreadsheet())
	seedFixtureAssets(t, env)
	env.cat.adminErr = catalog.ErrNotFound

	err := env.wf.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "administrative")
	assert.Zero(t, env.cat.channelCreates)
}

func TestRunEmptySpreadsheetIsFatal(t *testing.T) {
	env := newWorkflowEnv(t, fixtureHeader+"\n")

	require.Error(t, env.wf.Run(context.Background()))
	assert.Zero(t, env.cat.channelCreates)
}

func TestRunMissingCoverStillCreatesChannel(t *testing.T) {
	env := newWorkflowEnv(t, fixtureSpreadsheet())
	seedFixtureAssets(t, env)
	require.NoError(t, os.Remove(filepath.Join(env.coversRoot, "2.png")))

	require.NoError(t, env.wf.Run(context.Background()))

	chB := env.cat.channels["channel-b"]
	require.NotNil(t, chB)
	assert.Nil(t, chB.CoverImageURL)
}
