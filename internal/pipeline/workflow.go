package pipeline

import (
	"CatalogForge/internal/catalog"
	"CatalogForge/internal/sheet"
	types "CatalogForge/pkg"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Catalog is the relational store the pipeline writes to. Lookups by
// natural key return catalog.ErrNotFound on a miss.
type Catalog interface {
	GetAdminUserID(ctx context.Context) (uuid.UUID, error)
	GetChannelBySlug(ctx context.Context, slug string) (*catalog.Channel, error)
	CreateChannel(ctx context.Context, ch catalog.Channel) (*catalog.Channel, error)
	GetSection(ctx context.Context, channelID uuid.UUID, slug string) (*catalog.Section, error)
	CreateSection(ctx context.Context, sec catalog.Section) (*catalog.Section, error)
	GetEpisodeBySlug(ctx context.Context, slug string) (*catalog.Episode, error)
	CreateEpisode(ctx context.Context, ep catalog.Episode) (*catalog.Episode, error)
	UpdateChannelVideoCount(ctx context.Context, channelID uuid.UUID, count int) error
}

// FrameExtractor produces a still image from a video file. Check is a
// fatal precondition; ExtractFrame failures are soft.
type FrameExtractor interface {
	Check() error
	ExtractFrame(ctx context.Context, inputFile, outputFile string) error
}

type Workflow struct {
	catalog   Catalog
	uploader  *Uploader
	extractor FrameExtractor
	logger    *zap.Logger
	ingest    types.IngestConfig
}

// runContext carries the per-run lookup state. Keeping it on the run
// rather than in package state keeps the workflow re-entrant.
type runContext struct {
	adminID    uuid.UUID
	scratchDir string
	channelIDs map[string]uuid.UUID
	sectionIDs map[string]uuid.UUID // keyed "<channel-slug>/<section-slug>"
}

func NewWorkflow(cat Catalog, uploader *Uploader, extractor FrameExtractor, logger *zap.Logger, ingestCfg types.IngestConfig) *Workflow {
	return &Workflow{
		catalog:   cat,
		uploader:  uploader,
		extractor: extractor,
		logger:    logger,
		ingest:    ingestCfg,
	}
}

// Run executes one full ingestion pass. Failed preconditions abort
// before any write; per-episode failures are logged and skipped, so a
// rerun of the same command resumes by filling in whatever is missing.
func (w *Workflow) Run(ctx context.Context) error {
	// Step 1: Verify preconditions before touching the catalog
	if err := w.extractor.Check(); err != nil {
		return err
	}
	adminID, err := w.catalog.GetAdminUserID(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("no administrative user found to attribute created rows")
		}
		return err
	}

	// Scratch directory for intermediate thumbnails, removed on every
	// exit path regardless of how many episodes succeeded
	scratchDir, err := os.MkdirTemp("", "catalogforge-")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratchDir)

	// Step 2: Parse the spreadsheet
	w.logger.Info("Reading spreadsheet", zap.String("path", w.ingest.SpreadsheetPath))
	raw, err := os.ReadFile(w.ingest.SpreadsheetPath)
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	table, err := sheet.Parse(string(raw))
	if err != nil {
		return err
	}
	if len(table.Records) == 0 {
		return fmt.Errorf("spreadsheet %s has no data rows", w.ingest.SpreadsheetPath)
	}

	// Step 3: Group rows into the channel hierarchy
	channels := Group(table.Records)
	w.logger.Info("Grouped spreadsheet",
		zap.Int("rows", len(table.Records)),
		zap.Int("channels", channels.Len()))

	run := &runContext{
		adminID:    adminID,
		scratchDir: scratchDir,
		channelIDs: make(map[string]uuid.UUID),
		sectionIDs: make(map[string]uuid.UUID),
	}

	// Step 4: Channels in spreadsheet discovery order
	for pair := channels.Oldest(); pair != nil; pair = pair.Next() {
		if err := w.processChannel(ctx, run, pair.Value); err != nil {
			return err
		}
	}

	w.logger.Info("Ingestion complete", zap.Int("channels", channels.Len()))
	return nil
}

func (w *Workflow) processChannel(ctx context.Context, run *runContext, group *ChannelGroup) error {
	w.logger.Info("Processing channel",
		zap.String("slug", group.Slug),
		zap.String("title", group.Title))

	channelID, err := w.ensureChannel(ctx, run, group)
	if err != nil {
		return err
	}
	run.channelIDs[group.Slug] = channelID

	// Sections in ascending declared sort order
	sections := make([]*SectionGroup, 0, group.Sections.Len())
	for pair := group.Sections.Oldest(); pair != nil; pair = pair.Next() {
		sections = append(sections, pair.Value)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].SortOrder < sections[j].SortOrder
	})
	for _, sec := range sections {
		if err := w.ensureSection(ctx, run, group.Slug, channelID, sec); err != nil {
			return err
		}
	}

	// Episodes in spreadsheet row order, each isolated: one bad row
	// never aborts the batch
	for _, rec := range group.Rows {
		if err := w.processEpisode(ctx, run, group, rec); err != nil {
			w.logger.Error("Episode failed, continuing with next",
				zap.String("title", rec[sheet.ColEpisodeTitle]),
				zap.String("slug", rec[sheet.ColEpisodeSlug]),
				zap.Error(err))
		}
	}

	// Reconcile to the declared row count. Rows skipped for missing
	// assets still count, matching the behavior this pipeline replaces.
	if err := w.catalog.UpdateChannelVideoCount(ctx, channelID, len(group.Rows)); err != nil {
		return err
	}

	return nil
}

func (w *Workflow) ensureChannel(ctx context.Context, run *runContext, group *ChannelGroup) (uuid.UUID, error) {
	existing, err := w.catalog.GetChannelBySlug(ctx, group.Slug)
	if err == nil {
		w.logger.Info("Channel already exists, skipping create", zap.String("slug", group.Slug))
		return existing.ID, nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return uuid.Nil, err
	}

	coverURL := w.uploadCover(ctx, group)
	created, err := w.catalog.CreateChannel(ctx, catalog.Channel{
		Slug:          group.Slug,
		Title:         group.Title,
		Description:   group.Description,
		Category:      group.Category,
		CoverImageURL: coverURL,
		CreatedBy:     run.adminID,
	})
	if err != nil {
		return uuid.Nil, err
	}

	w.logger.Info("Channel created",
		zap.String("slug", created.Slug),
		zap.String("id", created.ID.String()))
	return created.ID, nil
}

// uploadCover resolves cover art by the channel's discovery index. A
// missing or failed cover leaves the channel without artwork; it is not
// an error.
func (w *Workflow) uploadCover(ctx context.Context, group *ChannelGroup) *string {
	for _, ext := range []string{".jpg", ".png"} {
		path := filepath.Join(w.ingest.CoversRoot, fmt.Sprintf("%d%s", group.CoverIndex, ext))
		if _, err := os.Stat(path); err != nil {
			continue
		}
		key := fmt.Sprintf("covers/%s%s", group.Slug, ext)
		url, err := w.uploader.UploadFile(ctx, path, key)
		if err != nil {
			w.logger.Warn("Cover upload failed, creating channel without artwork",
				zap.String("slug", group.Slug), zap.Error(err))
			return nil
		}
		return &url
	}

	w.logger.Warn("No cover art found for channel",
		zap.String("slug", group.Slug),
		zap.Int("index", group.CoverIndex))
	return nil
}

func (w *Workflow) ensureSection(ctx context.Context, run *runContext, channelSlug string, channelID uuid.UUID, sg *SectionGroup) error {
	key := channelSlug + "/" + sg.Slug

	existing, err := w.catalog.GetSection(ctx, channelID, sg.Slug)
	if err == nil {
		w.logger.Info("Section already exists, skipping create",
			zap.String("channel", channelSlug), zap.String("slug", sg.Slug))
		run.sectionIDs[key] = existing.ID
		return nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return err
	}

	created, err := w.catalog.CreateSection(ctx, catalog.Section{
		ChannelID: channelID,
		Slug:      sg.Slug,
		Title:     sg.Title,
		SortOrder: sg.SortOrder,
		CreatedBy: run.adminID,
	})
	if err != nil {
		return err
	}

	w.logger.Info("Section created",
		zap.String("channel", channelSlug),
		zap.String("slug", created.Slug),
		zap.Int("sort_order", created.SortOrder))
	run.sectionIDs[key] = created.ID
	return nil
}

// processEpisode runs one episode through locate → upload video →
// extract thumbnail → upload thumbnail → insert. The catalog insert is
// the final step, so no partial episode row is ever written.
func (w *Workflow) processEpisode(ctx context.Context, run *runContext, group *ChannelGroup, rec sheet.Record) error {
	slug := rec[sheet.ColEpisodeSlug]

	if _, err := w.catalog.GetEpisodeBySlug(ctx, slug); err == nil {
		w.logger.Info("Episode already exists, skipping", zap.String("slug", slug))
		return nil
	} else if !errors.Is(err, catalog.ErrNotFound) {
		return err
	}

	episodeNumber := parseIntDefault(rec[sheet.ColEpisodeNumber], 0)
	videoPath, found := LocateAsset(w.ingest.VideosRoot, group.Slug, group.CoverIndex, slug, episodeNumber, rec[sheet.ColFileName])
	if !found {
		return fmt.Errorf("no source video found for episode %q", slug)
	}

	videoKey := "videos/" + slug + strings.ToLower(filepath.Ext(videoPath))
	videoURL, err := w.uploader.UploadFile(ctx, videoPath, videoKey)
	if err != nil {
		return fmt.Errorf("video upload failed: %w", err)
	}

	var thumbnailURL *string
	thumbPath := filepath.Join(run.scratchDir, slug+".jpg")
	if err := w.extractor.ExtractFrame(ctx, videoPath, thumbPath); err != nil {
		w.logger.Warn("Thumbnail extraction failed, continuing without thumbnail",
			zap.String("slug", slug), zap.Error(err))
	} else {
		url, err := w.uploader.UploadFile(ctx, thumbPath, "thumbnails/"+slug+".jpg")
		if err != nil {
			return fmt.Errorf("thumbnail upload failed: %w", err)
		}
		thumbnailURL = &url
	}

	var sectionID *uuid.UUID
	if secSlug := rec[sheet.ColSectionSlug]; secSlug != "" {
		if id, ok := run.sectionIDs[group.Slug+"/"+secSlug]; ok {
			sectionID = &id
		}
	}

	episode := catalog.Episode{
		Slug:              slug,
		ChannelID:         run.channelIDs[group.Slug],
		SectionID:         sectionID,
		Title:             rec[sheet.ColEpisodeTitle],
		Description:       rec[sheet.ColEpisodeDescription],
		VideoURL:          videoURL,
		ThumbnailURL:      thumbnailURL,
		EpisodeNumber:     episodeNumber,
		SeasonNumber:      parseIntDefault(rec[sheet.ColSeasonNumber], 1),
		RequiredTierLevel: parseIntDefault(rec[sheet.ColRequiredTierLevel], 0),
		IsFirstEpisode:    parseBool(rec[sheet.ColIsFirstEpisode]),
		Tags:              parseTags(rec[sheet.ColTags]),
		Status:            catalog.StatusPublished,
		CreatedBy:         run.adminID,
	}
	created, err := w.catalog.CreateEpisode(ctx, episode)
	if err != nil {
		return fmt.Errorf("failed to insert episode: %w", err)
	}

	w.logger.Info("Episode ingested",
		zap.String("slug", created.Slug),
		zap.String("video_url", created.VideoURL))
	return nil
}

func parseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}
