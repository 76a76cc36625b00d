package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles database operations for the media catalog
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new catalog store
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// GetAdminUserID returns the id of the oldest administrative user.
// ErrNotFound means no admin exists, which callers treat as a fatal
// precondition.
func (s *Store) GetAdminUserID(ctx context.Context) (uuid.UUID, error) {
	query := `
		SELECT id FROM users
		WHERE role = 'admin'
		ORDER BY created_at
		LIMIT 1
	`

	var id uuid.UUID
	err := s.db.QueryRow(ctx, query).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to look up admin user: %w", err)
	}

	return id, nil
}

// GetChannelBySlug retrieves a channel by its slug
func (s *Store) GetChannelBySlug(ctx context.Context, slug string) (*Channel, error) {
	query := `
		SELECT id, slug, title, description, category, cover_image_url,
		       video_count, created_by, created_at
		FROM channels
		WHERE slug = $1
	`

	var ch Channel
	err := s.db.QueryRow(ctx, query, slug).Scan(
		&ch.ID, &ch.Slug, &ch.Title, &ch.Description, &ch.Category,
		&ch.CoverImageURL, &ch.VideoCount, &ch.CreatedBy, &ch.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return &ch, nil
}

// CreateChannel inserts a new channel row, assigning its id
func (s *Store) CreateChannel(ctx context.Context, ch Channel) (*Channel, error) {
	ch.ID = uuid.New()
	ch.CreatedAt = time.Now()

	query := `
		INSERT INTO channels (id, slug, title, description, category,
		                      cover_image_url, video_count, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.Exec(ctx, query,
		ch.ID, ch.Slug, ch.Title, ch.Description, ch.Category,
		ch.CoverImageURL, ch.VideoCount, ch.CreatedBy, ch.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return &ch, nil
}

// GetSection retrieves a section by its channel id and slug
func (s *Store) GetSection(ctx context.Context, channelID uuid.UUID, slug string) (*Section, error) {
	query := `
		SELECT id, channel_id, slug, title, sort_order, created_by, created_at
		FROM sections
		WHERE channel_id = $1 AND slug = $2
	`

	var sec Section
	err := s.db.QueryRow(ctx, query, channelID, slug).Scan(
		&sec.ID, &sec.ChannelID, &sec.Slug, &sec.Title,
		&sec.SortOrder, &sec.CreatedBy, &sec.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	return &sec, nil
}

// CreateSection inserts a new section row, assigning its id
func (s *Store) CreateSection(ctx context.Context, sec Section) (*Section, error) {
	sec.ID = uuid.New()
	sec.CreatedAt = time.Now()

	query := `
		INSERT INTO sections (id, channel_id, slug, title, sort_order, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		sec.ID, sec.ChannelID, sec.Slug, sec.Title,
		sec.SortOrder, sec.CreatedBy, sec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}

	return &sec, nil
}

// GetEpisodeBySlug retrieves an episode by its globally unique slug
func (s *Store) GetEpisodeBySlug(ctx context.Context, slug string) (*Episode, error) {
	query := `
		SELECT id, slug, channel_id, section_id, title, description,
		       video_url, thumbnail_url, episode_number, season_number,
		       required_tier_level, is_first_episode, tags, status,
		       created_by, created_at
		FROM episodes
		WHERE slug = $1
	`

	var ep Episode
	err := s.db.QueryRow(ctx, query, slug).Scan(
		&ep.ID, &ep.Slug, &ep.ChannelID, &ep.SectionID, &ep.Title,
		&ep.Description, &ep.VideoURL, &ep.ThumbnailURL, &ep.EpisodeNumber,
		&ep.SeasonNumber, &ep.RequiredTierLevel, &ep.IsFirstEpisode,
		&ep.Tags, &ep.Status, &ep.CreatedBy, &ep.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get episode: %w", err)
	}

	return &ep, nil
}

// CreateEpisode inserts a new episode row, assigning its id
func (s *Store) CreateEpisode(ctx context.Context, ep Episode) (*Episode, error) {
	ep.ID = uuid.New()
	ep.CreatedAt = time.Now()

	query := `
		INSERT INTO episodes (id, slug, channel_id, section_id, title, description,
		                      video_url, thumbnail_url, episode_number, season_number,
		                      required_tier_level, is_first_episode, tags, status,
		                      created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := s.db.Exec(ctx, query,
		ep.ID, ep.Slug, ep.ChannelID, ep.SectionID, ep.Title, ep.Description,
		ep.VideoURL, ep.ThumbnailURL, ep.EpisodeNumber, ep.SeasonNumber,
		ep.RequiredTierLevel, ep.IsFirstEpisode, ep.Tags, ep.Status,
		ep.CreatedBy, ep.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create episode: %w", err)
	}

	return &ep, nil
}

// UpdateChannelVideoCount sets a channel's aggregate video count
func (s *Store) UpdateChannelVideoCount(ctx context.Context, channelID uuid.UUID, count int) error {
	query := `
		UPDATE channels
		SET video_count = $2
		WHERE id = $1
	`

	_, err := s.db.Exec(ctx, query, channelID, count)
	if err != nil {
		return fmt.Errorf("failed to update video count: %w", err)
	}

	return nil
}
