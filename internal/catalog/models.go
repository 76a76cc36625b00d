package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by natural-key lookups when no row matches.
var ErrNotFound = errors.New("catalog: not found")

// EpisodeStatus represents the publication state of an episode
type EpisodeStatus string

const (
	StatusPublished EpisodeStatus = "published"
	StatusDraft     EpisodeStatus = "draft"
)

// Channel is a top-level named collection of episodes (a show).
// The slug is globally unique; VideoCount is the only field mutated
// after initial creation.
type Channel struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	VideoCount    int       `json:"video_count"`
	CreatedBy     uuid.UUID `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// Section is an ordered sub-grouping of episodes within a channel.
// Its slug is unique within the owning channel.
type Section struct {
	ID        uuid.UUID `json:"id"`
	ChannelID uuid.UUID `json:"channel_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	SortOrder int       `json:"sort_order"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Episode is a single video entity. Its slug is globally unique.
type Episode struct {
	ID                uuid.UUID     `json:"id"`
	Slug              string        `json:"slug"`
	ChannelID         uuid.UUID     `json:"channel_id"`
	SectionID         *uuid.UUID    `json:"section_id,omitempty"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	VideoURL          string        `json:"video_url"`
	ThumbnailURL      *string       `json:"thumbnail_url,omitempty"`
	EpisodeNumber     int           `json:"episode_number"`
	SeasonNumber      int           `json:"season_number"`
	RequiredTierLevel int           `json:"required_tier_level"`
	IsFirstEpisode    bool          `json:"is_first_episode"`
	Tags              []string      `json:"tags,omitempty"`
	Status            EpisodeStatus `json:"status"`
	CreatedBy         uuid.UUID     `json:"created_by"`
	CreatedAt         time.Time     `json:"created_at"`
}
