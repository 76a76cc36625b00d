package pipeline

import (
	"CatalogForge/internal/sheet"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ChannelGroup accumulates the denormalized channel columns and the
// episode rows declared for one channel, in spreadsheet order.
type ChannelGroup struct {
	Slug        string
	Title       string
	Description string
	Category    string
	// CoverIndex is the 1-based discovery order among distinct channels.
	// Cover art on disk is matched to channels by this position, not by
	// slug, so row order must stay stable between runs.
	CoverIndex int
	Sections   *orderedmap.OrderedMap[string, *SectionGroup]
	Rows       []sheet.Record
}

// SectionGroup accumulates one section's declared fields.
type SectionGroup struct {
	Slug      string
	Title     string
	SortOrder int
}

// Group folds parsed records into discovery-ordered channel
// accumulators. Channel and section fields are seeded from the first
// row that mentions them; every row, repeats included, is appended to
// its channel's episode list.
func Group(records []sheet.Record) *orderedmap.OrderedMap[string, *ChannelGroup] {
	channels := orderedmap.New[string, *ChannelGroup]()

	for _, rec := range records {
		slug := rec[sheet.ColChannelSlug]
		group, ok := channels.Get(slug)
		if !ok {
			group = &ChannelGroup{
				Slug:        slug,
				Title:       rec[sheet.ColChannelName],
				Description: rec[sheet.ColChannelDescription],
				Category:    rec[sheet.ColChannelCategory],
				CoverIndex:  channels.Len() + 1,
				Sections:    orderedmap.New[string, *SectionGroup](),
			}
			channels.Set(slug, group)
		}

		if secSlug := rec[sheet.ColSectionSlug]; secSlug != "" {
			if _, seen := group.Sections.Get(secSlug); !seen {
				group.Sections.Set(secSlug, &SectionGroup{
					Slug:      secSlug,
					Title:     rec[sheet.ColSectionName],
					SortOrder: parseIntDefault(rec[sheet.ColSectionOrder], 0),
				})
			}
		}

		group.Rows = append(group.Rows, rec)
	}

	return channels
}

func parseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
