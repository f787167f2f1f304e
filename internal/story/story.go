// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package story defines the core domain aggregate for the Atlance archive.

A Story is the durable output of the upstream travel-blog pipeline. It is
composed of a root record plus three sub-records, each produced by one
pipeline stage:

  - Deduplication: which of the uploaded images survived near-duplicate removal.
  - Extraction: per-image metadata (timestamps, geo, subjects) and place context.
  - Narrative: the generated blog post with its Q&A trail and image placements.

The four records form a single consistency unit: they are written together,
read back together, and removed together. Sub-records never exist without
their root, and a root without all three sub-records is a data-integrity
fault, not a valid state.
*/
package story

import "time"

// # Domain Enums

// Status represents the lifecycle state of a story.
type Status string

const (
	// StatusProcessing indicates the pipeline has not finished all stages.
	StatusProcessing Status = "processing"

	// StatusCompleted indicates all pipeline stages finished successfully.
	StatusCompleted Status = "completed"

	// StatusFailed indicates a pipeline stage failed permanently.
	StatusFailed Status = "failed"

	// StatusDeleted marks a story as logically removed (soft delete).
	// Rows remain in place until the retention sweep purges them.
	StatusDeleted Status = "deleted"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case
		StatusProcessing,
		StatusCompleted,
		StatusFailed,
		StatusDeleted:
		return true
	}
	return false
}

// IsRestorable reports whether s is a valid post-restore status.
// A story cannot be restored back into the deleted state.
func (s Status) IsRestorable() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// # Core Entities

// Story is the root aggregate of the Atlance domain.
//
// StoryID and CreatedAt are immutable after the initial write. UpdatedAt is
// refreshed by every mutating operation and is always >= CreatedAt.
type Story struct {
	StoryID   string    `json:"story_id"`
	UserID    string    `json:"user_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Sub-records, owned 1:1 by this story.
	Deduplication *DeduplicationResult `json:"deduplication_result,omitempty"`
	Extraction    *ExtractionResult    `json:"extraction_result,omitempty"`
	Narrative     *NarrativeResult     `json:"narrative_result,omitempty"`
}

// Metadata is the root-only projection of a [Story], used by listings and
// cheap existence/status checks. No sub-record data is ever attached.
type Metadata struct {
	StoryID   string    `json:"story_id"`
	UserID    string    `json:"user_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Sub-records

// DeduplicationResult records the outcome of near-duplicate image removal.
type DeduplicationResult struct {
	OriginalCount int      `json:"original_count"` // Images received by the pipeline
	UniqueCount   int      `json:"unique_count"`   // Images surviving deduplication
	UniquePaths   []string `json:"unique_paths"`   // Ordered surviving image paths
}

// Location is a geographic coordinate pair.
type Location struct {
	Lat float64 `json:"lat"` // [-90, 90]
	Lng float64 `json:"lng"` // [-180, 180]
}

// ImageAnalysis is the extracted metadata for a single surviving image.
type ImageAnalysis struct {
	Path      string    `json:"path"`
	Timestamp string    `json:"timestamp"`          // ISO 8601, as emitted by the extractor
	Location  *Location `json:"location,omitempty"` // nil when EXIF carried no coordinates
	Subjects  []string  `json:"subjects"`           // Recognised landmarks, activities, people
}

// PlaceContext carries verified information about the dominant place of the trip.
type PlaceContext struct {
	Name     string    `json:"name"`
	Facts    []string  `json:"facts"` // Ordered landmark facts from the search stage
	Location *Location `json:"location,omitempty"`
}

// ExtractionResult records the metadata/feature extraction stage output.
type ExtractionResult struct {
	Images           []ImageAnalysis `json:"images"`
	PlaceContext     PlaceContext    `json:"place_context"`
	PreliminaryStory string          `json:"preliminary_story"`
}

// QuestionAnswer is one exchange from the interactive question stage.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ImagePlacement anchors an image into the generated narrative.
type ImagePlacement struct {
	Path    string `json:"path"`
	Caption string `json:"caption"`
}

// NarrativeResult records the generated blog narrative.
type NarrativeResult struct {
	Questions       []QuestionAnswer `json:"questions"`
	Title           string           `json:"title"`
	Content         string           `json:"content"`
	WordCount       int              `json:"word_count"`
	Tone            string           `json:"tone"`
	ImagePlacements []ImagePlacement `json:"image_placements"`
}

// # Listing

// SortField identifies a column the Lister may order by.
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
	SortByStoryID   SortField = "story_id"
)

// IsValid reports whether f is a recognised [SortField].
func (f SortField) IsValid() bool {
	switch f {
	case SortByCreatedAt, SortByUpdatedAt, SortByStoryID:
		return true
	}
	return false
}

// SortOrder is the listing direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid reports whether o is a recognised [SortOrder].
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// Filter holds the optional equality predicates for the Lister.
// Zero values mean "no predicate" — an empty filter scans all stories.
type Filter struct {
	UserID string
	Status Status
}

// # Field Constants

// Canonical field paths used in validation error details.
const (
	FieldStoryID   = "story_id"
	FieldUserID    = "user_id"
	FieldStatus    = "status"
	FieldCreatedAt = "created_at"

	FieldDedupOriginalCount = "deduplication_result.original_count"
	FieldDedupUniqueCount   = "deduplication_result.unique_count"

	FieldExtractionImages    = "extraction_result.images"
	FieldExtractionPlaceName = "extraction_result.place_context.name"

	FieldNarrativeTitle     = "narrative_result.title"
	FieldNarrativeContent   = "narrative_result.content"
	FieldNarrativeWordCount = "narrative_result.word_count"

	FieldLimit     = "limit"
	FieldOffset    = "offset"
	FieldSortBy    = "sort_by"
	FieldSortOrder = "sort_order"

	FieldRetentionDays = "retention_days"
)

// MaxStoryIDLen is the maximum length of a story identifier (column width).
const MaxStoryIDLen = 255
