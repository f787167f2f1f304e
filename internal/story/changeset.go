// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

// # Partial Updates

// ChangeSet is a typed partial update for a story aggregate.
//
// Each sub-struct corresponds to exactly one of the four tables. A nil
// sub-struct means its table is not touched at all; within a sub-struct,
// a nil field means that column keeps its current value. This makes the
// Updater's "touch only named columns" rule statically checkable instead
// of relying on a dynamically-shaped patch object.
//
// The root UpdatedAt timestamp is not part of the change set: the Updater
// refreshes it unconditionally as the final step of every update.
type ChangeSet struct {
	Root       *RootChanges       `json:"root,omitempty"`
	Dedup      *DedupChanges      `json:"deduplication_result,omitempty"`
	Extraction *ExtractionChanges `json:"extraction_result,omitempty"`
	Narrative  *NarrativeChanges  `json:"narrative_result,omitempty"`
}

// RootChanges holds the mutable columns of the story root row.
// StoryID and CreatedAt are immutable and deliberately absent.
type RootChanges struct {
	UserID *string `json:"user_id,omitempty"`
	Status *Status `json:"status,omitempty"`
}

// DedupChanges holds the mutable columns of the deduplication sub-record.
type DedupChanges struct {
	OriginalCount *int      `json:"original_count,omitempty"`
	UniqueCount   *int      `json:"unique_count,omitempty"`
	UniquePaths   *[]string `json:"unique_paths,omitempty"`
}

// ExtractionChanges holds the mutable columns of the extraction sub-record.
type ExtractionChanges struct {
	Images           *[]ImageAnalysis `json:"images,omitempty"`
	PlaceContext     *PlaceContext    `json:"place_context,omitempty"`
	PreliminaryStory *string          `json:"preliminary_story,omitempty"`
}

// NarrativeChanges holds the mutable columns of the narrative sub-record.
type NarrativeChanges struct {
	Questions       *[]QuestionAnswer `json:"questions,omitempty"`
	Title           *string           `json:"title,omitempty"`
	Content         *string           `json:"content,omitempty"`
	WordCount       *int              `json:"word_count,omitempty"`
	Tone            *string           `json:"tone,omitempty"`
	ImagePlacements *[]ImagePlacement `json:"image_placements,omitempty"`
}

// IsEmpty reports whether the change set names no field at all.
func (c ChangeSet) IsEmpty() bool {
	return !c.hasRoot() && !c.hasDedup() && !c.hasExtraction() && !c.hasNarrative()
}

// hasRoot reports whether at least one root column is named.
func (c ChangeSet) hasRoot() bool {
	return c.Root != nil && (c.Root.UserID != nil || c.Root.Status != nil)
}

// hasDedup reports whether at least one deduplication column is named.
func (c ChangeSet) hasDedup() bool {
	d := c.Dedup
	return d != nil && (d.OriginalCount != nil || d.UniqueCount != nil || d.UniquePaths != nil)
}

// hasExtraction reports whether at least one extraction column is named.
func (c ChangeSet) hasExtraction() bool {
	e := c.Extraction
	return e != nil && (e.Images != nil || e.PlaceContext != nil || e.PreliminaryStory != nil)
}

// hasNarrative reports whether at least one narrative column is named.
func (c ChangeSet) hasNarrative() bool {
	n := c.Narrative
	return n != nil && (n.Questions != nil || n.Title != nil || n.Content != nil ||
		n.WordCount != nil || n.Tone != nil || n.ImagePlacements != nil)
}
