// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// DeduplicationResultTable represents the 'story.deduplication_result' table
type DeduplicationResultTable struct {
	Table         string
	StoryID       string
	OriginalCount string
	UniqueCount   string
	UniquePaths   string
}

// DeduplicationResult is the schema definition for story.deduplication_result
var DeduplicationResult = DeduplicationResultTable{
	Table:         "story.deduplication_result",
	StoryID:       "story_id",
	OriginalCount: "original_count",
	UniqueCount:   "unique_count",
	UniquePaths:   "unique_paths",
}

func (t DeduplicationResultTable) Columns() []string {
	return []string{t.StoryID, t.OriginalCount, t.UniqueCount, t.UniquePaths}
}
