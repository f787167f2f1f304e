// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// NarrativeResultTable represents the 'story.narrative_result' table
type NarrativeResultTable struct {
	Table           string
	StoryID         string
	Questions       string
	Title           string
	Content         string
	WordCount       string
	Tone            string
	ImagePlacements string
}

// NarrativeResult is the schema definition for story.narrative_result
var NarrativeResult = NarrativeResultTable{
	Table:           "story.narrative_result",
	StoryID:         "story_id",
	Questions:       "questions",
	Title:           "title",
	Content:         "content",
	WordCount:       "word_count",
	Tone:            "tone",
	ImagePlacements: "image_placements",
}

func (t NarrativeResultTable) Columns() []string {
	return []string{t.StoryID, t.Questions, t.Title, t.Content, t.WordCount, t.Tone, t.ImagePlacements}
}
