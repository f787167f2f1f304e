// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ExtractionResultTable represents the 'story.extraction_result' table
type ExtractionResultTable struct {
	Table            string
	StoryID          string
	Images           string
	PlaceContext     string
	PreliminaryStory string
}

// ExtractionResult is the schema definition for story.extraction_result
var ExtractionResult = ExtractionResultTable{
	Table:            "story.extraction_result",
	StoryID:          "story_id",
	Images:           "images",
	PlaceContext:     "place_context",
	PreliminaryStory: "preliminary_story",
}

func (t ExtractionResultTable) Columns() []string {
	return []string{t.StoryID, t.Images, t.PlaceContext, t.PreliminaryStory}
}
