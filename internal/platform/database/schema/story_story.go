// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema centralizes physical table and column names.
//
// Repositories build SQL exclusively from these definitions so that a
// rename touches exactly one file and stray literals cannot drift.
package schema

// StoryTable represents the 'story.story' root table
type StoryTable struct {
	Table     string
	StoryID   string
	UserID    string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// Story is the schema definition for story.story
var Story = StoryTable{
	Table:     "story.story",
	StoryID:   "story_id",
	UserID:    "user_id",
	Status:    "status",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

func (t StoryTable) Columns() []string {
	return []string{t.StoryID, t.UserID, t.Status, t.CreatedAt, t.UpdatedAt}
}
