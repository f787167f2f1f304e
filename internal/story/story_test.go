// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/atlance/internal/story"
	"github.com/taibuivan/atlance/pkg/pointer"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		status       story.Status
		isValid      bool
		isRestorable bool
	}{
		{story.StatusProcessing, true, true},
		{story.StatusCompleted, true, true},
		{story.StatusFailed, true, true},
		{story.StatusDeleted, true, false},
		{story.Status("archived"), false, false},
		{story.Status(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
			assert.Equal(t, tt.isRestorable, tt.status.IsRestorable())
		})
	}
}

func TestSortEnums(t *testing.T) {
	assert.True(t, story.SortByCreatedAt.IsValid())
	assert.True(t, story.SortByUpdatedAt.IsValid())
	assert.True(t, story.SortByStoryID.IsValid())
	assert.False(t, story.SortField("word_count").IsValid())

	assert.True(t, story.SortAsc.IsValid())
	assert.True(t, story.SortDesc.IsValid())
	assert.False(t, story.SortOrder("sideways").IsValid())
}

func TestChangeSet_IsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		changes story.ChangeSet
		isEmpty bool
	}{
		{"zero_value", story.ChangeSet{}, true},
		{
			"sections_present_but_all_nil_fields",
			story.ChangeSet{
				Root:      &story.RootChanges{},
				Narrative: &story.NarrativeChanges{},
			},
			true,
		},
		{
			"root_status",
			story.ChangeSet{Root: &story.RootChanges{Status: pointer.To(story.StatusFailed)}},
			false,
		},
		{
			"dedup_count",
			story.ChangeSet{Dedup: &story.DedupChanges{UniqueCount: pointer.To(7)}},
			false,
		},
		{
			"narrative_title",
			story.ChangeSet{Narrative: &story.NarrativeChanges{Title: pointer.To("New Title")}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isEmpty, tt.changes.IsEmpty())
		})
	}
}
