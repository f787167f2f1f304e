// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/atlance/internal/platform/apperr"
	"github.com/taibuivan/atlance/internal/story"
	"github.com/taibuivan/atlance/pkg/pointer"
)

// # In-Memory Repository

// fakeRepo is a map-backed [story.Repository] with per-method override hooks
// for failure injection.
type fakeRepo struct {
	stories map[string]*story.Story

	hardDeleteFn func(context.Context, string) error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stories: make(map[string]*story.Story)}
}

func (r *fakeRepo) Create(_ context.Context, s *story.Story) error {
	if _, exists := r.stories[s.StoryID]; exists {
		return apperr.Conflict("Story already exists")
	}
	clone := *s
	clone.UpdatedAt = time.Now().UTC()
	r.stories[s.StoryID] = &clone
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, storyID string) (*story.Story, error) {
	s, ok := r.stories[storyID]
	if !ok {
		return nil, apperr.NotFound("Story")
	}
	if s.Deduplication == nil || s.Extraction == nil || s.Narrative == nil {
		return nil, apperr.IncompleteAggregate(storyID)
	}
	return s, nil
}

func (r *fakeRepo) FindMetadataByID(_ context.Context, storyID string) (*story.Metadata, error) {
	s, ok := r.stories[storyID]
	if !ok {
		return nil, apperr.NotFound("Story")
	}
	return &story.Metadata{
		StoryID:   s.StoryID,
		UserID:    s.UserID,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}, nil
}

func (r *fakeRepo) List(_ context.Context, filter story.Filter, _ story.SortField, _ story.SortOrder, limit, offset int) ([]*story.Metadata, int, error) {
	matches := make([]*story.Metadata, 0)
	for _, s := range r.stories {
		if filter.UserID != "" && s.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		matches = append(matches, &story.Metadata{
			StoryID:   s.StoryID,
			UserID:    s.UserID,
			Status:    s.Status,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	total := len(matches)
	if offset >= total {
		return []*story.Metadata{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (r *fakeRepo) Update(_ context.Context, storyID string, changes story.ChangeSet) error {
	s, ok := r.stories[storyID]
	if !ok {
		return apperr.NotFound("Story")
	}
	if changes.Root != nil {
		if changes.Root.UserID != nil {
			s.UserID = *changes.Root.UserID
		}
		if changes.Root.Status != nil {
			s.Status = *changes.Root.Status
		}
	}
	if changes.Narrative != nil && changes.Narrative.Title != nil {
		s.Narrative.Title = *changes.Narrative.Title
	}
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, storyID string) error {
	s, ok := r.stories[storyID]
	if !ok {
		return apperr.NotFound("Story")
	}
	if s.Status == story.StatusDeleted {
		return nil
	}
	s.Status = story.StatusDeleted
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeRepo) HardDelete(ctx context.Context, storyID string) error {
	if r.hardDeleteFn != nil {
		return r.hardDeleteFn(ctx, storyID)
	}
	if _, ok := r.stories[storyID]; !ok {
		return apperr.NotFound("Story")
	}
	delete(r.stories, storyID)
	return nil
}

func (r *fakeRepo) Restore(_ context.Context, storyID string, newStatus story.Status) error {
	s, ok := r.stories[storyID]
	if !ok {
		return apperr.NotFound("Story")
	}
	if s.Status != story.StatusDeleted {
		return apperr.InvalidState("Story is not deleted")
	}
	s.Status = newStatus
	s.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeRepo) ListDeletedBefore(_ context.Context, cutoff time.Time) ([]string, error) {
	ids := make([]string, 0)
	for id, s := range r.stories {
		if s.Status == story.StatusDeleted && s.UpdatedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// # Fixtures

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService() (*story.Service, *fakeRepo) {
	repo := newFakeRepo()
	return story.NewService(repo, testLogger()), repo
}

// validStory builds a complete aggregate that passes all write-time checks.
func validStory(storyID string) *story.Story {
	return &story.Story{
		StoryID: storyID,
		UserID:  "traveler-001",
		Status:  story.StatusCompleted,
		Deduplication: &story.DeduplicationResult{
			OriginalCount: 24,
			UniqueCount:   18,
			UniquePaths:   []string{"img/001.jpg", "img/002.jpg"},
		},
		Extraction: &story.ExtractionResult{
			Images: []story.ImageAnalysis{
				{
					Path:      "img/001.jpg",
					Timestamp: "2026-08-12T09:30:00Z",
					Location:  &story.Location{Lat: 35.0116, Lng: 135.7681},
					Subjects:  []string{"torii gate", "forest"},
				},
			},
			PlaceContext: story.PlaceContext{
				Name:  "Fushimi Inari Taisha",
				Facts: []string{"Thousands of vermilion torii gates line the mountain trails."},
			},
			PreliminaryStory: "A morning climb through the gates.",
		},
		Narrative: &story.NarrativeResult{
			Questions: []story.QuestionAnswer{
				{Question: "What surprised you most?", Answer: "How quiet the upper trails were."},
			},
			Title:     "Two Thousand Gates Before Noon",
			Content:   "We started before the crowds arrived...",
			WordCount: 412,
			Tone:      "reflective",
			ImagePlacements: []story.ImagePlacement{
				{Path: "img/001.jpg", Caption: "Torii gates at dawn"},
			},
		},
	}
}

// # Writer

func TestCreateStory_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*story.Story)
		field  string
	}{
		{
			name:   "missing_story_id",
			mutate: func(s *story.Story) { s.StoryID = "" },
			field:  "story_id",
		},
		{
			name:   "missing_user_id",
			mutate: func(s *story.Story) { s.UserID = "" },
			field:  "user_id",
		},
		{
			name:   "invalid_status",
			mutate: func(s *story.Story) { s.Status = "archived" },
			field:  "status",
		},
		{
			name:   "missing_dedup_record",
			mutate: func(s *story.Story) { s.Deduplication = nil },
			field:  "deduplication_result",
		},
		{
			name:   "missing_extraction_record",
			mutate: func(s *story.Story) { s.Extraction = nil },
			field:  "extraction_result",
		},
		{
			name:   "missing_narrative_record",
			mutate: func(s *story.Story) { s.Narrative = nil },
			field:  "narrative_result",
		},
		{
			name:   "negative_original_count",
			mutate: func(s *story.Story) { s.Deduplication.OriginalCount = -1 },
			field:  "deduplication_result.original_count",
		},
		{
			name:   "image_without_path",
			mutate: func(s *story.Story) { s.Extraction.Images[0].Path = "" },
			field:  "extraction_result.images[0].path",
		},
		{
			name:   "image_latitude_out_of_range",
			mutate: func(s *story.Story) { s.Extraction.Images[0].Location.Lat = 91 },
			field:  "extraction_result.images[0].location.lat",
		},
		{
			name:   "empty_narrative_title",
			mutate: func(s *story.Story) { s.Narrative.Title = "" },
			field:  "narrative_result.title",
		},
		{
			name:   "negative_word_count",
			mutate: func(s *story.Story) { s.Narrative.WordCount = -10 },
			field:  "narrative_result.word_count",
		},
		{
			name:   "future_created_at",
			mutate: func(s *story.Story) { s.CreatedAt = time.Now().UTC().Add(time.Hour) },
			field:  "created_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newTestService()
			input := validStory("trip-kyoto")
			tt.mutate(input)

			err := service.CreateStory(context.Background(), input)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.NotEmpty(t, ae.Details)
			assert.Equal(t, tt.field, ae.Details[0].Field)

			// Validation failures must leave storage untouched.
			assert.Empty(t, repo.stories)
		})
	}
}

func TestCreateStory_Success(t *testing.T) {
	service, repo := newTestService()
	input := validStory("trip-kyoto")

	err := service.CreateStory(context.Background(), input)

	require.NoError(t, err)
	require.Contains(t, repo.stories, "trip-kyoto")
	// CreatedAt defaults to now when the caller left it zero.
	assert.False(t, input.CreatedAt.IsZero())
}

func TestCreateStory_KeepsCallerTimestamp(t *testing.T) {
	service, _ := newTestService()
	input := validStory("trip-kyoto")
	stamped := time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC)
	input.CreatedAt = stamped

	require.NoError(t, service.CreateStory(context.Background(), input))
	assert.Equal(t, stamped, input.CreatedAt)
}

func TestCreateStory_DuplicateID(t *testing.T) {
	service, _ := newTestService()
	require.NoError(t, service.CreateStory(context.Background(), validStory("trip-kyoto")))

	err := service.CreateStory(context.Background(), validStory("trip-kyoto"))

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

// # Reader

func TestGetStory(t *testing.T) {
	service, _ := newTestService()
	require.NoError(t, service.CreateStory(context.Background(), validStory("trip-kyoto")))

	t.Run("full_aggregate", func(t *testing.T) {
		got, err := service.GetStory(context.Background(), "trip-kyoto")
		require.NoError(t, err)
		assert.Equal(t, "trip-kyoto", got.StoryID)
		assert.NotNil(t, got.Deduplication)
		assert.NotNil(t, got.Extraction)
		assert.NotNil(t, got.Narrative)
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := service.GetStory(context.Background(), "trip-osaka")
		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})

	t.Run("empty_id_rejected", func(t *testing.T) {
		_, err := service.GetStory(context.Background(), "")
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

func TestGetStoryMetadata(t *testing.T) {
	service, _ := newTestService()
	require.NoError(t, service.CreateStory(context.Background(), validStory("trip-kyoto")))

	metadata, err := service.GetStoryMetadata(context.Background(), "trip-kyoto")

	require.NoError(t, err)
	assert.Equal(t, "trip-kyoto", metadata.StoryID)
	assert.Equal(t, story.StatusCompleted, metadata.Status)
}

// # Lister

func TestListStories_Defaults(t *testing.T) {
	service, _ := newTestService()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, service.CreateStory(context.Background(), validStory(id)))
	}

	page, meta, err := service.ListStories(context.Background(), story.ListQuery{})

	require.NoError(t, err)
	assert.Len(t, page, 3)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 1, meta.Page)
	assert.False(t, meta.HasNext)
}

func TestListStories_WindowValidation(t *testing.T) {
	tests := []struct {
		name  string
		query story.ListQuery
		field string
	}{
		{"limit_zero", story.ListQuery{Limit: pointer.To(0)}, "limit"},
		{"limit_above_max", story.ListQuery{Limit: pointer.To(101)}, "limit"},
		{"negative_offset", story.ListQuery{Offset: pointer.To(-1)}, "offset"},
		{"unknown_sort_field", story.ListQuery{SortBy: "word_count"}, "sort_by"},
		{"unknown_sort_order", story.ListQuery{SortOrder: "sideways"}, "sort_order"},
		{"unknown_status", story.ListQuery{Status: "archived"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestService()

			_, _, err := service.ListStories(context.Background(), tt.query)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
		})
	}
}

func TestListStories_TotalIndependentOfWindow(t *testing.T) {
	service, _ := newTestService()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, service.CreateStory(context.Background(), validStory(id)))
	}

	// Offset beyond the result set: empty page, full total.
	page, meta, err := service.ListStories(context.Background(), story.ListQuery{
		Offset: pointer.To(50),
	})

	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Equal(t, 3, meta.Total)
}

func TestListStories_StatusFilter(t *testing.T) {
	service, _ := newTestService()
	require.NoError(t, service.CreateStory(context.Background(), validStory("live")))

	failed := validStory("broken")
	failed.Status = story.StatusFailed
	require.NoError(t, service.CreateStory(context.Background(), failed))

	page, meta, err := service.ListStories(context.Background(), story.ListQuery{Status: "failed"})

	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "broken", page[0].StoryID)
	assert.Equal(t, 1, meta.Total)
}

// # Updater

func TestUpdateStory(t *testing.T) {
	t.Run("empty_change_set_rejected", func(t *testing.T) {
		service, _ := newTestService()
		require.NoError(t, service.CreateStory(context.Background(), validStory("trip-kyoto")))

		err := service.UpdateStory(context.Background(), "trip-kyoto", story.ChangeSet{})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		assert.Equal(t, "changes", ae.Details[0].Field)
	})

	t.Run("invalid_field_rejected", func(t *testing.T) {
		service, repo := newTestService()
		require.NoError(t, service.CreateStory(context.Background(), validStory("trip-kyoto")))

		err := service.UpdateStory(context.Background(), "trip-kyoto", story.ChangeSet{
			Narrative: &story.NarrativeChanges{WordCount: pointer.To(-5)},
		})

		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
		assert.Equal(t, 412, repo.stories["trip-kyoto"].Narrative.WordCount)
	})

	t.Run("untouched_fields_survive", func(t *testing.T) {
		service, repo := newTestService()
		require.NoError(t, service.CreateStory(context.Background(), validStory("trip-kyoto")))

		err := service.UpdateStory(context.Background(), "trip-kyoto", story.ChangeSet{
			Narrative: &story.NarrativeChanges{Title: pointer.To("Gates at Dawn")},
		})

		require.NoError(t, err)
		got := repo.stories["trip-kyoto"]
		assert.Equal(t, "Gates at Dawn", got.Narrative.Title)
		assert.Equal(t, "We started before the crowds arrived...", got.Narrative.Content)
	})

	t.Run("not_found", func(t *testing.T) {
		service, _ := newTestService()

		err := service.UpdateStory(context.Background(), "trip-osaka", story.ChangeSet{
			Root: &story.RootChanges{Status: pointer.To(story.StatusFailed)},
		})

		assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
	})
}

// # Deleter

func TestDeleteStory_SoftIsIdempotent(t *testing.T) {
	service, repo := newTestService()
	require.NoError(t, service.CreateStory(context.Background(), validStory("trip-kyoto")))

	require.NoError(t, service.DeleteStory(context.Background(), "trip-kyoto", false))
	firstStamp := repo.stories["trip-kyoto"].UpdatedAt

	// Second soft delete succeeds without re-mutating the row.
	require.NoError(t, service.DeleteStory(context.Background(), "trip-kyoto", false))

	assert.Equal(t, story.StatusDeleted, repo.stories["trip-kyoto"].Status)
	assert.Equal(t, firstStamp, repo.stories["trip-kyoto"].UpdatedAt)
}

func TestDeleteStory_Hard(t *testing.T) {
	service, repo := newTestService()
	require.NoError(t, service.CreateStory(context.Background(), validStory("trip-kyoto")))

	require.NoError(t, service.DeleteStory(context.Background(), "trip-kyoto", true))

	assert.NotContains(t, repo.stories, "trip-kyoto")

	err := service.DeleteStory(context.Background(), "trip-kyoto", true)
	assert.True(t, apperr.IsCode(err, "NOT_FOUND"))
}

func TestRestoreStory(t *testing.T) {
	t.Run("deleted_story_restored", func(t *testing.T) {
		service, repo := newTestService()
		require.NoError(t, service.CreateStory(context.Background(), validStory("trip-kyoto")))
		require.NoError(t, service.DeleteStory(context.Background(), "trip-kyoto", false))

		err := service.RestoreStory(context.Background(), "trip-kyoto", story.StatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, story.StatusCompleted, repo.stories["trip-kyoto"].Status)
	})

	t.Run("live_story_rejected", func(t *testing.T) {
		service, _ := newTestService()
		require.NoError(t, service.CreateStory(context.Background(), validStory("trip-kyoto")))

		err := service.RestoreStory(context.Background(), "trip-kyoto", story.StatusCompleted)

		assert.True(t, apperr.IsCode(err, "INVALID_STATE"))
	})

	t.Run("deleted_is_not_a_restore_target", func(t *testing.T) {
		service, _ := newTestService()

		err := service.RestoreStory(context.Background(), "trip-kyoto", story.StatusDeleted)

		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

// # Retention

func TestPurgeOlderThan(t *testing.T) {
	t.Run("rejects_zero_retention", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.PurgeOlderThan(context.Background(), 0)

		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("purges_only_expired_deleted_stories", func(t *testing.T) {
		service, repo := newTestService()

		old := validStory("old-trip")
		require.NoError(t, service.CreateStory(context.Background(), old))
		require.NoError(t, service.DeleteStory(context.Background(), "old-trip", false))
		repo.stories["old-trip"].UpdatedAt = time.Now().UTC().AddDate(0, 0, -45)

		require.NoError(t, service.CreateStory(context.Background(), validStory("fresh-trip")))
		require.NoError(t, service.DeleteStory(context.Background(), "fresh-trip", false))

		purged, err := service.PurgeOlderThan(context.Background(), 30)

		require.NoError(t, err)
		assert.Equal(t, 1, purged)
		assert.NotContains(t, repo.stories, "old-trip")
		assert.Contains(t, repo.stories, "fresh-trip")
	})

	t.Run("best_effort_on_partial_failure", func(t *testing.T) {
		service, repo := newTestService()

		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, service.CreateStory(context.Background(), validStory(id)))
			require.NoError(t, service.DeleteStory(context.Background(), id, false))
			repo.stories[id].UpdatedAt = time.Now().UTC().AddDate(0, 0, -60)
		}

		realDelete := func(_ context.Context, id string) error {
			delete(repo.stories, id)
			return nil
		}
		repo.hardDeleteFn = func(ctx context.Context, id string) error {
			if id == "b" {
				return apperr.Internal(nil)
			}
			return realDelete(ctx, id)
		}

		purged, err := service.PurgeOlderThan(context.Background(), 30)

		require.NoError(t, err)
		assert.Equal(t, 2, purged)
		assert.Contains(t, repo.stories, "b")
	})
}
