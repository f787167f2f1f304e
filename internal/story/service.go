// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/atlance/internal/platform/validate"
	"github.com/taibuivan/atlance/pkg/pagination"
)

// # Service Layer

// Service orchestrates the persistence operations for story aggregates.
// It validates every input fully before the first storage call; on any
// violation the operation aborts with zero side effects.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service] with its required repository.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Writer

/*
CreateStory validates and persists a complete story aggregate.

Description: Write requires the full aggregate — all three sub-records must
be present; a partial sub-record is legal only on update. CreatedAt is taken
from the caller when supplied (the pipeline stamps stories when the first
stage starts) and defaults to the current time otherwise.

Parameters:
  - context: context.Context
  - story: *Story

Returns:
  - error: VALIDATION_ERROR, CONFLICT on duplicate story_id, or storage errors
*/
func (service *Service) CreateStory(context context.Context, story *Story) error {

	if err := validateAggregate(story); err != nil {
		return err
	}

	if story.CreatedAt.IsZero() {
		story.CreatedAt = time.Now().UTC()
	}

	if err := service.repo.Create(context, story); err != nil {
		return err
	}

	service.logger.Info("story_created",
		slog.String("story_id", story.StoryID),
		slog.String("user_id", story.UserID),
		slog.String("status", string(story.Status)),
	)

	return nil
}

// # Reader

/*
GetStory reconstructs the full aggregate for the given story ID.

Parameters:
  - context: context.Context
  - storyID: string

Returns:
  - *Story: The complete aggregate
  - error: VALIDATION_ERROR, NOT_FOUND, or INCOMPLETE_AGGREGATE
*/
func (service *Service) GetStory(context context.Context, storyID string) (*Story, error) {

	validator := &validate.Validator{}
	validator.Required(FieldStoryID, storyID).MaxLen(FieldStoryID, storyID, MaxStoryIDLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repo.FindByID(context, storyID)
}

/*
GetStoryMetadata returns the root-only projection, skipping the join.

Parameters:
  - context: context.Context
  - storyID: string

Returns:
  - *Metadata: Root fields only
  - error: VALIDATION_ERROR or NOT_FOUND
*/
func (service *Service) GetStoryMetadata(context context.Context, storyID string) (*Metadata, error) {

	validator := &validate.Validator{}
	validator.Required(FieldStoryID, storyID).MaxLen(FieldStoryID, storyID, MaxStoryIDLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repo.FindMetadataByID(context, storyID)
}

// # Lister

// ListQuery carries the Lister's arguments after JSON/query decoding.
// Zero values take the documented defaults before validation runs.
type ListQuery struct {
	UserID    string    `json:"user_id,omitempty"`
	Status    string    `json:"status,omitempty"`
	Limit     *int      `json:"limit,omitempty"`
	Offset    *int      `json:"offset,omitempty"`
	SortBy    SortField `json:"sort_by,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty"`
}

/*
ListStories returns a filtered, sorted page of story metadata.

Description: Defaults are applied first (limit 10, offset 0, sort by
created_at descending), then the resulting window is validated strictly —
out-of-range limit/offset is a validation failure, never a silent clamp.
Listing returns root-only projections; sub-records are never joined here.

Parameters:
  - context: context.Context
  - query: ListQuery

Returns:
  - []*Metadata: The requested page
  - pagination.Meta: total / page / total_pages / has_next / has_previous
  - error: VALIDATION_ERROR or storage errors
*/
func (service *Service) ListStories(context context.Context, query ListQuery) ([]*Metadata, pagination.Meta, error) {

	params := pagination.Default()
	if query.Limit != nil {
		params.Limit = *query.Limit
	}
	if query.Offset != nil {
		params.Offset = *query.Offset
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	sortOrder := query.SortOrder
	if sortOrder == "" {
		sortOrder = SortDesc
	}

	validator := &validate.Validator{}
	if err := params.Validate(); err != nil {
		var windowErr *pagination.WindowError
		if errors.As(err, &windowErr) {
			validator.Custom(windowErr.Param, true, windowErr.Message)
		}
	}
	validator.OneOf(FieldSortBy, string(sortBy),
		string(SortByCreatedAt), string(SortByUpdatedAt), string(SortByStoryID))
	validator.OneOf(FieldSortOrder, string(sortOrder), string(SortAsc), string(SortDesc))
	if query.Status != "" {
		validator.OneOf(FieldStatus, query.Status,
			string(StatusProcessing), string(StatusCompleted), string(StatusFailed), string(StatusDeleted))
	}
	if err := validator.Err(); err != nil {
		return nil, pagination.Meta{}, err
	}

	filter := Filter{
		UserID: query.UserID,
		Status: Status(query.Status),
	}

	page, total, err := service.repo.List(context, filter, sortBy, sortOrder, params.Limit, params.Offset)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return page, pagination.NewMeta(params, total), nil
}

// # Updater

/*
UpdateStory applies a typed partial change set to an existing story.

Description: Every field named by the change set is validated against the
same constraints the Writer enforces; fields absent from the change set are
left untouched in storage. An empty change set is rejected — a caller with
nothing to change should not refresh the modification timestamp by accident.

Parameters:
  - context: context.Context
  - storyID: string
  - changes: ChangeSet

Returns:
  - error: VALIDATION_ERROR, NOT_FOUND, INCOMPLETE_AGGREGATE, or storage errors
*/
func (service *Service) UpdateStory(context context.Context, storyID string, changes ChangeSet) error {

	validator := &validate.Validator{}
	validator.Required(FieldStoryID, storyID).MaxLen(FieldStoryID, storyID, MaxStoryIDLen)
	validateChangeSet(validator, changes)
	if err := validator.Err(); err != nil {
		return err
	}

	if changes.IsEmpty() {
		return validate.RequiredError("changes", "At least one field must be provided")
	}

	if err := service.repo.Update(context, storyID, changes); err != nil {
		return err
	}

	service.logger.Info("story_updated", slog.String("story_id", storyID))

	return nil
}

// # Deleter

/*
DeleteStory removes a story, logically or physically.

Description: Soft deletion (the default) marks the root row as deleted and
refreshes its timestamp; calling it again on the same story succeeds without
re-mutating. Hard deletion removes all four rows atomically.

Parameters:
  - context: context.Context
  - storyID: string
  - hard: bool

Returns:
  - error: VALIDATION_ERROR, NOT_FOUND, or storage errors
*/
func (service *Service) DeleteStory(context context.Context, storyID string, hard bool) error {

	validator := &validate.Validator{}
	validator.Required(FieldStoryID, storyID).MaxLen(FieldStoryID, storyID, MaxStoryIDLen)
	if err := validator.Err(); err != nil {
		return err
	}

	if hard {
		if err := service.repo.HardDelete(context, storyID); err != nil {
			return err
		}
		service.logger.Info("story_hard_deleted", slog.String("story_id", storyID))
		return nil
	}

	if err := service.repo.SoftDelete(context, storyID); err != nil {
		return err
	}
	service.logger.Info("story_soft_deleted", slog.String("story_id", storyID))
	return nil
}

/*
RestoreStory transitions a soft-deleted story back to a live status.

Parameters:
  - context: context.Context
  - storyID: string
  - newStatus: Status (processing, completed, or failed — never deleted)

Returns:
  - error: VALIDATION_ERROR, NOT_FOUND, INVALID_STATE, or storage errors
*/
func (service *Service) RestoreStory(context context.Context, storyID string, newStatus Status) error {

	validator := &validate.Validator{}
	validator.Required(FieldStoryID, storyID).MaxLen(FieldStoryID, storyID, MaxStoryIDLen)
	validator.OneOf(FieldStatus, string(newStatus),
		string(StatusProcessing), string(StatusCompleted), string(StatusFailed))
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Restore(context, storyID, newStatus); err != nil {
		return err
	}

	service.logger.Info("story_restored",
		slog.String("story_id", storyID),
		slog.String("status", string(newStatus)),
	)

	return nil
}

/*
PurgeOlderThan hard-deletes soft-deleted stories past the retention window.

Description: Best-effort sweep — a story that fails to purge is logged and
skipped, never aborting the rest of the sweep. Only the count of successful
purges is reported.

Parameters:
  - context: context.Context
  - retentionDays: int (Stories deleted and untouched for longer are purged)

Returns:
  - int: Number of stories successfully purged
  - error: VALIDATION_ERROR, or a failure to enumerate candidates
*/
func (service *Service) PurgeOlderThan(context context.Context, retentionDays int) (int, error) {

	validator := &validate.Validator{}
	validator.Custom(FieldRetentionDays, retentionDays < 1, "Must be at least 1")
	if err := validator.Err(); err != nil {
		return 0, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	candidates, err := service.repo.ListDeletedBefore(context, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, storyID := range candidates {
		if err := service.repo.HardDelete(context, storyID); err != nil {
			service.logger.Warn("story_purge_failed",
				slog.String("story_id", storyID),
				slog.Any("error", err),
			)
			continue
		}
		purged++
	}

	if purged > 0 {
		service.logger.Info("stories_purged",
			slog.Int("purged", purged),
			slog.Int("candidates", len(candidates)),
			slog.Int("retention_days", retentionDays),
		)
	}

	return purged, nil
}

// # Aggregate Validation

// validateAggregate enforces the full write-time contract: required root
// fields, enum membership, all three sub-records present, and every numeric
// and coordinate range from the schema.
func validateAggregate(story *Story) error {

	validator := &validate.Validator{}

	// Root
	validator.Required(FieldStoryID, story.StoryID).MaxLen(FieldStoryID, story.StoryID, MaxStoryIDLen)
	validator.Required(FieldUserID, story.UserID)
	validator.Required(FieldStatus, string(story.Status)).OneOf(FieldStatus, string(story.Status),
		string(StatusProcessing), string(StatusCompleted), string(StatusFailed), string(StatusDeleted))

	// The store stamps updated_at with NOW() on every write, so a future
	// created_at would break updated_at >= created_at.
	if !story.CreatedAt.IsZero() && story.CreatedAt.After(time.Now().UTC()) {
		validator.Custom(FieldCreatedAt, true, "Timestamp must not be in the future")
	}

	// Write requires the complete aggregate; partial sub-records are an
	// update-only concept.
	if story.Deduplication == nil {
		validator.Custom("deduplication_result", true, "This sub-record is required")
	} else {
		validator.NonNegative(FieldDedupOriginalCount, story.Deduplication.OriginalCount)
		validator.NonNegative(FieldDedupUniqueCount, story.Deduplication.UniqueCount)
	}

	if story.Extraction == nil {
		validator.Custom("extraction_result", true, "This sub-record is required")
	} else {
		validateImages(validator, story.Extraction.Images)
		if story.Extraction.PlaceContext.Location != nil {
			location := story.Extraction.PlaceContext.Location
			validator.Latitude("extraction_result.place_context.location.lat", location.Lat)
			validator.Longitude("extraction_result.place_context.location.lng", location.Lng)
		}
	}

	if story.Narrative == nil {
		validator.Custom("narrative_result", true, "This sub-record is required")
	} else {
		validator.Required(FieldNarrativeTitle, story.Narrative.Title)
		validator.Required(FieldNarrativeContent, story.Narrative.Content)
		validator.NonNegative(FieldNarrativeWordCount, story.Narrative.WordCount)
	}

	return validator.Err()
}

// validateChangeSet enforces the same per-field constraints as the write
// path, but only on fields the change set actually names.
func validateChangeSet(validator *validate.Validator, changes ChangeSet) {

	if changes.Root != nil {
		if changes.Root.UserID != nil {
			validator.Required(FieldUserID, *changes.Root.UserID)
		}
		if changes.Root.Status != nil {
			validator.OneOf(FieldStatus, string(*changes.Root.Status),
				string(StatusProcessing), string(StatusCompleted), string(StatusFailed), string(StatusDeleted))
		}
	}

	if changes.Dedup != nil {
		if changes.Dedup.OriginalCount != nil {
			validator.NonNegative(FieldDedupOriginalCount, *changes.Dedup.OriginalCount)
		}
		if changes.Dedup.UniqueCount != nil {
			validator.NonNegative(FieldDedupUniqueCount, *changes.Dedup.UniqueCount)
		}
	}

	if changes.Extraction != nil {
		if changes.Extraction.Images != nil {
			validateImages(validator, *changes.Extraction.Images)
		}
		if changes.Extraction.PlaceContext != nil && changes.Extraction.PlaceContext.Location != nil {
			location := changes.Extraction.PlaceContext.Location
			validator.Latitude("extraction_result.place_context.location.lat", location.Lat)
			validator.Longitude("extraction_result.place_context.location.lng", location.Lng)
		}
	}

	if changes.Narrative != nil {
		if changes.Narrative.Title != nil {
			validator.Required(FieldNarrativeTitle, *changes.Narrative.Title)
		}
		if changes.Narrative.Content != nil {
			validator.Required(FieldNarrativeContent, *changes.Narrative.Content)
		}
		if changes.Narrative.WordCount != nil {
			validator.NonNegative(FieldNarrativeWordCount, *changes.Narrative.WordCount)
		}
	}
}

// validateImages checks per-image constraints with indexed field paths,
// so a violation names the exact offending element.
func validateImages(validator *validate.Validator, images []ImageAnalysis) {
	for index, image := range images {
		validator.Required(fmt.Sprintf("%s[%d].path", FieldExtractionImages, index), image.Path)
		if image.Location != nil {
			validator.Latitude(fmt.Sprintf("%s[%d].location.lat", FieldExtractionImages, index), image.Location.Lat)
			validator.Longitude(fmt.Sprintf("%s[%d].location.lng", FieldExtractionImages, index), image.Location.Lng)
		}
	}
}
