// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package story — HTTP interface for the story archive.

It exposes the same five persistence operations as the tool surface, plus
restore and purge, under a conventional REST shape for operators and the
(planned) frontend.

# Routing Strategy

  - Collection: listing and creation under /stories.
  - Item: read/update/delete/restore under /stories/{storyID}.
  - Maintenance: the retention sweep under /stories/purge.

The handler translates between the web/JSON layer and the internal domain [Service].
*/
package story

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/atlance/internal/platform/request"
	"github.com/taibuivan/atlance/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the story archive.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new story [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the story domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listStories)
	router.Post("/", handler.createStory)
	router.Post("/purge", handler.purgeStories)

	router.Get("/{storyID}", handler.getStory)
	router.Get("/{storyID}/metadata", handler.getStoryMetadata)
	router.Patch("/{storyID}", handler.updateStory)
	router.Delete("/{storyID}", handler.deleteStory)
	router.Post("/{storyID}/restore", handler.restoreStory)

	return router
}

// # Collection Endpoints

/*
GET /api/v1/stories.

Description: Retrieves a filtered, sorted page of story metadata. Listing
never hydrates sub-records.

Request:
  - user_id: string (Equality filter)
  - status: string (processing, completed, failed, deleted)
  - limit: int (1–100, default 10)
  - offset: int (>= 0, default 0)
  - sort_by: string (created_at, updated_at, story_id)
  - sort_order: string (asc, desc)

Response:
  - 200: []Metadata with pagination meta
  - 400: Validation failure (out-of-range window is rejected, not clamped)
*/
func (handler *Handler) listStories(writer http.ResponseWriter, request *http.Request) {
	queryParams := request.URL.Query()

	query := ListQuery{
		UserID:    queryParams.Get("user_id"),
		Status:    queryParams.Get("status"),
		SortBy:    SortField(queryParams.Get("sort_by")),
		SortOrder: SortOrder(queryParams.Get("sort_order")),
	}

	if raw := queryParams.Get(FieldLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(writer, request, requestutil.IntParamError(FieldLimit))
			return
		}
		query.Limit = &limit
	}
	if raw := queryParams.Get(FieldOffset); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(writer, request, requestutil.IntParamError(FieldOffset))
			return
		}
		query.Offset = &offset
	}

	stories, meta, err := handler.service.ListStories(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, stories, meta)
}

/*
POST /api/v1/stories.

Description: Persists a complete story aggregate — root plus all three
sub-records — atomically. Partial aggregates are rejected before any row
is touched.

Request (Body):
  - Story: JSON object (full aggregate)

Response:
  - 201: Story: The persisted aggregate
  - 400: Validation failure
  - 409: Duplicate story_id
*/
func (handler *Handler) createStory(writer http.ResponseWriter, request *http.Request) {
	var input Story

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateStory(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, &input)
}

/*
POST /api/v1/stories/purge.

Description: Runs the retention sweep: hard-deletes stories that have been
soft-deleted for longer than the retention window. Best-effort per story.

Request (Body):
  - retention_days: int (>= 1)

Response:
  - 200: {purged: int}
  - 400: Validation failure
*/
func (handler *Handler) purgeStories(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		RetentionDays int `json:"retention_days"`
	}

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	purged, err := handler.service.PurgeOlderThan(request.Context(), input.RetentionDays)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"purged": purged})
}

// # Item Endpoints

/*
GET /api/v1/stories/{storyID}.

Description: Reconstructs and returns the full aggregate in one query.

Response:
  - 200: Story: The complete aggregate
  - 404: Story not found
  - 500: INCOMPLETE_AGGREGATE when the root exists but a sub-record is missing
*/
func (handler *Handler) getStory(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.Param(request, "storyID")

	story, err := handler.service.GetStory(request.Context(), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, story)
}

/*
GET /api/v1/stories/{storyID}/metadata.

Description: Returns only the root fields — the cheap lookup, no join.

Response:
  - 200: Metadata
  - 404: Story not found
*/
func (handler *Handler) getStoryMetadata(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.Param(request, "storyID")

	metadata, err := handler.service.GetStoryMetadata(request.Context(), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, metadata)
}

/*
PATCH /api/v1/stories/{storyID}.

Description: Applies a typed partial change set. Only tables named by the
change set are touched; the aggregate's modification timestamp is always
refreshed in the same transaction.

Request (Body):
  - ChangeSet: JSON object keyed by sub-aggregate

Response:
  - 200: Metadata: Refreshed root projection
  - 400: Validation failure or empty change set
  - 404: Story not found
*/
func (handler *Handler) updateStory(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.Param(request, "storyID")

	var changes ChangeSet
	if err := requestutil.DecodeJSON(request, &changes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateStory(request.Context(), storyID, changes); err != nil {
		respond.Error(writer, request, err)
		return
	}

	metadata, err := handler.service.GetStoryMetadata(request.Context(), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, metadata)
}

/*
DELETE /api/v1/stories/{storyID}.

Description: Soft delete by default (idempotent status transition); pass
hard=true to remove all four rows atomically.

Request:
  - hard: bool (Query parameter, default false)

Response:
  - 204: Deleted
  - 404: Story not found
*/
func (handler *Handler) deleteStory(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.Param(request, "storyID")
	hard := request.URL.Query().Get("hard") == "true"

	if err := handler.service.DeleteStory(request.Context(), storyID, hard); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/stories/{storyID}/restore.

Description: Clears the deleted marker, transitioning the story to a
caller-chosen live status.

Request (Body):
  - status: string (processing, completed, failed)

Response:
  - 200: Metadata: Refreshed root projection
  - 404: Story not found
  - 409: Story is not in the deleted state
*/
func (handler *Handler) restoreStory(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.Param(request, "storyID")

	var input struct {
		Status Status `json:"status"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RestoreStory(request.Context(), storyID, input.Status); err != nil {
		respond.Error(writer, request, err)
		return
	}

	metadata, err := handler.service.GetStoryMetadata(request.Context(), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, metadata)
}
