// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"

	"github.com/taibuivan/atlance/internal/platform/apperr"
	"github.com/taibuivan/atlance/pkg/pagination"
)

// # Tool-Call Surface

// Envelope is the uniform result of every tool operation.
//
// Unlike the HTTP layer, tool callers (the pipeline orchestrator) receive
// failures in-band: no error ever crosses the operation boundary, it is
// always folded into the envelope.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	StoryID string `json:"story_id,omitempty"`
}

// Tools exposes the five persistence operations in tool-call form.
// Each method validates independently, executes, and returns an [Envelope];
// none requires session state or calls another tool for control flow.
type Tools struct {
	service *Service
}

// NewTools constructs the tool surface over the story [Service].
func NewTools(service *Service) *Tools {
	return &Tools{service: service}
}

// # Tool Arguments

// WriteArgs carries the full aggregate for the write tool.
type WriteArgs struct {
	Story Story `json:"story"`
}

// ReadArgs identifies the story for the read tool.
type ReadArgs struct {
	StoryID string `json:"story_id"`

	// MetadataOnly skips sub-record hydration and returns only root fields.
	MetadataOnly bool `json:"metadata_only"`
}

// ListArgs carries the optional filters and window for the list tool.
type ListArgs = ListQuery

// UpdateArgs carries the target and typed change set for the update tool.
type UpdateArgs struct {
	StoryID string    `json:"story_id"`
	Changes ChangeSet `json:"changes"`
}

// DeleteArgs identifies the story and deletion mode for the delete tool.
type DeleteArgs struct {
	StoryID    string `json:"story_id"`
	HardDelete bool   `json:"hard_delete"`
}

// ListData is the payload of a successful list tool call.
type ListData struct {
	Stories []*Metadata     `json:"stories"`
	Meta    pagination.Meta `json:"meta"`
}

// # Tool Operations

// Write persists a complete story aggregate.
func (tools *Tools) Write(context context.Context, args WriteArgs) Envelope {
	if err := tools.service.CreateStory(context, &args.Story); err != nil {
		return failure(err, args.Story.StoryID)
	}
	return Envelope{
		Success: true,
		Message: "Story saved",
		StoryID: args.Story.StoryID,
	}
}

// Read reconstructs and returns the full aggregate, or only the root
// projection when MetadataOnly is set.
func (tools *Tools) Read(context context.Context, args ReadArgs) Envelope {
	if args.MetadataOnly {
		metadata, err := tools.service.GetStoryMetadata(context, args.StoryID)
		if err != nil {
			return failure(err, args.StoryID)
		}
		return Envelope{
			Success: true,
			Data:    metadata,
			StoryID: metadata.StoryID,
		}
	}

	story, err := tools.service.GetStory(context, args.StoryID)
	if err != nil {
		return failure(err, args.StoryID)
	}
	return Envelope{
		Success: true,
		Data:    story,
		StoryID: story.StoryID,
	}
}

// List returns a filtered, sorted page of story metadata with pagination meta.
func (tools *Tools) List(context context.Context, args ListArgs) Envelope {
	stories, meta, err := tools.service.ListStories(context, args)
	if err != nil {
		return failure(err, "")
	}
	return Envelope{
		Success: true,
		Data:    ListData{Stories: stories, Meta: meta},
	}
}

// Update applies a typed partial change set to an existing story.
func (tools *Tools) Update(context context.Context, args UpdateArgs) Envelope {
	if err := tools.service.UpdateStory(context, args.StoryID, args.Changes); err != nil {
		return failure(err, args.StoryID)
	}
	return Envelope{
		Success: true,
		Message: "Story updated",
		StoryID: args.StoryID,
	}
}

// Delete removes a story, logically by default or physically when requested.
func (tools *Tools) Delete(context context.Context, args DeleteArgs) Envelope {
	if err := tools.service.DeleteStory(context, args.StoryID, args.HardDelete); err != nil {
		return failure(err, args.StoryID)
	}
	message := "Story marked as deleted"
	if args.HardDelete {
		message = "Story permanently deleted"
	}
	return Envelope{
		Success: true,
		Message: message,
		StoryID: args.StoryID,
	}
}

// failure folds any error into a failed envelope, classifying through the
// apperr taxonomy so unexpected errors surface as INTERNAL_ERROR with a
// client-safe message.
func failure(err error, storyID string) Envelope {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}
	return Envelope{
		Success: false,
		Error:   appError.Code,
		Message: appError.Message,
		StoryID: storyID,
	}
}
