// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mcp exposes the story archive as a Model Context Protocol server.

The pipeline agents speak MCP over stdio; each persistence operation of the
story archive is registered as a typed tool. Tool handlers never surface Go
errors to the protocol layer: every outcome, success or failure, is folded
into the response envelope so agents can branch on a stable shape.
*/
package mcp

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/taibuivan/atlance/internal/platform/constants"
	"github.com/taibuivan/atlance/internal/story"
)

const (
	toolWriteStory  = "write_story"
	toolReadStory   = "read_story"
	toolListStories = "list_stories"
	toolUpdateStory = "update_story"
	toolDeleteStory = "delete_story"
)

// Server wraps the SDK server with the story tool set registered.
type Server struct {
	mcpServer *sdk.Server
	logger    *slog.Logger
}

// NewServer builds an MCP server exposing the five story archive tools.
func NewServer(tools *story.Tools, logger *slog.Logger) *Server {
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    constants.AppName,
		Version: constants.AppVersion,
	}, nil)

	registerTools(mcpServer, tools)

	return &Server{mcpServer: mcpServer, logger: logger}
}

// Run serves MCP over stdio until the context is cancelled.
func (server *Server) Run(ctx context.Context) error {
	server.logger.Info("mcp_server_started", slog.String("transport", "stdio"))
	return server.mcpServer.Run(ctx, &sdk.StdioTransport{})
}

// registerTools binds each story operation to its typed tool definition.
func registerTools(mcpServer *sdk.Server, tools *story.Tools) {
	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        toolWriteStory,
		Description: "Persist a complete story aggregate (root plus deduplication, extraction, and narrative results) atomically. Fails with CONFLICT if the story_id already exists.",
	}, handle(tools.Write))

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        toolReadStory,
		Description: "Retrieve a story. Returns the full aggregate by default, or only the root fields when metadata_only is set.",
	}, handle(tools.Read))

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        toolListStories,
		Description: "List story metadata filtered by user_id and/or status, sorted and paginated. Sub-records are never included.",
	}, handle(tools.List))

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        toolUpdateStory,
		Description: "Apply a partial change set to an existing story. Only the named fields are modified; the story's updated_at is always refreshed.",
	}, handle(tools.Update))

	sdk.AddTool(mcpServer, &sdk.Tool{
		Name:        toolDeleteStory,
		Description: "Delete a story. Soft delete (reversible status change) by default; set hard_delete for permanent removal of all records.",
	}, handle(tools.Delete))
}

// handle adapts an envelope-returning tool method to the SDK handler shape.
func handle[I any](call func(context.Context, I) story.Envelope) sdk.ToolHandlerFor[I, story.Envelope] {
	return func(ctx context.Context, _ *sdk.CallToolRequest, input I) (*sdk.CallToolResult, story.Envelope, error) {
		envelope := call(ctx, input)
		return &sdk.CallToolResult{IsError: !envelope.Success}, envelope, nil
	}
}
