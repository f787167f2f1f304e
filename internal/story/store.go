// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"time"
)

// # Story Data Access

// Repository defines the data access contract for the story aggregate.
//
// Implementations must treat the four physical tables as one consistency
// unit: multi-table writes happen inside a single transaction and no
// partially-written aggregate is ever observable after an operation returns.
type Repository interface {

	/*
		Create persists a new story aggregate: the root row plus all three
		sub-records, inserted root-first inside one transaction.

		Parameters:
		  - context: context.Context
		  - story: *Story (Complete, validated aggregate; CreatedAt caller-supplied)

		Returns:
		  - error: CONFLICT if the story_id already exists, otherwise storage failures
	*/
	Create(context context.Context, story *Story) error

	/*
		FindByID reconstructs the full aggregate via a single multi-table query.

		Outer-join semantics: a missing dependent must not drop the root row —
		it must surface as an INCOMPLETE_AGGREGATE integrity fault instead.

		Parameters:
		  - context: context.Context
		  - storyID: string

		Returns:
		  - *Story: The fully hydrated aggregate
		  - error: NOT_FOUND if the root row is absent,
		    INCOMPLETE_AGGREGATE if a sub-record is missing
	*/
	FindByID(context context.Context, storyID string) (*Story, error)

	/*
		FindMetadataByID returns only the root fields, with no join.

		Parameters:
		  - context: context.Context
		  - storyID: string

		Returns:
		  - *Metadata: Root-only projection
		  - error: NOT_FOUND if absent
	*/
	FindMetadataByID(context context.Context, storyID string) (*Metadata, error)

	/*
		List returns a filtered, sorted page of root-only projections and the
		total matching count. Listing never joins the sub-record tables.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Optional user_id/status equality predicates)
		  - sortBy: SortField (Whitelisted ordering column)
		  - sortOrder: SortOrder
		  - limit: int
		  - offset: int

		Returns:
		  - []*Metadata: One page of matching stories
		  - int: Total count matching the filter, independent of the window
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, sortBy SortField, sortOrder SortOrder, limit, offset int) ([]*Metadata, int, error)

	/*
		Update applies a typed partial change set inside one transaction.

		Only tables named by the change set are touched, and within them only
		the named columns. The root's updated_at is refreshed unconditionally
		as the final statement of the same transaction.

		Parameters:
		  - context: context.Context
		  - storyID: string
		  - changes: ChangeSet

		Returns:
		  - error: NOT_FOUND if the root row is absent,
		    INCOMPLETE_AGGREGATE if a targeted sub-record row is missing
	*/
	Update(context context.Context, storyID string, changes ChangeSet) error

	/*
		SoftDelete marks the story as logically deleted and refreshes updated_at.

		Idempotent: soft-deleting an already-deleted story succeeds without
		mutating the row again (updated_at keeps its prior value).

		Parameters:
		  - context: context.Context
		  - storyID: string

		Returns:
		  - error: NOT_FOUND if the story does not exist
	*/
	SoftDelete(context context.Context, storyID string) error

	/*
		HardDelete removes all four rows in dependency order inside one
		transaction (the schema's ON DELETE CASCADE is the backstop).

		Parameters:
		  - context: context.Context
		  - storyID: string

		Returns:
		  - error: NOT_FOUND if the root row is absent
	*/
	HardDelete(context context.Context, storyID string) error

	/*
		Restore transitions a soft-deleted story back to a live status.

		Parameters:
		  - context: context.Context
		  - storyID: string
		  - newStatus: Status (processing, completed, or failed)

		Returns:
		  - error: NOT_FOUND if absent, INVALID_STATE if the story is not deleted
	*/
	Restore(context context.Context, storyID string, newStatus Status) error

	/*
		ListDeletedBefore returns the IDs of soft-deleted stories whose
		updated_at is older than the cutoff, oldest first. Used by the
		retention sweep to select purge targets.

		Parameters:
		  - context: context.Context
		  - cutoff: time.Time

		Returns:
		  - []string: Candidate story IDs
		  - error: Retrieval failures
	*/
	ListDeletedBefore(context context.Context, cutoff time.Time) ([]string, error)
}
