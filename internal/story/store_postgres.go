// Copyright (c) 2026 Atlance. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package story — PostgreSQL implementation of the aggregate's data access.

It leans on a small set of Postgres features to keep the aggregate honest:
  - ACID Transactions: the four-table write, the mixed-table partial update,
    and the hard delete each run inside a single transaction.
  - LEFT JOIN reads: the root row is never dropped because a dependent is
    missing — absence is detected and surfaced as an integrity fault.
  - JSONB columns: ordered nested sequences (image analyses, Q&A pairs,
    placements) are stored as documents; their ordering survives round-trips.
  - SQLSTATE classification: constraint violations are recognised by code
    (23505, 23503) via the dberr bridge, never by message matching.
*/
package story

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/atlance/internal/platform/apperr"
	"github.com/taibuivan/atlance/internal/platform/database/schema"
	"github.com/taibuivan/atlance/internal/platform/dberr"
)

// # PostgreSQL Repository

// storyRepository implements the [Repository] interface using pgx.
type storyRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed story store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &storyRepository{pool: pool}
}

// # Writer

/*
Create persists a new story aggregate inside a single transaction.

Description: Inserts the root row first, then the three dependents, so the
foreign-key constraints are satisfied by construction. If any insert fails
(duplicate story_id, connectivity, constraint) the deferred rollback leaves
zero rows behind — a reader can never observe a partial aggregate.

The root's created_at is taken from the caller-supplied value; updated_at is
stamped with the operation's wall-clock time.

Parameters:
  - context: context.Context
  - story: *Story (Complete, validated aggregate)

Returns:
  - error: CONFLICT on story_id collision, REFERENTIAL_VIOLATION on FK
    failure, otherwise wrapped storage errors
*/
func (repository *storyRepository) Create(context context.Context, story *Story) error {

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin create transaction: %w", err)
	}
	defer transaction.Rollback(context)

	// Root row first: dependents reference it.
	rootQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW())
	`,
		schema.Story.Table,
		schema.Story.StoryID, schema.Story.UserID, schema.Story.Status,
		schema.Story.CreatedAt, schema.Story.UpdatedAt,
	)

	_, err = transaction.Exec(context, rootQuery,
		story.StoryID,
		story.UserID,
		story.Status,
		story.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Story")
	}

	// Deduplication dependent
	uniquePaths, err := marshalJSONB(story.Deduplication.UniquePaths)
	if err != nil {
		return err
	}

	dedupQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
	`,
		schema.DeduplicationResult.Table,
		schema.DeduplicationResult.StoryID,
		schema.DeduplicationResult.OriginalCount,
		schema.DeduplicationResult.UniqueCount,
		schema.DeduplicationResult.UniquePaths,
	)

	_, err = transaction.Exec(context, dedupQuery,
		story.StoryID,
		story.Deduplication.OriginalCount,
		story.Deduplication.UniqueCount,
		uniquePaths,
	)
	if err != nil {
		return dberr.Wrap(err, "Deduplication result")
	}

	// Extraction dependent
	images, err := marshalJSONB(story.Extraction.Images)
	if err != nil {
		return err
	}
	placeContext, err := marshalJSONB(story.Extraction.PlaceContext)
	if err != nil {
		return err
	}

	extractionQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
	`,
		schema.ExtractionResult.Table,
		schema.ExtractionResult.StoryID,
		schema.ExtractionResult.Images,
		schema.ExtractionResult.PlaceContext,
		schema.ExtractionResult.PreliminaryStory,
	)

	_, err = transaction.Exec(context, extractionQuery,
		story.StoryID,
		images,
		placeContext,
		story.Extraction.PreliminaryStory,
	)
	if err != nil {
		return dberr.Wrap(err, "Extraction result")
	}

	// Narrative dependent
	questions, err := marshalJSONB(story.Narrative.Questions)
	if err != nil {
		return err
	}
	placements, err := marshalJSONB(story.Narrative.ImagePlacements)
	if err != nil {
		return err
	}

	narrativeQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		schema.NarrativeResult.Table,
		schema.NarrativeResult.StoryID,
		schema.NarrativeResult.Questions,
		schema.NarrativeResult.Title,
		schema.NarrativeResult.Content,
		schema.NarrativeResult.WordCount,
		schema.NarrativeResult.Tone,
		schema.NarrativeResult.ImagePlacements,
	)

	_, err = transaction.Exec(context, narrativeQuery,
		story.StoryID,
		questions,
		story.Narrative.Title,
		story.Narrative.Content,
		story.Narrative.WordCount,
		story.Narrative.Tone,
		placements,
	)
	if err != nil {
		return dberr.Wrap(err, "Narrative result")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit create transaction: %w", err)
	}

	return nil
}

// # Reader

/*
FindByID reconstructs a full story aggregate in a single round-trip.

Description: LEFT JOINs the three dependent tables onto the root so that a
missing dependent cannot silently drop the story row. Each dependent's
story_id column is scanned as a nullable marker: a NULL marker with a live
root row means the aggregate is broken, which is surfaced as
INCOMPLETE_AGGREGATE rather than a partially-filled result.

Parameters:
  - context: context.Context
  - storyID: string

Returns:
  - *Story: The fully hydrated aggregate
  - error: NOT_FOUND if the root is absent, INCOMPLETE_AGGREGATE on a
    missing dependent, otherwise wrapped storage errors
*/
func (repository *storyRepository) FindByID(context context.Context, storyID string) (*Story, error) {

	query := fmt.Sprintf(`
		SELECT
			s.%s, s.%s, s.%s, s.%s, s.%s,
			d.%s, d.%s, d.%s, d.%s,
			e.%s, e.%s, e.%s, e.%s,
			n.%s, n.%s, n.%s, n.%s, n.%s, n.%s, n.%s
		FROM %s s
		LEFT JOIN %s d ON d.%s = s.%s
		LEFT JOIN %s e ON e.%s = s.%s
		LEFT JOIN %s n ON n.%s = s.%s
		WHERE s.%s = $1
	`,
		schema.Story.StoryID, schema.Story.UserID, schema.Story.Status, schema.Story.CreatedAt, schema.Story.UpdatedAt,
		schema.DeduplicationResult.StoryID, schema.DeduplicationResult.OriginalCount, schema.DeduplicationResult.UniqueCount, schema.DeduplicationResult.UniquePaths,
		schema.ExtractionResult.StoryID, schema.ExtractionResult.Images, schema.ExtractionResult.PlaceContext, schema.ExtractionResult.PreliminaryStory,
		schema.NarrativeResult.StoryID, schema.NarrativeResult.Questions, schema.NarrativeResult.Title, schema.NarrativeResult.Content, schema.NarrativeResult.WordCount, schema.NarrativeResult.Tone, schema.NarrativeResult.ImagePlacements,
		schema.Story.Table,
		schema.DeduplicationResult.Table, schema.DeduplicationResult.StoryID, schema.Story.StoryID,
		schema.ExtractionResult.Table, schema.ExtractionResult.StoryID, schema.Story.StoryID,
		schema.NarrativeResult.Table, schema.NarrativeResult.StoryID, schema.Story.StoryID,
		schema.Story.StoryID,
	)

	story := &Story{}

	// Nullable markers and payloads for the three dependents.
	var (
		dedupID       *string
		originalCount *int
		uniqueCount   *int
		uniquePaths   []byte

		extractionID     *string
		images           []byte
		placeContext     []byte
		preliminaryStory *string

		narrativeID *string
		questions   []byte
		title       *string
		content     *string
		wordCount   *int
		tone        *string
		placements  []byte
	)

	err := repository.pool.QueryRow(context, query, storyID).Scan(
		&story.StoryID,
		&story.UserID,
		&story.Status,
		&story.CreatedAt,
		&story.UpdatedAt,
		&dedupID, &originalCount, &uniqueCount, &uniquePaths,
		&extractionID, &images, &placeContext, &preliminaryStory,
		&narrativeID, &questions, &title, &content, &wordCount, &tone, &placements,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Story")
		}
		return nil, fmt.Errorf("postgres: failed to find story by id: %w", err)
	}

	// Integrity check: the root exists iff all three dependents exist.
	if dedupID == nil || extractionID == nil || narrativeID == nil {
		return nil, apperr.IncompleteAggregate(storyID)
	}

	// Deduplication hydration
	dedup := &DeduplicationResult{
		OriginalCount: *originalCount,
		UniqueCount:   *uniqueCount,
	}
	if err := json.Unmarshal(uniquePaths, &dedup.UniquePaths); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal unique paths: %w", err)
	}
	story.Deduplication = dedup

	// Extraction hydration
	extraction := &ExtractionResult{PreliminaryStory: *preliminaryStory}
	if err := json.Unmarshal(images, &extraction.Images); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal image analyses: %w", err)
	}
	if err := json.Unmarshal(placeContext, &extraction.PlaceContext); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal place context: %w", err)
	}
	story.Extraction = extraction

	// Narrative hydration
	narrative := &NarrativeResult{
		Title:     *title,
		Content:   *content,
		WordCount: *wordCount,
		Tone:      *tone,
	}
	if err := json.Unmarshal(questions, &narrative.Questions); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal questions: %w", err)
	}
	if err := json.Unmarshal(placements, &narrative.ImagePlacements); err != nil {
		return nil, fmt.Errorf("postgres: failed to unmarshal image placements: %w", err)
	}
	story.Narrative = narrative

	return story, nil
}

/*
FindMetadataByID returns the root-only projection with no join.

Description: The cheap companion lookup used by listings and existence/status
checks. It touches only the root table and never hydrates sub-records.

Parameters:
  - context: context.Context
  - storyID: string

Returns:
  - *Metadata: Root fields only
  - error: NOT_FOUND if absent
*/
func (repository *storyRepository) FindMetadataByID(context context.Context, storyID string) (*Metadata, error) {

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.Story.StoryID, schema.Story.UserID, schema.Story.Status,
		schema.Story.CreatedAt, schema.Story.UpdatedAt,
		schema.Story.Table,
		schema.Story.StoryID,
	)

	metadata := &Metadata{}
	err := repository.pool.QueryRow(context, query, storyID).Scan(
		&metadata.StoryID,
		&metadata.UserID,
		&metadata.Status,
		&metadata.CreatedAt,
		&metadata.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Story")
		}
		return nil, fmt.Errorf("postgres: failed to find story metadata: %w", err)
	}

	return metadata, nil
}

// # Lister

/*
List returns one page of root-only projections plus the total matching count.

Description: Builds a single predicate conjunction from the present filters
(no filters means no WHERE clause at all), runs an independent COUNT query
over that predicate, then fetches the page ordered by the whitelisted sort
column. Counting independently of the window keeps the total correct even
when the requested offset lies beyond the last row.

Parameters:
  - context: context.Context
  - filter: Filter (Optional user_id/status equality predicates)
  - sortBy: SortField (Already validated by the service)
  - sortOrder: SortOrder
  - limit: int
  - offset: int

Returns:
  - []*Metadata: The requested page (possibly empty)
  - int: Total matching count
  - error: Wrapped storage errors
*/
func (repository *storyRepository) List(context context.Context, filter Filter, sortBy SortField, sortOrder SortOrder, limit, offset int) ([]*Metadata, int, error) {

	// Shared predicate conjunction
	var predicates []string
	var args []any
	argID := 1

	if filter.UserID != "" {
		predicates = append(predicates, fmt.Sprintf("%s = $%d", schema.Story.UserID, argID))
		args = append(args, filter.UserID)
		argID++
	}
	if filter.Status != "" {
		predicates = append(predicates, fmt.Sprintf("%s = $%d", schema.Story.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	whereClause := ""
	if len(predicates) > 0 {
		whereClause = " WHERE " + strings.Join(predicates, " AND ")
	}

	// Total count, independent of the page window
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", schema.Story.Table, whereClause)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to count stories: %w", err)
	}

	// The sort column comes from the SortField whitelist, never from raw input.
	orderColumn := map[SortField]string{
		SortByCreatedAt: schema.Story.CreatedAt,
		SortByUpdatedAt: schema.Story.UpdatedAt,
		SortByStoryID:   schema.Story.StoryID,
	}[sortBy]

	direction := "DESC"
	if sortOrder == SortAsc {
		direction = "ASC"
	}

	pageQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s%s
		ORDER BY %s %s, %s %s
		LIMIT $%d OFFSET $%d
	`,
		schema.Story.StoryID, schema.Story.UserID, schema.Story.Status,
		schema.Story.CreatedAt, schema.Story.UpdatedAt,
		schema.Story.Table, whereClause,
		orderColumn, direction, schema.Story.StoryID, direction,
		argID, argID+1,
	)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list stories: %w", err)
	}
	defer rows.Close()

	var page []*Metadata
	for rows.Next() {
		metadata := &Metadata{}
		err := rows.Scan(
			&metadata.StoryID,
			&metadata.UserID,
			&metadata.Status,
			&metadata.CreatedAt,
			&metadata.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan story metadata: %w", err)
		}
		page = append(page, metadata)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: story listing aborted: %w", err)
	}

	return page, total, nil
}

// # Updater

/*
Update applies a typed partial change set atomically.

Description: For each of the four tables, a dynamic UPDATE is issued if and
only if the change set names at least one of its columns; unnamed columns
are never touched. The final statement of the same transaction refreshes the
root's updated_at unconditionally — it doubles as the existence check, since
zero affected rows there means the story does not exist and everything rolls
back. A targeted sub-update affecting zero rows means the dependent row is
missing, which is a data-integrity fault, not a no-op.

Parameters:
  - context: context.Context
  - storyID: string
  - changes: ChangeSet

Returns:
  - error: NOT_FOUND, INCOMPLETE_AGGREGATE, or wrapped storage errors
*/
func (repository *storyRepository) Update(context context.Context, storyID string, changes ChangeSet) error {

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin update transaction: %w", err)
	}
	defer transaction.Rollback(context)

	// Root columns (excluding the timestamp, handled below)
	if changes.hasRoot() {
		var setClauses []string
		var args []any
		argID := 1

		if changes.Root.UserID != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.Story.UserID, argID))
			args = append(args, *changes.Root.UserID)
			argID++
		}
		if changes.Root.Status != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.Story.Status, argID))
			args = append(args, *changes.Root.Status)
			argID++
		}

		query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
			schema.Story.Table, strings.Join(setClauses, ", "), schema.Story.StoryID, argID)
		args = append(args, storyID)

		result, err := transaction.Exec(context, query, args...)
		if err != nil {
			return dberr.Wrap(err, "Story")
		}
		if result.RowsAffected() == 0 {
			return apperr.NotFound("Story")
		}
	}

	// Deduplication columns
	if changes.hasDedup() {
		var setClauses []string
		var args []any
		argID := 1

		if changes.Dedup.OriginalCount != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.DeduplicationResult.OriginalCount, argID))
			args = append(args, *changes.Dedup.OriginalCount)
			argID++
		}
		if changes.Dedup.UniqueCount != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.DeduplicationResult.UniqueCount, argID))
			args = append(args, *changes.Dedup.UniqueCount)
			argID++
		}
		if changes.Dedup.UniquePaths != nil {
			payload, err := marshalJSONB(*changes.Dedup.UniquePaths)
			if err != nil {
				return err
			}
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.DeduplicationResult.UniquePaths, argID))
			args = append(args, payload)
			argID++
		}

		query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
			schema.DeduplicationResult.Table, strings.Join(setClauses, ", "), schema.DeduplicationResult.StoryID, argID)
		args = append(args, storyID)

		if err := repository.execSubUpdate(context, transaction, query, args, storyID); err != nil {
			return err
		}
	}

	// Extraction columns
	if changes.hasExtraction() {
		var setClauses []string
		var args []any
		argID := 1

		if changes.Extraction.Images != nil {
			payload, err := marshalJSONB(*changes.Extraction.Images)
			if err != nil {
				return err
			}
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.ExtractionResult.Images, argID))
			args = append(args, payload)
			argID++
		}
		if changes.Extraction.PlaceContext != nil {
			payload, err := marshalJSONB(*changes.Extraction.PlaceContext)
			if err != nil {
				return err
			}
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.ExtractionResult.PlaceContext, argID))
			args = append(args, payload)
			argID++
		}
		if changes.Extraction.PreliminaryStory != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.ExtractionResult.PreliminaryStory, argID))
			args = append(args, *changes.Extraction.PreliminaryStory)
			argID++
		}

		query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
			schema.ExtractionResult.Table, strings.Join(setClauses, ", "), schema.ExtractionResult.StoryID, argID)
		args = append(args, storyID)

		if err := repository.execSubUpdate(context, transaction, query, args, storyID); err != nil {
			return err
		}
	}

	// Narrative columns
	if changes.hasNarrative() {
		var setClauses []string
		var args []any
		argID := 1

		if changes.Narrative.Questions != nil {
			payload, err := marshalJSONB(*changes.Narrative.Questions)
			if err != nil {
				return err
			}
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.NarrativeResult.Questions, argID))
			args = append(args, payload)
			argID++
		}
		if changes.Narrative.Title != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.NarrativeResult.Title, argID))
			args = append(args, *changes.Narrative.Title)
			argID++
		}
		if changes.Narrative.Content != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.NarrativeResult.Content, argID))
			args = append(args, *changes.Narrative.Content)
			argID++
		}
		if changes.Narrative.WordCount != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.NarrativeResult.WordCount, argID))
			args = append(args, *changes.Narrative.WordCount)
			argID++
		}
		if changes.Narrative.Tone != nil {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.NarrativeResult.Tone, argID))
			args = append(args, *changes.Narrative.Tone)
			argID++
		}
		if changes.Narrative.ImagePlacements != nil {
			payload, err := marshalJSONB(*changes.Narrative.ImagePlacements)
			if err != nil {
				return err
			}
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", schema.NarrativeResult.ImagePlacements, argID))
			args = append(args, payload)
			argID++
		}

		query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
			schema.NarrativeResult.Table, strings.Join(setClauses, ", "), schema.NarrativeResult.StoryID, argID)
		args = append(args, storyID)

		if err := repository.execSubUpdate(context, transaction, query, args, storyID); err != nil {
			return err
		}
	}

	// Unconditional final step: refresh the aggregate's modification
	// timestamp. Also the existence check for the whole operation.
	touchQuery := fmt.Sprintf("UPDATE %s SET %s = NOW() WHERE %s = $1",
		schema.Story.Table, schema.Story.UpdatedAt, schema.Story.StoryID)

	result, err := transaction.Exec(context, touchQuery, storyID)
	if err != nil {
		return fmt.Errorf("postgres: failed to refresh story timestamp: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Story")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit update transaction: %w", err)
	}

	return nil
}

// execSubUpdate runs a dependent-table UPDATE inside the transaction and
// converts a zero-row result into an integrity fault.
func (repository *storyRepository) execSubUpdate(context context.Context, transaction pgx.Tx, query string, args []any, storyID string) error {
	result, err := transaction.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "Story")
	}
	if result.RowsAffected() == 0 {
		// Root may or may not exist; the final timestamp refresh settles
		// NOT_FOUND. Zero rows here with a live root is a broken aggregate.
		exists, checkErr := repository.rootExists(context, transaction, storyID)
		if checkErr != nil {
			return checkErr
		}
		if !exists {
			return apperr.NotFound("Story")
		}
		return apperr.IncompleteAggregate(storyID)
	}
	return nil
}

// rootExists checks for the root row inside the current transaction.
func (repository *storyRepository) rootExists(context context.Context, transaction pgx.Tx, storyID string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)",
		schema.Story.Table, schema.Story.StoryID)

	var exists bool
	if err := transaction.QueryRow(context, query, storyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check story existence: %w", err)
	}
	return exists, nil
}

// # Deleter

/*
SoftDelete marks a story as logically deleted.

Description: A pure status transition on the root row — no sub-record is
touched and no row is removed. The guard predicate skips rows already in the
deleted state, which makes the operation idempotent: the second call affects
zero rows, the follow-up existence probe confirms the story is present, and
success is returned without re-stamping updated_at.

Parameters:
  - context: context.Context
  - storyID: string

Returns:
  - error: NOT_FOUND if the story does not exist
*/
func (repository *storyRepository) SoftDelete(context context.Context, storyID string) error {

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = NOW()
		WHERE %s = $2 AND %s <> $1
	`,
		schema.Story.Table, schema.Story.Status, schema.Story.UpdatedAt,
		schema.Story.StoryID, schema.Story.Status,
	)

	result, err := repository.pool.Exec(context, query, StatusDeleted, storyID)
	if err != nil {
		return fmt.Errorf("postgres: failed to soft-delete story: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Either absent, or already deleted (idempotent success).
		if _, err := repository.FindMetadataByID(context, storyID); err != nil {
			return err
		}
	}

	return nil
}

/*
HardDelete physically removes all four rows of the aggregate.

Description: Deletes the dependents first, then the root, inside one
transaction; the schema's ON DELETE CASCADE would cover the dependents on
its own, but deleting in dependency order keeps the operation correct even
against a schema missing the cascade. Zero rows affected on the root means
the story never existed.

Parameters:
  - context: context.Context
  - storyID: string

Returns:
  - error: NOT_FOUND if the root row is absent
*/
func (repository *storyRepository) HardDelete(context context.Context, storyID string) error {

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin delete transaction: %w", err)
	}
	defer transaction.Rollback(context)

	dependents := []struct{ table, column string }{
		{schema.DeduplicationResult.Table, schema.DeduplicationResult.StoryID},
		{schema.ExtractionResult.Table, schema.ExtractionResult.StoryID},
		{schema.NarrativeResult.Table, schema.NarrativeResult.StoryID},
	}

	for _, dependent := range dependents {
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", dependent.table, dependent.column)
		if _, err := transaction.Exec(context, query, storyID); err != nil {
			return fmt.Errorf("postgres: failed to delete from %s: %w", dependent.table, err)
		}
	}

	rootQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Story.Table, schema.Story.StoryID)
	result, err := transaction.Exec(context, rootQuery, storyID)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete story: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Story")
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit delete transaction: %w", err)
	}

	return nil
}

/*
Restore transitions a soft-deleted story back to a live status.

Description: The UPDATE is guarded on the current status being 'deleted'.
Zero affected rows then means either the story is absent (NOT_FOUND) or it
is live already, which is an INVALID_STATE the caller must hear about rather
than a silent success.

Parameters:
  - context: context.Context
  - storyID: string
  - newStatus: Status (Validated by the service: processing, completed, failed)

Returns:
  - error: NOT_FOUND or INVALID_STATE
*/
func (repository *storyRepository) Restore(context context.Context, storyID string, newStatus Status) error {

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = NOW()
		WHERE %s = $2 AND %s = $3
	`,
		schema.Story.Table, schema.Story.Status, schema.Story.UpdatedAt,
		schema.Story.StoryID, schema.Story.Status,
	)

	result, err := repository.pool.Exec(context, query, newStatus, storyID, StatusDeleted)
	if err != nil {
		return fmt.Errorf("postgres: failed to restore story: %w", err)
	}

	if result.RowsAffected() == 0 {
		metadata, err := repository.FindMetadataByID(context, storyID)
		if err != nil {
			return err
		}
		return apperr.InvalidState(fmt.Sprintf("Story is %q, only deleted stories can be restored", metadata.Status))
	}

	return nil
}

/*
ListDeletedBefore returns purge candidates for the retention sweep.

Parameters:
  - context: context.Context
  - cutoff: time.Time (Stories soft-deleted and untouched since before this)

Returns:
  - []string: Candidate story IDs, oldest first
  - error: Retrieval failures
*/
func (repository *storyRepository) ListDeletedBefore(context context.Context, cutoff time.Time) ([]string, error) {

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s < $2
		ORDER BY %s ASC
	`,
		schema.Story.StoryID, schema.Story.Table,
		schema.Story.Status, schema.Story.UpdatedAt,
		schema.Story.UpdatedAt,
	)

	rows, err := repository.pool.Query(context, query, StatusDeleted, cutoff)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list purge candidates: %w", err)
	}
	defer rows.Close()

	var storyIDs []string
	for rows.Next() {
		var storyID string
		if err := rows.Scan(&storyID); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan purge candidate: %w", err)
		}
		storyIDs = append(storyIDs, storyID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: purge candidate listing aborted: %w", err)
	}

	return storyIDs, nil
}

// # Helpers

// marshalJSONB encodes a nested sequence for a JSONB column. nil slices are
// stored as empty JSON arrays so reads never hydrate a null document.
func marshalJSONB(value any) ([]byte, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to marshal jsonb payload: %w", err)
	}
	if string(payload) == "null" {
		return []byte("[]"), nil
	}
	return payload, nil
}
