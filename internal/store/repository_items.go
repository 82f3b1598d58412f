// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

var itemColumns = []string{
	"id",
	"created_at",
	"updated_at",
	"natural_key",
	"content",
	"status",
	"etag",
	"deleted",
	"duplicated",
}

// itemRepository is the SQLite implementation of [ItemRepository]. Each
// collection lives in its own table named after the collection; the content
// is kept as a JSON column next to the natural key and the sync state.
type itemRepository[C models.Content[C]] struct {
	*DB
	table   string
	builder sq.StatementBuilderType
	logger  *logger.Logger
}

// NewItemRepository constructs the repository of the collection that holds
// content type C.
func NewItemRepository[C models.Content[C]](db *DB, logger *logger.Logger) ItemRepository[C] {
	return &itemRepository[C]{
		DB:      db,
		table:   models.CollectionOf[C]().String(),
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
		logger:  logger,
	}
}

func (r *itemRepository[C]) List(ctx context.Context) ([]models.Record[C], error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Select(itemColumns...).From(r.table).OrderBy("created_at", "id").ToSql()
	if err != nil {
		log.Err(err).Str("func", "itemRepository.List").Str("table", r.table).Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "itemRepository.List").Str("table", r.table).Msg("failed to execute query for listing items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.Record[C], 0, 64)
	for rows.Next() {
		rec, scanErr := scanRecord[C](rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "itemRepository.List").Str("table", r.table).Msg("failed to scan item row")
			return nil, scanErr
		}
		records = append(records, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "itemRepository.List").Str("table", r.table).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

func (r *itemRepository[C]) ListIDs(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Select("id").From(r.table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "itemRepository.ListIDs").Str("table", r.table).Msg("failed to execute query for listing ids")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			log.Err(scanErr).Str("func", "itemRepository.ListIDs").Str("table", r.table).Msg("failed to scan id")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		ids = append(ids, id)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return ids, nil
}

func (r *itemRepository[C]) Get(ctx context.Context, id string) (models.Record[C], error) {
	return r.getOne(ctx, "itemRepository.Get", sq.Eq{"id": id})
}

func (r *itemRepository[C]) FindByNaturalKey(ctx context.Context, key string) (models.Record[C], error) {
	if key == "" {
		return models.Record[C]{}, ErrItemNotFound
	}

	return r.getOne(ctx, "itemRepository.FindByNaturalKey", sq.Eq{"natural_key": key, "duplicated": false})
}

func (r *itemRepository[C]) getOne(ctx context.Context, funcName string, where sq.Eq) (models.Record[C], error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Select(itemColumns...).From(r.table).Where(where).Limit(1).ToSql()
	if err != nil {
		log.Err(err).Str("func", funcName).Str("table", r.table).Msg("failed to create query")
		return models.Record[C]{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rec, err := scanRecord[C](r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record[C]{}, ErrItemNotFound
	}
	if err != nil {
		log.Err(err).Str("func", funcName).Str("table", r.table).Msg("failed to get item")
		return models.Record[C]{}, err
	}

	return rec, nil
}

func (r *itemRepository[C]) Insert(ctx context.Context, rec models.Record[C]) error {
	log := logger.FromContext(ctx)

	if err := rec.State.Validate(); err != nil {
		return err
	}

	content, err := json.Marshal(rec.Content)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingContent, err)
	}

	query, args, err := r.builder.Insert(r.table).
		Columns(itemColumns...).
		Values(
			rec.ID,
			unixMillis(rec.Created),
			unixMillis(rec.Updated),
			nullableKey(rec.Content.NaturalKey()),
			string(content),
			string(rec.State.Status),
			rec.State.ETag,
			rec.State.Deleted,
			rec.State.Duplicated,
		).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if r.errorClassificator.IsUniqueViolation(err) {
			log.Debug().Str("func", "itemRepository.Insert").Str("table", r.table).Str("id", rec.ID).Msg("natural key collision")
			return fmt.Errorf("%w: id=%s key=%q", ErrDuplicateNaturalKey, rec.ID, rec.Content.NaturalKey())
		}
		log.Err(err).Str("func", "itemRepository.Insert").Str("table", r.table).Str("id", rec.ID).Msg("failed to insert item")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotSaved
	}

	return nil
}

func (r *itemRepository[C]) UpdateContent(ctx context.Context, id string, content C, updated time.Time) error {
	log := logger.FromContext(ctx)

	encoded, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingContent, err)
	}

	query, args, err := r.builder.Update(r.table).
		Set("content", string(encoded)).
		Set("natural_key", nullableKey(content.NaturalKey())).
		Set("updated_at", unixMillis(updated)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if r.errorClassificator.IsUniqueViolation(err) {
			return fmt.Errorf("%w: id=%s key=%q", ErrDuplicateNaturalKey, id, content.NaturalKey())
		}
		log.Err(err).Str("func", "itemRepository.UpdateContent").Str("table", r.table).Str("id", id).Msg("failed to update item content")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res, id)
}

func (r *itemRepository[C]) UpdateState(ctx context.Context, id string, state models.SyncState) error {
	log := logger.FromContext(ctx)

	if err := state.Validate(); err != nil {
		return err
	}

	query, args, err := r.builder.Update(r.table).
		Set("status", string(state.Status)).
		Set("etag", state.ETag).
		Set("deleted", state.Deleted).
		Set("duplicated", state.Duplicated).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.UpdateState").
			Str("table", r.table).
			Str("id", id).
			Str("state", state.String()).
			Msg("failed to update item state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res, id)
}

func (r *itemRepository[C]) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.Delete(r.table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "itemRepository.Delete").Str("table", r.table).Str("id", id).Msg("failed to delete item")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord[C models.Content[C]](row rowScanner) (models.Record[C], error) {
	var (
		rec        models.Record[C]
		created    int64
		updated    int64
		naturalKey sql.NullString
		content    string
		status     string
	)

	err := row.Scan(
		&rec.ID,
		&created,
		&updated,
		&naturalKey,
		&content,
		&status,
		&rec.State.ETag,
		&rec.State.Deleted,
		&rec.State.Duplicated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err = json.Unmarshal([]byte(content), &rec.Content); err != nil {
		return rec, fmt.Errorf("%w: id=%s: %w", ErrEncodingContent, rec.ID, err)
	}
	rec.Created = fromUnixMillis(created)
	rec.Updated = fromUnixMillis(updated)
	rec.State.Status = models.Status(status)

	return rec, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id=%s", ErrItemNotFound, id)
	}
	return nil
}

func nullableKey(key string) any {
	if key == "" {
		return nil
	}
	return key
}

func unixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromUnixMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
