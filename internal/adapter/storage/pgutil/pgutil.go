package pgutil

import (
	"database/sql"
	"errors"
	"github.com/akarpov/go_gym_backend/internal/adapter/storage"
	"github.com/akarpov/go_gym_backend/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
	"sync"
)

// EventSource is any aggregate a storage has touched during a transaction.
type EventSource interface {
	PopEvents() []domain.Event
}

// BasePostgresStorage carries the shared plumbing of the postgres
// storages: the executing handle and the set of aggregates seen during
// the current transaction, keyed by id.
type BasePostgresStorage struct {
	DB     storage.DBContext
	seenMu sync.Mutex
	seen   map[string]EventSource
}

func NewBasePostgresStorage(db storage.DBContext) *BasePostgresStorage {
	return &BasePostgresStorage{
		DB:   db,
		seen: make(map[string]EventSource),
	}
}

func (s *BasePostgresStorage) CollectEvents() []domain.Event {
	var events []domain.Event
	s.seenMu.Lock()
	for _, src := range s.seen {
		events = append(events, src.PopEvents()...)
	}
	s.seen = make(map[string]EventSource)
	s.seenMu.Unlock()
	return events
}

func (s *BasePostgresStorage) Close() {
	s.seenMu.Lock()
	s.seen = make(map[string]EventSource)
	s.seenMu.Unlock()
}

func (s *BasePostgresStorage) MarkSeen(id string, src EventSource) {
	s.seenMu.Lock()
	s.seen[id] = src
	s.seenMu.Unlock()
}

func ViolatesConstraint(err error, constraintName string) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) &&
		pgErr.ConstraintName == constraintName
}

func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code)
}

func Peek[K comparable, V any](items map[K]V, defaultValue ...V) V {
	for _, item := range items {
		return item
	}

	if len(defaultValue) != 0 {
		return defaultValue[0]
	}
	return *new(V)
}

func PeekOrErr[K comparable, V any](items map[K]V, err, notFoundErr error) (V, error) {
	if err != nil {
		return *new(V), err
	}

	if len(items) == 0 {
		return *new(V), notFoundErr
	}

	return Peek(items), nil
}

// MakeUpdateQuery turns a diff changelog into SET clauses. Only flat,
// update-typed changes are supported.
func MakeUpdateQuery(stmt *sqlf.Stmt, updates diff.Changelog) *sqlf.Stmt {
	for _, upd := range updates {
		if upd.Type != "update" {
			panic("invalid update type " + upd.Type)
		}
		if len(upd.Path) > 1 {
			panic("cannot process updates in nested structures")
		}

		stmt = stmt.Set(upd.Path[0], upd.To)
	}
	return stmt
}

func AssertUpdated(res sql.Result, err error, notUpdatedError error) error {
	if err != nil {
		return storage.InternalError(err)
	}

	affected, err := res.RowsAffected()

	if err != nil {
		return storage.InternalError(err)
	}

	if affected == 0 {
		return notUpdatedError
	}
	return nil
}
