package pgutil

import (
	"database/sql"
	"errors"
	"fmt"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
	"sync"
)

// BasePostgresStorage remembers the aggregates a storage has touched so their
// events can be collected once the unit of work is done.
type BasePostgresStorage struct {
	DB     storage.DBContext
	seenMu sync.Mutex
	seen   map[string]domain.EventSource
}

func NewBasePostgresStorage(db storage.DBContext) *BasePostgresStorage {
	return &BasePostgresStorage{
		DB:   db,
		seen: make(map[string]domain.EventSource),
	}
}

func (s *BasePostgresStorage) CollectEvents() []domain.Event {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()

	var events []domain.Event
	for _, a := range s.seen {
		events = append(events, a.PopEvents()...)
	}
	s.seen = make(map[string]domain.EventSource)
	return events
}

func (s *BasePostgresStorage) Close() {
	s.seenMu.Lock()
	s.seen = make(map[string]domain.EventSource)
	s.seenMu.Unlock()
}

func (s *BasePostgresStorage) MarkSeen(id string, a domain.EventSource) {
	s.seenMu.Lock()
	s.seen[id] = a
	s.seenMu.Unlock()
}

func ViolatesConstraint(err error, constraintName string) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) &&
		pgErr.ConstraintName == constraintName
}

func ViolatesForeignKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// MakeUpdateQuery turns a flat changelog into SET clauses. Column names come
// from the diff tags of the compared struct.
func MakeUpdateQuery(stmt *sqlf.Stmt, changes diff.Changelog) (*sqlf.Stmt, error) {
	for _, c := range changes {
		if len(c.Path) != 1 {
			return nil, fmt.Errorf("cannot update nested field %v", c.Path)
		}
		stmt = stmt.Set(c.Path[0], c.To)
	}
	return stmt, nil
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
