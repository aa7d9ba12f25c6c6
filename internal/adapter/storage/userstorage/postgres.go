package userstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/user"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
	"time"
)

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

func (s *PostgresStorage) Add(ctx context.Context, u *user.User) error {
	q := sqlf.InsertInto("users").
		Set("user_id", u.UserID).
		Set("email", u.Email).
		Set("password_hash", u.PasswordHash).
		Set("created_at", u.CreatedAt).
		Set("updated_at", u.UpdatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		switch {
		case pgutil.ViolatesConstraint(err, "users_pkey"):
			return user.ErrUserExists
		case pgutil.ViolatesConstraint(err, "users_email_key"):
			return user.ErrUserEmailDuplicate
		}
		return storage.InternalError(err)
	}

	for _, sess := range u.Sessions {
		if err := s.addSession(ctx, u.UserID, sess); err != nil {
			return err
		}
	}

	s.base.MarkSeen(u.UserID, u)
	return nil
}

func (s *PostgresStorage) addSession(ctx context.Context, userID string, sess *user.Session) error {
	addSession := sqlf.InsertInto("sessions").
		Set("session_id", sess.SessionID).
		Set("user_id", userID).
		Set("created_at", sess.CreatedAt).
		Set("valid_until", sess.ValidUntil).
		Set("logout_at", sess.LogoutAt)

	addDevice := sqlf.InsertInto("devices").
		Set("session_id", sess.SessionID).
		Set("os", sess.Device.OS).
		Set("device_model", sess.Device.Model).
		Set("ip_address", sess.Device.IPAddress).
		Set("browser", sess.Device.Browser)

	if _, err := addSession.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "sessions_pkey") {
			return user.ErrSessionExists
		}
		return storage.InternalError(err)
	}

	if _, err := addDevice.ExecAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}
	return nil
}

func (s *PostgresStorage) get(ctx context.Context, where string, args ...any) (*user.User, error) {
	var r userWithSessionRow

	q := sqlf.From("users u").
		LeftJoin("sessions s", "s.user_id = u.user_id").
		LeftJoin("devices d", "d.session_id = s.session_id").
		Where(where, args...).
		OrderBy("s.created_at").
		Select("u.user_id").To(&r.UserID).
		Select("u.email").To(&r.Email).
		Select("u.password_hash").To(&r.PasswordHash).
		Select("u.created_at").To(&r.CreatedAt).
		Select("u.updated_at").To(&r.UpdatedAt).
		Select("s.session_id").To(&r.SessionID).
		Select("s.created_at").To(&r.SessionCreatedAt).
		Select("s.valid_until").To(&r.ValidUntil).
		Select("s.logout_at").To(&r.LogoutAt).
		Select("d.os").To(&r.OS).
		Select("d.browser").To(&r.Browser).
		Select("d.device_model").To(&r.Model).
		Select("d.ip_address").To(&r.IPAddress)

	var rows []userWithSessionRow
	err := q.QueryAndClose(ctx, s.base.DB, func(*sql.Rows) {
		rows = append(rows, r)
		// Scan reuses non-nil pointers, so every row needs fresh ones.
		r = userWithSessionRow{}
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, storage.InternalError(err)
	}
	if len(rows) == 0 {
		return nil, user.ErrUserNotFound
	}

	u := rowsToDomain(rows)
	s.base.MarkSeen(u.UserID, u)
	return u, nil
}

func (s *PostgresStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.get(ctx, "u.email = ?", email)
}

func (s *PostgresStorage) GetByID(ctx context.Context, userID string) (*user.User, error) {
	return s.get(ctx, "u.user_id = ?", userID)
}

func (s *PostgresStorage) GetBySession(ctx context.Context, sessionID string) (*user.User, error) {
	return s.get(ctx, "u.user_id = (SELECT user_id FROM sessions WHERE session_id = ?)", sessionID)
}

func (s *PostgresStorage) Persist(ctx context.Context, u *user.User) error {
	stored, err := s.GetByID(ctx, u.UserID)
	if err != nil {
		return err
	}
	s.base.MarkSeen(u.UserID, u)

	if changes, _ := diff.Diff(stored, u); len(changes) != 0 {
		q, err := pgutil.MakeUpdateQuery(sqlf.Update("users").Where("user_id = ?", u.UserID), changes)
		if err != nil {
			return storage.InternalError(err)
		}
		res, err := q.ExecAndClose(ctx, s.base.DB)
		if err := pgutil.AssertUpdated(res, err, user.ErrUserNotFound); err != nil {
			return fmt.Errorf("can't persist user: %w", err)
		}
	}

	for _, sess := range u.Sessions {
		old := stored.Session(sess.SessionID)
		if old == nil {
			if err := s.addSession(ctx, u.UserID, sess); err != nil {
				return err
			}
			continue
		}
		if err := s.persistSession(ctx, old, sess); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStorage) persistSession(ctx context.Context, stored, changed *user.Session) error {
	changes, _ := diff.Diff(stored, changed)
	if len(changes) == 0 {
		return nil
	}

	q, err := pgutil.MakeUpdateQuery(sqlf.Update("sessions").Where("session_id = ?", stored.SessionID), changes)
	if err != nil {
		return storage.InternalError(err)
	}
	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}
	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type userWithSessionRow struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	SessionID        *string
	SessionCreatedAt *time.Time
	ValidUntil       *time.Time
	LogoutAt         *time.Time

	IPAddress *string
	Browser   *string
	OS        *string
	Model     *string
}

func rowsToDomain(rows []userWithSessionRow) *user.User {
	first := rows[0]
	u := &user.User{
		UserID:       first.UserID,
		Email:        first.Email,
		PasswordHash: first.PasswordHash,
		CreatedAt:    first.CreatedAt,
		UpdatedAt:    first.UpdatedAt,
		Sessions:     make([]*user.Session, 0, len(rows)),
	}

	for _, r := range rows {
		if r.SessionID == nil {
			continue
		}
		u.Sessions = append(u.Sessions, &user.Session{
			SessionID:  *r.SessionID,
			CreatedAt:  deref(r.SessionCreatedAt),
			ValidUntil: deref(r.ValidUntil),
			LogoutAt:   r.LogoutAt,
			Device: user.Device{
				Browser:   deref(r.Browser),
				OS:        deref(r.OS),
				IPAddress: deref(r.IPAddress),
				Model:     deref(r.Model),
			},
		})
	}
	return u
}

func deref[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}
